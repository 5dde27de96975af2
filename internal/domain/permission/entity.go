package permission

import "time"

// Category groups permissions into the four functional areas of the app.
type Category string

const (
	CategoryGeneral        Category = "GENERAL"
	CategoryPaperasse      Category = "PAPERASSE"
	CategoryAdministration Category = "ADMINISTRATION"
	CategoryGestion        Category = "GESTION"
)

// Permission is a seedable catalog entry. Codes are stable identifiers
// (e.g. "MANAGE_CHARGES") referenced by roles; entries are never deleted
// in normal operation.
type Permission struct {
	ID          string
	Code        string
	Name        string
	Description string
	Module      string
	Category    Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Catalog indexes the permission set by code.
type Catalog map[string]Permission

// NewCatalog builds a Catalog from a list of permissions.
func NewCatalog(perms []Permission) Catalog {
	c := make(Catalog, len(perms))
	for _, p := range perms {
		c[p.Code] = p
	}
	return c
}

// CategoryOf returns the category of a permission code, if the code exists.
func (c Catalog) CategoryOf(code string) (Category, bool) {
	p, ok := c[code]
	if !ok {
		return "", false
	}
	return p.Category, true
}

// ValidCategory reports whether s is one of the fixed categories.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryGeneral, CategoryPaperasse, CategoryAdministration, CategoryGestion:
		return true
	}
	return false
}
