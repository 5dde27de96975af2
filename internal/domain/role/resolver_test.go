package role

import (
	"testing"

	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/stretchr/testify/assert"
)

func testCatalog() permission.Catalog {
	return permission.NewCatalog([]permission.Permission{
		{Code: "VIEW_FACTURES", Category: permission.CategoryPaperasse},
		{Code: "MANAGE_CHARGES", Category: permission.CategoryPaperasse},
		{Code: "MANAGE_STOCK", Category: permission.CategoryGestion},
		{Code: "VIEW_GESTION_CATEGORY", Category: permission.CategoryGestion},
	})
}

func TestEffectivePermissions_BaseOnly(t *testing.T) {
	r := Role{BasePermissions: []string{"VIEW_FACTURES", "MANAGE_CHARGES"}}

	effective := EffectivePermissions(r)

	assert.Len(t, effective, 2)
	assert.Contains(t, effective, "VIEW_FACTURES")
	assert.Contains(t, effective, "MANAGE_CHARGES")
}

func TestEffectivePermissions_OverrideAdds(t *testing.T) {
	r := Role{
		BasePermissions: []string{"VIEW_FACTURES"},
		Overrides:       map[string]bool{"MANAGE_STOCK": true},
	}

	effective := EffectivePermissions(r)

	assert.Contains(t, effective, "VIEW_FACTURES")
	assert.Contains(t, effective, "MANAGE_STOCK")
}

func TestEffectivePermissions_OverrideRemovesBaseCode(t *testing.T) {
	r := Role{
		BasePermissions: []string{"VIEW_FACTURES", "MANAGE_CHARGES"},
		Overrides:       map[string]bool{"MANAGE_CHARGES": false},
	}

	effective := EffectivePermissions(r)

	assert.Contains(t, effective, "VIEW_FACTURES")
	assert.NotContains(t, effective, "MANAGE_CHARGES")
}

func TestEffectivePermissions_FalseOverrideForAbsentCodeIsNoop(t *testing.T) {
	r := Role{
		BasePermissions: []string{"VIEW_FACTURES"},
		Overrides:       map[string]bool{"MANAGE_STOCK": false},
	}

	effective := EffectivePermissions(r)

	assert.Len(t, effective, 1)
	assert.Contains(t, effective, "VIEW_FACTURES")
}

func TestEffectivePermissions_DoesNotMutateRole(t *testing.T) {
	r := Role{
		BasePermissions: []string{"VIEW_FACTURES", "MANAGE_CHARGES"},
		Overrides:       map[string]bool{"MANAGE_CHARGES": false, "MANAGE_STOCK": true},
	}

	_ = EffectivePermissions(r)
	_ = EffectivePermissions(r)

	assert.Equal(t, []string{"VIEW_FACTURES", "MANAGE_CHARGES"}, r.BasePermissions)
	assert.Equal(t, map[string]bool{"MANAGE_CHARGES": false, "MANAGE_STOCK": true}, r.Overrides)
}

func TestEffectivePermissions_EmptyRole(t *testing.T) {
	effective := EffectivePermissions(Role{})
	assert.Empty(t, effective)
}

func TestHasCategoryAccess_ThroughCatalogCategory(t *testing.T) {
	effective := EffectivePermissions(Role{BasePermissions: []string{"MANAGE_CHARGES"}})

	assert.True(t, HasCategoryAccess(effective, testCatalog(), permission.CategoryPaperasse))
	assert.False(t, HasCategoryAccess(effective, testCatalog(), permission.CategoryGestion))
}

func TestHasCategoryAccess_ThroughViewConvention(t *testing.T) {
	// VIEW_GESTION_CATEGORY grants the category by naming convention even
	// if the catalog knew nothing about it.
	effective := EffectivePermissions(Role{BasePermissions: []string{"VIEW_GESTION_CATEGORY"}})

	assert.True(t, HasCategoryAccess(effective, permission.Catalog{}, permission.CategoryGestion))
}

func TestHasCategoryAccess_ThroughManageConvention(t *testing.T) {
	effective := EffectivePermissions(Role{BasePermissions: []string{"MANAGE_PAPERASSE"}})

	assert.True(t, HasCategoryAccess(effective, permission.Catalog{}, permission.CategoryPaperasse))
}

func TestHasCategoryAccess_UnknownCodeWithoutConvention(t *testing.T) {
	effective := EffectivePermissions(Role{BasePermissions: []string{"SOMETHING_ELSE"}})

	assert.False(t, HasCategoryAccess(effective, testCatalog(), permission.CategoryPaperasse))
}

func TestHasCategoryAccess_RevokedCodeDoesNotGrant(t *testing.T) {
	effective := EffectivePermissions(Role{
		BasePermissions: []string{"MANAGE_CHARGES"},
		Overrides:       map[string]bool{"MANAGE_CHARGES": false},
	})

	assert.False(t, HasCategoryAccess(effective, testCatalog(), permission.CategoryPaperasse))
}

func TestSortedCodes_Deterministic(t *testing.T) {
	effective := map[string]struct{}{
		"MANAGE_STOCK":   {},
		"VIEW_FACTURES":  {},
		"MANAGE_CHARGES": {},
	}

	codes := SortedCodes(effective)

	assert.Equal(t, []string{"MANAGE_CHARGES", "MANAGE_STOCK", "VIEW_FACTURES"}, codes)
}
