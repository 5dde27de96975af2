package account

import "time"

// SystemRole is a global privilege tier, orthogonal to per-company roles.
// Technician is the global override tier: it bypasses every per-company
// permission check.
type SystemRole string

const (
	SystemRoleUser       SystemRole = "user"
	SystemRoleSuperAdmin SystemRole = "superadmin"
	SystemRoleTechnician SystemRole = "technician"
)

// Membership associates an account with a company and the role it holds
// there. The referenced role always belongs to the same company.
type Membership struct {
	ID        string
	CompanyID string
	RoleID    string
	IsActive  bool
	JoinedAt  time.Time
}

// Account is a single login identity scoped to one company. A person may
// hold several accounts, linked through a shared FamilyID. Memberships is
// the canonical list; the current company/role pair is a derived view
// maintained through SetCurrentCompany, never written independently.
type Account struct {
	ID               string
	Username         string
	PasswordHash     *string
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	BankNumber       *string
	DiscordID        *string
	DiscordUsername  *string
	AvatarURL        *string
	IsActive         bool
	SystemRole       SystemRole
	CompanyValidated bool
	FamilyID         *string
	CurrentCompanyID *string
	CurrentRoleID    *string
	Memberships      []Membership
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTechnician reports whether the account holds the global override tier.
func (a *Account) IsTechnician() bool {
	return a.SystemRole == SystemRoleTechnician
}

// MembershipFor returns the membership entry for a company, if any.
func (a *Account) MembershipFor(companyID string) (Membership, bool) {
	for _, m := range a.Memberships {
		if m.CompanyID == companyID {
			return m, true
		}
	}
	return Membership{}, false
}

// HasActiveMembership reports whether the account actively belongs to the
// company.
func (a *Account) HasActiveMembership(companyID string) bool {
	m, ok := a.MembershipFor(companyID)
	return ok && m.IsActive
}

// SetCurrentCompany points the derived current company/role view at one of
// the canonical membership entries. It is the only way the pair changes,
// so the two representations cannot drift.
func (a *Account) SetCurrentCompany(companyID string) bool {
	m, ok := a.MembershipFor(companyID)
	if !ok || !m.IsActive {
		return false
	}
	a.CurrentCompanyID = &m.CompanyID
	a.CurrentRoleID = &m.RoleID
	return true
}

// ClearCurrentCompany drops the derived view, used when a membership is
// removed.
func (a *Account) ClearCurrentCompany() {
	a.CurrentCompanyID = nil
	a.CurrentRoleID = nil
}

// DisplayName renders the legal name when set, falling back to the
// username for accounts that have not completed their profile.
func (a *Account) DisplayName() string {
	if a.FirstName != nil && a.LastName != nil {
		return *a.FirstName + " " + *a.LastName
	}
	return a.Username
}
