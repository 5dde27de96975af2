package role

import "context"

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (Role, error)
	GetDefaultByCompany(ctx context.Context, companyID string) (Role, error)
	ListByCompany(ctx context.Context, companyID string) ([]Role, error)
	Create(ctx context.Context, newRole Role) (Role, error)
	Update(ctx context.Context, r Role) (Role, error)
	UpdatePermissions(ctx context.Context, id string, base []string, overrides map[string]bool) (Role, error)

	// CountAssignments returns how many memberships currently reference
	// the role. Deletion is refused while the count is non-zero.
	CountAssignments(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
