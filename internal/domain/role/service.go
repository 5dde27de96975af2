package role

import "context"

type RoleService interface {
	ListByCompany(ctx context.Context, companyID string) ([]Response, error)
	Get(ctx context.Context, companyID, roleID string) (Response, error)
	Create(ctx context.Context, companyID string, req CreateRequest) (Response, error)
	Update(ctx context.Context, companyID, roleID string, req UpdateRequest) (Response, error)
	UpdatePermissions(ctx context.Context, companyID, roleID string, req UpdatePermissionsRequest) (Response, error)

	// Delete refuses while any membership still references the role, and
	// never removes the company's default role.
	Delete(ctx context.Context, companyID, roleID string) error
}
