package permission

import "context"

type PermissionRepository interface {
	// List returns the whole catalog ordered by module then code.
	List(ctx context.Context) ([]Permission, error)

	// GetByCode retrieves a single permission definition.
	GetByCode(ctx context.Context, code string) (Permission, error)

	// SeedMissing inserts any catalog entry whose code is not yet stored.
	// Existing rows are left untouched; returns the number inserted.
	SeedMissing(ctx context.Context, defaults []Permission) (int, error)
}
