package access

import "context"

// AccessService is the access decision point consumed by route handlers.
type AccessService interface {
	// CheckAccess runs the rule chain: technician short-circuit, active
	// membership, role resolution, effective-set and category checks.
	// Business denials come back inside the Decision; an error means the
	// check itself could not run.
	CheckAccess(ctx context.Context, check Check) (Decision, error)

	// ResolveEffectivePermissions returns the sorted effective permission
	// codes for one role.
	ResolveEffectivePermissions(ctx context.Context, roleID string) ([]string, error)
}
