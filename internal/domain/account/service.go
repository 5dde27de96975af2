package account

import "context"

// SessionTracking carries the caller address and agent recorded when a
// switch mints a fresh credential pair.
type SessionTracking struct {
	UserAgent string
	IPAddress string
}

// SwitchResponse bundles the new credential pair with the session
// projection of the account switched to.
type SwitchResponse struct {
	AccessToken           string     `json:"access_token"`
	AccessTokenExpiresIn  int64      `json:"access_token_expires_in"`
	RefreshToken          string     `json:"refresh_token"`
	RefreshTokenExpiresIn int64      `json:"refresh_token_expires_in"`
	Account               Projection `json:"account"`
}

type AccountService interface {
	GetProfile(ctx context.Context, accountID string) (Projection, error)
	UpdateProfile(ctx context.Context, accountID string, req UpdateProfileRequest) (Projection, error)

	// ListLinkedAccounts returns every account sharing the caller's family
	// identifier, the caller included and marked as current. A caller
	// without a family identifier sees only itself.
	ListLinkedAccounts(ctx context.Context, callerID string) ([]Summary, error)

	// SwitchAccount re-authenticates the caller as one of its linked
	// accounts and returns a credential pair for the target. Switching to
	// the current account is allowed and idempotent.
	SwitchAccount(ctx context.Context, callerID string, req SwitchRequest, track SessionTracking) (SwitchResponse, error)

	// CreateLinkedAccount provisions a sibling account under the caller's
	// family identifier, redeeming an invitation code for its company
	// membership. The caller receives a family identifier first if it has
	// none yet.
	CreateLinkedAccount(ctx context.Context, callerID string, req CreateLinkedRequest) (Summary, error)
}
