package code

import "time"

// Code is a redeemable invitation token granting company membership.
// Codes are stored uppercase. The use counter and the exhaustion flip are
// written in a single atomic statement so concurrent redemptions can
// never overshoot MaxUses.
type Code struct {
	ID        string
	Code      string
	CompanyID string
	IssuedBy  string
	IsActive  bool
	ExpiresAt *time.Time
	MaxUses   *int
	UseCount  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Usage is one redemption history entry.
type Usage struct {
	ID        string
	CodeID    string
	AccountID string
	IPAddress *string
	UserAgent *string
	UsedAt    time.Time
}

// IsExpired checks the time-based terminal state (query-time check).
func (c *Code) IsExpired() bool {
	return c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt)
}

// IsExhausted reports whether the use counter has reached the cap.
func (c *Code) IsExhausted() bool {
	return c.MaxUses != nil && c.UseCount >= *c.MaxUses
}

// CanBeRedeemed reports whether a redemption attempt may proceed: active,
// not expired, not exhausted.
func (c *Code) CanBeRedeemed() bool {
	return c.IsActive && !c.IsExpired() && !c.IsExhausted()
}

// RedeemFailure classifies why redemption was refused so the client can
// route the user (new code prompt vs. generic denial).
func (c *Code) RedeemFailure() error {
	switch {
	case c.IsExpired():
		return ErrCodeExpired
	case c.IsExhausted():
		return ErrCodeExhausted
	case !c.IsActive:
		return ErrCodeDeactivated
	}
	return nil
}
