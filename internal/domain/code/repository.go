package code

import (
	"context"
	"time"
)

type CodeRepository interface {
	Create(ctx context.Context, c Code) (Code, error)
	GetByCode(ctx context.Context, codeStr string) (Code, error)
	ListByCompany(ctx context.Context, companyID string) ([]Code, error)
	ListUsages(ctx context.Context, codeID string) ([]Usage, error)

	// Redeem performs the atomic increment-and-cap: it only succeeds while
	// the code is active, unexpired and below its use cap, flips the code
	// inactive in the same statement when the cap is reached, and records
	// the usage entry in the same transaction. Returns ErrCodeNotFound
	// when the conditional update matches no row; the caller re-reads the
	// code to classify the refusal.
	Redeem(ctx context.Context, codeStr string, usage Usage) (Code, error)

	// Deactivate is manual and idempotent.
	Deactivate(ctx context.Context, codeStr string) error

	// DeactivateExpired flips every code whose expiry has passed; returns
	// the number affected.
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)

	// DeleteStale removes codes that expired or went inactive before the
	// retention cutoff. Storage hygiene, not a correctness requirement.
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}
