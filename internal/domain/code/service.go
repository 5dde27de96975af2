package code

import (
	"context"

	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
)

// RedeemResponse reports what a successful redemption granted.
type RedeemResponse struct {
	Company company.Response `json:"company"`
	Role    role.Response    `json:"role"`
}

type CodeService interface {
	Generate(ctx context.Context, companyID, issuerID string, req GenerateRequest) (Response, error)

	// Redeem consumes one use of the code and grants the account a
	// membership in the issuing company under its default role. The
	// increment and the exhaustion flip are atomic, so concurrent
	// redemptions never overshoot the cap.
	Redeem(ctx context.Context, accountID string, req RedeemRequest, track Tracking) (RedeemResponse, error)

	ListByCompany(ctx context.Context, companyID string) ([]Response, error)
	ListUsages(ctx context.Context, companyID, codeStr string) ([]UsageResponse, error)

	// Deactivate manually retires a code. Idempotent.
	Deactivate(ctx context.Context, companyID, codeStr string) error

	// SweepExpired flips codes past their expiry and prunes ones past the
	// retention window. Expiry is already enforced at query time; this is
	// storage hygiene.
	SweepExpired(ctx context.Context) error
}

// Tracking carries the caller address and agent recorded on each
// redemption.
type Tracking struct {
	UserAgent string
	IPAddress string
}
