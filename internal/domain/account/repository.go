package account

import (
	"context"
	"time"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByDiscordID(ctx context.Context, discordID string) (Account, error)

	// ListByFamilyID returns every account sharing the family identifier,
	// memberships included, ordered by creation time.
	ListByFamilyID(ctx context.Context, familyID string) ([]Account, error)

	Create(ctx context.Context, newAccount Account) (Account, error)
	Update(ctx context.Context, a Account) (Account, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// LinkDiscord attaches a Discord identity to an existing account and
	// optionally backfills an empty username.
	LinkDiscord(ctx context.Context, id, discordID, discordUsername string, avatarURL *string) (Account, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// AddMembership appends a (company, role) entry and keeps the derived
	// current-company pointer consistent when it is the account's first
	// active membership.
	AddMembership(ctx context.Context, accountID string, m Membership) (Account, error)
	DeactivateMembership(ctx context.Context, accountID, companyID string) error
	SetCurrentCompany(ctx context.Context, accountID, companyID, roleID string) error
	SetCompanyValidated(ctx context.Context, accountID string, validated bool) error
}
