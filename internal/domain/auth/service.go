package auth

import (
	"context"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
)

type AuthService interface {
	// Register bootstraps a company with its first account and a default
	// administrator role.
	Register(ctx context.Context, req RegisterRequest, track SessionTrackingRequest) (LoginResponse, error)
	Login(ctx context.Context, req LoginRequest, track SessionTrackingRequest) (LoginResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// MergeExternalIdentity reconciles a Discord callback against existing
	// accounts: match by external id, else by verified email, else create.
	MergeExternalIdentity(ctx context.Context, ident ExternalIdentity) (account.Account, MergeOutcome, error)
}
