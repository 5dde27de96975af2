package memory

import (
	"context"
	"sync"

	"github.com/gestio-app/gestio-backend-go/internal/domain/auth"
)

// JWTRepository tracks issued and revoked refresh tokens by raw value.
type JWTRepository struct {
	mu      sync.Mutex
	Issued  []string
	revoked map[string]bool
}

func NewJWTRepository() *JWTRepository {
	return &JWTRepository{revoked: make(map[string]bool)}
}

func (r *JWTRepository) CreateRefreshToken(ctx context.Context, accountID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Issued = append(r.Issued, token)
	return nil
}

func (r *JWTRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}

func (r *JWTRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

// Transactor runs the function directly; the in-memory repositories are
// individually consistent already.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
