package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/google/uuid"
)

type CodeRepository struct {
	mu     sync.Mutex
	codes  map[string]code.Code
	usages map[string][]code.Usage
}

func NewCodeRepository() *CodeRepository {
	return &CodeRepository{
		codes:  make(map[string]code.Code),
		usages: make(map[string][]code.Usage),
	}
}

func (r *CodeRepository) Seed(c code.Code) code.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Code = strings.ToUpper(c.Code)
	r.codes[c.Code] = c
	return c
}

func (r *CodeRepository) Create(ctx context.Context, c code.Code) (code.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToUpper(c.Code)
	if _, ok := r.codes[key]; ok {
		return code.Code{}, code.ErrCodeExists
	}
	c.ID = uuid.New().String()
	c.Code = key
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.codes[key] = c
	return c, nil
}

func (r *CodeRepository) GetByCode(ctx context.Context, codeStr string) (code.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[strings.ToUpper(codeStr)]
	if !ok {
		return code.Code{}, code.ErrCodeNotFound
	}
	return c, nil
}

func (r *CodeRepository) ListByCompany(ctx context.Context, companyID string) ([]code.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []code.Code
	for _, c := range r.codes {
		if c.CompanyID == companyID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *CodeRepository) ListUsages(ctx context.Context, codeID string) ([]code.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]code.Usage(nil), r.usages[codeID]...), nil
}

// Redeem mirrors the conditional-update semantics of the SQL
// implementation: the increment, the cap check and the exhaustion flip
// happen under one lock.
func (r *CodeRepository) Redeem(ctx context.Context, codeStr string, usage code.Usage) (code.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[strings.ToUpper(codeStr)]
	if !ok || !c.CanBeRedeemed() {
		return code.Code{}, code.ErrCodeNotFound
	}

	c.UseCount++
	if c.MaxUses != nil && c.UseCount >= *c.MaxUses {
		c.IsActive = false
	}
	c.UpdatedAt = time.Now()
	r.codes[c.Code] = c

	usage.ID = uuid.New().String()
	usage.CodeID = c.ID
	if usage.UsedAt.IsZero() {
		usage.UsedAt = time.Now()
	}
	r.usages[c.ID] = append(r.usages[c.ID], usage)

	return c, nil
}

func (r *CodeRepository) Deactivate(ctx context.Context, codeStr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[strings.ToUpper(codeStr)]
	if !ok {
		return code.ErrCodeNotFound
	}
	c.IsActive = false
	r.codes[c.Code] = c
	return nil
}

func (r *CodeRepository) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key, c := range r.codes {
		if c.IsActive && c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
			c.IsActive = false
			r.codes[key] = c
			count++
		}
	}
	return count, nil
}

func (r *CodeRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key, c := range r.codes {
		if !c.IsActive && c.UpdatedAt.Before(cutoff) {
			delete(r.codes, key)
			delete(r.usages, c.ID)
			count++
		}
	}
	return count, nil
}
