package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/google/uuid"
)

type CompanyRepository struct {
	mu        sync.Mutex
	companies map[string]company.Company
}

func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{companies: make(map[string]company.Company)}
}

func (r *CompanyRepository) Seed(c company.Company) company.Company {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.companies[c.ID] = c
	return c
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r *CompanyRepository) GetByUsername(ctx context.Context, username string) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Username == username {
			return c, nil
		}
	}
	return company.Company{}, company.ErrCompanyNotFound
}

func (r *CompanyRepository) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Username == newCompany.Username {
			return company.Company{}, company.ErrCompanyUsernameExists
		}
	}
	newCompany.ID = uuid.New().String()
	newCompany.CreatedAt = time.Now()
	newCompany.UpdatedAt = newCompany.CreatedAt
	r.companies[newCompany.ID] = newCompany
	return newCompany, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[c.ID]; !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	c.UpdatedAt = time.Now()
	r.companies[c.ID] = c
	return c, nil
}
