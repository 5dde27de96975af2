package postgresql

import (
	"context"
	"fmt"

	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, username, logo_url, address, siret, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var found company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID, &found.Name, &found.Username, &found.LogoURL,
		&found.Address, &found.Siret, &found.CreatedAt, &found.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by id: %w", err)
	}

	return found, nil
}

// GetByUsername implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByUsername(ctx context.Context, username string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, username, logo_url, address, siret, created_at, updated_at
		FROM companies
		WHERE username = $1
	`

	var found company.Company
	err := q.QueryRow(ctx, query, username).Scan(
		&found.ID, &found.Name, &found.Username, &found.LogoURL,
		&found.Address, &found.Siret, &found.CreatedAt, &found.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by username: %w", err)
	}

	return found, nil
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (name, username, logo_url, address, siret)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, username, logo_url, address, siret, created_at, updated_at
	`

	var created company.Company
	err := q.QueryRow(ctx, query,
		newCompany.Name, newCompany.Username, newCompany.LogoURL,
		newCompany.Address, newCompany.Siret,
	).Scan(
		&created.ID, &created.Name, &created.Username, &created.LogoURL,
		&created.Address, &created.Siret, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return company.Company{}, company.ErrCompanyUsernameExists
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}

	return created, nil
}

// Update implements company.CompanyRepository.
func (r *companyRepositoryImpl) Update(ctx context.Context, c company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE companies
		SET name = $1, logo_url = $2, address = $3, siret = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, name, username, logo_url, address, siret, created_at, updated_at
	`

	var updated company.Company
	err := q.QueryRow(ctx, query,
		c.Name, c.LogoURL, c.Address, c.Siret, c.ID,
	).Scan(
		&updated.ID, &updated.Name, &updated.Username, &updated.LogoURL,
		&updated.Address, &updated.Siret, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to update company: %w", err)
	}

	return updated, nil
}
