package postgresql

import (
	"context"
	"fmt"

	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type roleRepositoryImpl struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.RoleRepository {
	return &roleRepositoryImpl{db: db}
}

const roleColumns = `id, company_id, name, description, base_permissions, overrides,
	   is_default, salary_norm_pct, salary_cap, contract_type, created_at, updated_at`

func scanRole(row pgx.Row) (role.Role, error) {
	var r role.Role
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Name, &r.Description, &r.BasePermissions, &r.Overrides,
		&r.IsDefault, &r.SalaryNormPct, &r.SalaryCap, &r.ContractType,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// GetByID implements role.RoleRepository.
func (repo *roleRepositoryImpl) GetByID(ctx context.Context, id string) (role.Role, error) {
	q := GetQuerier(ctx, repo.db)

	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`

	found, err := scanRole(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role by id: %w", err)
	}
	return found, nil
}

// GetDefaultByCompany implements role.RoleRepository.
func (repo *roleRepositoryImpl) GetDefaultByCompany(ctx context.Context, companyID string) (role.Role, error) {
	q := GetQuerier(ctx, repo.db)

	query := `SELECT ` + roleColumns + ` FROM roles WHERE company_id = $1 AND is_default ORDER BY created_at LIMIT 1`

	found, err := scanRole(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return role.Role{}, role.ErrNoDefaultRole
		}
		return role.Role{}, fmt.Errorf("failed to get default role: %w", err)
	}
	return found, nil
}

// ListByCompany implements role.RoleRepository.
func (repo *roleRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]role.Role, error) {
	q := GetQuerier(ctx, repo.db)

	query := `SELECT ` + roleColumns + ` FROM roles WHERE company_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []role.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// Create implements role.RoleRepository.
func (repo *roleRepositoryImpl) Create(ctx context.Context, newRole role.Role) (role.Role, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		INSERT INTO roles (
			company_id, name, description, base_permissions, overrides,
			is_default, salary_norm_pct, salary_cap, contract_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + roleColumns

	created, err := scanRole(q.QueryRow(ctx, query,
		newRole.CompanyID, newRole.Name, newRole.Description,
		newRole.BasePermissions, newRole.Overrides,
		newRole.IsDefault, newRole.SalaryNormPct, newRole.SalaryCap, newRole.ContractType,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return role.Role{}, role.ErrRoleNameExists
		}
		return role.Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return created, nil
}

// Update implements role.RoleRepository.
func (repo *roleRepositoryImpl) Update(ctx context.Context, r role.Role) (role.Role, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		UPDATE roles
		SET name = $1, description = $2, is_default = $3, salary_norm_pct = $4,
			salary_cap = $5, contract_type = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + roleColumns

	updated, err := scanRole(q.QueryRow(ctx, query,
		r.Name, r.Description, r.IsDefault, r.SalaryNormPct,
		r.SalaryCap, r.ContractType, r.ID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to update role: %w", err)
	}
	return updated, nil
}

// UpdatePermissions implements role.RoleRepository.
func (repo *roleRepositoryImpl) UpdatePermissions(ctx context.Context, id string, base []string, overrides map[string]bool) (role.Role, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		UPDATE roles
		SET base_permissions = $1, overrides = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + roleColumns

	updated, err := scanRole(q.QueryRow(ctx, query, base, overrides, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to update role permissions: %w", err)
	}
	return updated, nil
}

// CountAssignments implements role.RoleRepository.
func (repo *roleRepositoryImpl) CountAssignments(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, repo.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM account_companies WHERE role_id = $1`,
		id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count role assignments: %w", err)
	}
	return count, nil
}

// Delete implements role.RoleRepository.
func (repo *roleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, repo.db)

	tag, err := q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}
	return nil
}
