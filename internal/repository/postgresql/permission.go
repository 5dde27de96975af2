package postgresql

import (
	"context"
	"fmt"

	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type permissionRepositoryImpl struct {
	db *database.DB
}

func NewPermissionRepository(db *database.DB) permission.PermissionRepository {
	return &permissionRepositoryImpl{db: db}
}

// List implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) List(ctx context.Context) ([]permission.Permission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, description, module, category, created_at, updated_at
		FROM permissions
		ORDER BY module, code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []permission.Permission
	for rows.Next() {
		var p permission.Permission
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Description, &p.Module, &p.Category,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// GetByCode implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) GetByCode(ctx context.Context, code string) (permission.Permission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, description, module, category, created_at, updated_at
		FROM permissions
		WHERE code = $1
	`

	var p permission.Permission
	err := q.QueryRow(ctx, query, code).Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Module, &p.Category,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return permission.Permission{}, permission.ErrPermissionNotFound
		}
		return permission.Permission{}, fmt.Errorf("failed to get permission by code: %w", err)
	}

	return p, nil
}

// SeedMissing implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) SeedMissing(ctx context.Context, defaults []permission.Permission) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO permissions (code, name, description, module, category)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`

	inserted := 0
	for _, p := range defaults {
		tag, err := q.Exec(ctx, query, p.Code, p.Name, p.Description, p.Module, p.Category)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed permission %s: %w", p.Code, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
