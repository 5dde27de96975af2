package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type codeRepositoryImpl struct {
	db *database.DB
}

func NewCodeRepository(db *database.DB) code.CodeRepository {
	return &codeRepositoryImpl{db: db}
}

const codeColumns = `id, code, company_id, issued_by, is_active, expires_at, max_uses,
	   use_count, created_at, updated_at`

func scanCode(row pgx.Row) (code.Code, error) {
	var c code.Code
	err := row.Scan(
		&c.ID, &c.Code, &c.CompanyID, &c.IssuedBy, &c.IsActive,
		&c.ExpiresAt, &c.MaxUses, &c.UseCount, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create implements code.CodeRepository.
func (r *codeRepositoryImpl) Create(ctx context.Context, c code.Code) (code.Code, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invitation_codes (code, company_id, issued_by, is_active, expires_at, max_uses)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + codeColumns

	created, err := scanCode(q.QueryRow(ctx, query,
		c.Code, c.CompanyID, c.IssuedBy, c.IsActive, c.ExpiresAt, c.MaxUses,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return code.Code{}, code.ErrCodeExists
		}
		return code.Code{}, fmt.Errorf("failed to create invitation code: %w", err)
	}
	return created, nil
}

// GetByCode implements code.CodeRepository.
func (r *codeRepositoryImpl) GetByCode(ctx context.Context, codeStr string) (code.Code, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + codeColumns + ` FROM invitation_codes WHERE code = $1`

	found, err := scanCode(q.QueryRow(ctx, query, codeStr))
	if err != nil {
		if err == pgx.ErrNoRows {
			return code.Code{}, code.ErrCodeNotFound
		}
		return code.Code{}, fmt.Errorf("failed to get invitation code: %w", err)
	}
	return found, nil
}

// ListByCompany implements code.CodeRepository.
func (r *codeRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]code.Code, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + codeColumns + ` FROM invitation_codes WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitation codes: %w", err)
	}
	defer rows.Close()

	var codes []code.Code
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation code: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// ListUsages implements code.CodeRepository.
func (r *codeRepositoryImpl) ListUsages(ctx context.Context, codeID string) ([]code.Usage, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code_id, account_id, ip_address, user_agent, used_at
		FROM invitation_code_usages
		WHERE code_id = $1
		ORDER BY used_at DESC
	`

	rows, err := q.Query(ctx, query, codeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list code usages: %w", err)
	}
	defer rows.Close()

	var usages []code.Usage
	for rows.Next() {
		var u code.Usage
		if err := rows.Scan(&u.ID, &u.CodeID, &u.AccountID, &u.IPAddress, &u.UserAgent, &u.UsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan code usage: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// Redeem implements code.CodeRepository. The conditional UPDATE is the
// whole concurrency story: the counter increment, the cap comparison and
// the exhaustion flip happen in one statement, so two simultaneous
// redemptions of the last use cannot both pass.
func (r *codeRepositoryImpl) Redeem(ctx context.Context, codeStr string, usage code.Usage) (code.Code, error) {
	var redeemed code.Code

	if usage.UsedAt.IsZero() {
		usage.UsedAt = time.Now()
	}

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		query := `
			UPDATE invitation_codes
			SET use_count = use_count + 1,
				is_active = CASE
					WHEN max_uses IS NOT NULL AND use_count + 1 >= max_uses THEN false
					ELSE is_active
				END,
				updated_at = NOW()
			WHERE code = $1
			  AND is_active
			  AND (expires_at IS NULL OR expires_at > NOW())
			  AND (max_uses IS NULL OR use_count < max_uses)
			RETURNING ` + codeColumns

		c, err := scanCode(q.QueryRow(txCtx, query, codeStr))
		if err != nil {
			if err == pgx.ErrNoRows {
				return code.ErrCodeNotFound
			}
			return fmt.Errorf("failed to redeem invitation code: %w", err)
		}

		historyQuery := `
			INSERT INTO invitation_code_usages (code_id, account_id, ip_address, user_agent, used_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := q.Exec(txCtx, historyQuery,
			c.ID, usage.AccountID, usage.IPAddress, usage.UserAgent, usage.UsedAt,
		); err != nil {
			return fmt.Errorf("failed to record code usage: %w", err)
		}

		redeemed = c
		return nil
	})
	if err != nil {
		return code.Code{}, err
	}
	return redeemed, nil
}

// Deactivate implements code.CodeRepository. Idempotent by design of the
// UPDATE; an unknown code surfaces as NotFound.
func (r *codeRepositoryImpl) Deactivate(ctx context.Context, codeStr string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE invitation_codes SET is_active = false, updated_at = NOW() WHERE code = $1`,
		codeStr,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate invitation code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return code.ErrCodeNotFound
	}
	return nil
}

// DeactivateExpired implements code.CodeRepository.
func (r *codeRepositoryImpl) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE invitation_codes SET is_active = false, updated_at = NOW()
		 WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired codes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteStale implements code.CodeRepository.
func (r *codeRepositoryImpl) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`DELETE FROM invitation_codes WHERE NOT is_active AND updated_at <= $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale codes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
