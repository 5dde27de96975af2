package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) account.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

const accountColumns = `id, username, password_hash, first_name, last_name, email, phone,
	   bank_number, discord_id, discord_username, avatar_url, is_active, system_role,
	   company_validated, family_id, current_company_id, current_role_id,
	   last_login_at, created_at, updated_at`

func scanAccount(row pgx.Row) (account.Account, error) {
	var a account.Account
	err := row.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.BankNumber, &a.DiscordID, &a.DiscordUsername, &a.AvatarURL, &a.IsActive, &a.SystemRole,
		&a.CompanyValidated, &a.FamilyID, &a.CurrentCompanyID, &a.CurrentRoleID,
		&a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// loadMemberships attaches the canonical membership list to an account.
// Membership resolution is an explicit two-step read, never an implicit
// join walked lazily.
func (r *accountRepositoryImpl) loadMemberships(ctx context.Context, a *account.Account) error {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, role_id, is_active, joined_at
		FROM account_companies
		WHERE account_id = $1
		ORDER BY joined_at
	`

	rows, err := q.Query(ctx, query, a.ID)
	if err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}
	defer rows.Close()

	a.Memberships = nil
	for rows.Next() {
		var m account.Membership
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.RoleID, &m.IsActive, &m.JoinedAt); err != nil {
			return fmt.Errorf("failed to scan membership: %w", err)
		}
		a.Memberships = append(a.Memberships, m)
	}
	return rows.Err()
}

func (r *accountRepositoryImpl) getBy(ctx context.Context, where string, arg interface{}, notFound error) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where

	found, err := scanAccount(q.QueryRow(ctx, query, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return account.Account{}, notFound
		}
		return account.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	if err := r.loadMemberships(ctx, &found); err != nil {
		return account.Account{}, err
	}
	return found, nil
}

// GetByID implements account.AccountRepository.
func (r *accountRepositoryImpl) GetByID(ctx context.Context, id string) (account.Account, error) {
	return r.getBy(ctx, "id = $1", id, account.ErrAccountNotFound)
}

// GetByUsername implements account.AccountRepository.
func (r *accountRepositoryImpl) GetByUsername(ctx context.Context, username string) (account.Account, error) {
	return r.getBy(ctx, "username = $1", username, account.ErrAccountNotFound)
}

// GetByEmail implements account.AccountRepository.
func (r *accountRepositoryImpl) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	return r.getBy(ctx, "email = $1", email, account.ErrAccountNotFound)
}

// GetByDiscordID implements account.AccountRepository.
func (r *accountRepositoryImpl) GetByDiscordID(ctx context.Context, discordID string) (account.Account, error) {
	return r.getBy(ctx, "discord_id = $1", discordID, account.ErrAccountNotFound)
}

// ListByFamilyID implements account.AccountRepository.
func (r *accountRepositoryImpl) ListByFamilyID(ctx context.Context, familyID string) ([]account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE family_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by family: %w", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range accounts {
		if err := r.loadMemberships(ctx, &accounts[i]); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// Create implements account.AccountRepository.
func (r *accountRepositoryImpl) Create(ctx context.Context, newAccount account.Account) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO accounts (
			username, password_hash, first_name, last_name, email, phone,
			bank_number, discord_id, discord_username, avatar_url, is_active,
			system_role, company_validated, family_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + accountColumns

	created, err := scanAccount(q.QueryRow(ctx, query,
		newAccount.Username, newAccount.PasswordHash, newAccount.FirstName, newAccount.LastName,
		newAccount.Email, newAccount.Phone, newAccount.BankNumber,
		newAccount.DiscordID, newAccount.DiscordUsername, newAccount.AvatarURL,
		newAccount.IsActive, newAccount.SystemRole, newAccount.CompanyValidated, newAccount.FamilyID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrUsernameExists
		}
		return account.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return created, nil
}

// Update implements account.AccountRepository.
func (r *accountRepositoryImpl) Update(ctx context.Context, a account.Account) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE accounts
		SET first_name = $1, last_name = $2, email = $3, phone = $4, bank_number = $5,
			discord_username = $6, avatar_url = $7, is_active = $8, system_role = $9,
			company_validated = $10, family_id = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING ` + accountColumns

	updated, err := scanAccount(q.QueryRow(ctx, query,
		a.FirstName, a.LastName, a.Email, a.Phone, a.BankNumber,
		a.DiscordUsername, a.AvatarURL, a.IsActive, a.SystemRole,
		a.CompanyValidated, a.FamilyID, a.ID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("failed to update account: %w", err)
	}
	if err := r.loadMemberships(ctx, &updated); err != nil {
		return account.Account{}, err
	}
	return updated, nil
}

// UpdateLastLogin implements account.AccountRepository.
func (r *accountRepositoryImpl) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE accounts SET last_login_at = $1, updated_at = NOW() WHERE id = $2`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// LinkDiscord implements account.AccountRepository. The username backfill
// happens in the same statement: NULLIF keeps a non-empty username as-is.
func (r *accountRepositoryImpl) LinkDiscord(ctx context.Context, id, discordID, discordUsername string, avatarURL *string) (account.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE accounts
		SET discord_id = $1,
			discord_username = $2,
			username = COALESCE(NULLIF(username, ''), $2),
			avatar_url = COALESCE($3, avatar_url),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + accountColumns

	updated, err := scanAccount(q.QueryRow(ctx, query, discordID, discordUsername, avatarURL, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return account.Account{}, account.ErrAccountNotFound
		}
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrDiscordIDExists
		}
		return account.Account{}, fmt.Errorf("failed to link discord identity: %w", err)
	}
	if err := r.loadMemberships(ctx, &updated); err != nil {
		return account.Account{}, err
	}
	return updated, nil
}

// ExistsByUsername implements account.AccountRepository.
func (r *accountRepositoryImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// AddMembership implements account.AccountRepository. When the account has
// no current company yet, the derived pointer is set in the same
// transaction so the two representations cannot diverge.
func (r *accountRepositoryImpl) AddMembership(ctx context.Context, accountID string, m account.Membership) (account.Account, error) {
	var result account.Account

	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		insertQuery := `
			INSERT INTO account_companies (account_id, company_id, role_id, is_active, joined_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := q.Exec(txCtx, insertQuery,
			accountID, m.CompanyID, m.RoleID, m.IsActive, m.JoinedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return account.ErrMembershipExists
			}
			return fmt.Errorf("failed to insert membership: %w", err)
		}

		updateQuery := `
			UPDATE accounts
			SET current_company_id = COALESCE(current_company_id, $1),
				current_role_id = CASE WHEN current_company_id IS NULL THEN $2 ELSE current_role_id END,
				updated_at = NOW()
			WHERE id = $3
		`
		if _, err := q.Exec(txCtx, updateQuery, m.CompanyID, m.RoleID, accountID); err != nil {
			return fmt.Errorf("failed to update current company: %w", err)
		}

		updated, err := r.getBy(txCtx, "id = $1", accountID, account.ErrAccountNotFound)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return account.Account{}, err
	}
	return result, nil
}

// DeactivateMembership implements account.AccountRepository. The derived
// current pointer is cleared when it referenced the removed company.
func (r *accountRepositoryImpl) DeactivateMembership(ctx context.Context, accountID, companyID string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		tag, err := q.Exec(txCtx,
			`UPDATE account_companies SET is_active = false WHERE account_id = $1 AND company_id = $2`,
			accountID, companyID,
		)
		if err != nil {
			return fmt.Errorf("failed to deactivate membership: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return account.ErrNotCompanyMember
		}

		_, err = q.Exec(txCtx, `
			UPDATE accounts
			SET current_company_id = NULL, current_role_id = NULL, updated_at = NOW()
			WHERE id = $1 AND current_company_id = $2
		`, accountID, companyID)
		if err != nil {
			return fmt.Errorf("failed to clear current company: %w", err)
		}
		return nil
	})
}

// SetCurrentCompany implements account.AccountRepository. The pair is
// written together and only when a matching active membership exists.
func (r *accountRepositoryImpl) SetCurrentCompany(ctx context.Context, accountID, companyID, roleID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE accounts
		SET current_company_id = $1, current_role_id = $2, updated_at = NOW()
		WHERE id = $3
		  AND EXISTS (
			SELECT 1 FROM account_companies
			WHERE account_id = $3 AND company_id = $1 AND role_id = $2 AND is_active
		  )
	`

	tag, err := q.Exec(ctx, query, companyID, roleID, accountID)
	if err != nil {
		return fmt.Errorf("failed to set current company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotCompanyMember
	}
	return nil
}

// SetCompanyValidated implements account.AccountRepository.
func (r *accountRepositoryImpl) SetCompanyValidated(ctx context.Context, accountID string, validated bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE accounts SET company_validated = $1, updated_at = NOW() WHERE id = $2`,
		validated, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to set company validated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}
