// Package memory holds in-memory repository implementations used by the
// service tests. They honor the same contracts as the PostgreSQL
// repositories, sentinel errors included.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/google/uuid"
)

type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]account.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]account.Account)}
}

// Seed inserts an account as-is, keeping the caller's id.
func (r *AccountRepository) Seed(a account.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	r.accounts[a.ID] = a
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	return a, nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (account.Account, error) {
	return r.findBy(func(a account.Account) bool { return a.Username == username })
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	return r.findBy(func(a account.Account) bool { return a.Email != nil && *a.Email == email })
}

func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID string) (account.Account, error) {
	return r.findBy(func(a account.Account) bool { return a.DiscordID != nil && *a.DiscordID == discordID })
}

func (r *AccountRepository) ListByFamilyID(ctx context.Context, familyID string) ([]account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []account.Account
	for _, a := range r.accounts {
		if a.FamilyID != nil && *a.FamilyID == familyID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *AccountRepository) Create(ctx context.Context, newAccount account.Account) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == newAccount.Username {
			return account.Account{}, account.ErrUsernameExists
		}
		if newAccount.Email != nil && a.Email != nil && *a.Email == *newAccount.Email {
			return account.Account{}, account.ErrEmailExists
		}
		if newAccount.DiscordID != nil && a.DiscordID != nil && *a.DiscordID == *newAccount.DiscordID {
			return account.Account{}, account.ErrDiscordIDExists
		}
	}
	newAccount.ID = uuid.New().String()
	newAccount.CreatedAt = time.Now()
	newAccount.UpdatedAt = newAccount.CreatedAt
	r.accounts[newAccount.ID] = newAccount
	return newAccount, nil
}

func (r *AccountRepository) Update(ctx context.Context, a account.Account) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	a.UpdatedAt = time.Now()
	r.accounts[a.ID] = a
	return a, nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	a.LastLoginAt = &at
	r.accounts[id] = a
	return nil
}

func (r *AccountRepository) LinkDiscord(ctx context.Context, id, discordID, discordUsername string, avatarURL *string) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	a.DiscordID = &discordID
	a.DiscordUsername = &discordUsername
	if avatarURL != nil {
		a.AvatarURL = avatarURL
	}
	if a.Username == "" {
		a.Username = discordUsername
	}
	r.accounts[id] = a
	return a, nil
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) AddMembership(ctx context.Context, accountID string, m account.Membership) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	for _, existing := range a.Memberships {
		if existing.CompanyID == m.CompanyID {
			return account.Account{}, account.ErrMembershipExists
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	a.Memberships = append(a.Memberships, m)
	if a.CurrentCompanyID == nil && m.IsActive {
		a.CurrentCompanyID = &m.CompanyID
		a.CurrentRoleID = &m.RoleID
	}
	r.accounts[accountID] = a
	return a, nil
}

func (r *AccountRepository) DeactivateMembership(ctx context.Context, accountID, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return account.ErrAccountNotFound
	}
	for i, m := range a.Memberships {
		if m.CompanyID == companyID {
			a.Memberships[i].IsActive = false
			if a.CurrentCompanyID != nil && *a.CurrentCompanyID == companyID {
				a.ClearCurrentCompany()
			}
			r.accounts[accountID] = a
			return nil
		}
	}
	return account.ErrNotCompanyMember
}

func (r *AccountRepository) SetCurrentCompany(ctx context.Context, accountID, companyID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return account.ErrAccountNotFound
	}
	if !a.SetCurrentCompany(companyID) {
		return account.ErrNotCompanyMember
	}
	r.accounts[accountID] = a
	return nil
}

func (r *AccountRepository) SetCompanyValidated(ctx context.Context, accountID string, validated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return account.ErrAccountNotFound
	}
	a.CompanyValidated = validated
	r.accounts[accountID] = a
	return nil
}

func (r *AccountRepository) findBy(match func(account.Account) bool) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if match(a) {
			return a, nil
		}
	}
	return account.Account{}, account.ErrAccountNotFound
}
