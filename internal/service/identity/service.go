package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/auth"
	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/jwt"
	"github.com/gestio-app/gestio-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountServiceImpl struct {
	account.AccountRepository
	code.CodeRepository
	code.CodeService
	jwt.Service
	postgresql.JWTRepository
}

func NewAccountService(accountRepository account.AccountRepository, codeRepository code.CodeRepository, codeService code.CodeService, jwtService jwt.Service, jwtRepository postgresql.JWTRepository) account.AccountService {
	return &AccountServiceImpl{
		AccountRepository: accountRepository,
		CodeRepository:    codeRepository,
		CodeService:       codeService,
		Service:           jwtService,
		JWTRepository:     jwtRepository,
	}
}

// GetProfile implements account.AccountService.
func (s *AccountServiceImpl) GetProfile(ctx context.Context, accountID string) (account.Projection, error) {
	acct, err := s.AccountRepository.GetByID(ctx, accountID)
	if err != nil {
		return account.Projection{}, err
	}
	return account.ToProjection(acct), nil
}

// UpdateProfile implements account.AccountService.
func (s *AccountServiceImpl) UpdateProfile(ctx context.Context, accountID string, req account.UpdateProfileRequest) (account.Projection, error) {
	if err := req.Validate(); err != nil {
		return account.Projection{}, err
	}

	acct, err := s.AccountRepository.GetByID(ctx, accountID)
	if err != nil {
		return account.Projection{}, err
	}

	if req.FirstName != nil {
		acct.FirstName = req.FirstName
	}
	if req.LastName != nil {
		acct.LastName = req.LastName
	}
	if req.Phone != nil {
		acct.Phone = req.Phone
	}
	if req.BankNumber != nil {
		acct.BankNumber = req.BankNumber
	}
	if req.AvatarURL != nil {
		acct.AvatarURL = req.AvatarURL
	}

	updated, err := s.AccountRepository.Update(ctx, acct)
	if err != nil {
		return account.Projection{}, fmt.Errorf("failed to update account profile: %w", err)
	}
	return account.ToProjection(updated), nil
}

// ListLinkedAccounts implements account.AccountService. The caller is
// always part of the result and flagged as current; without a family
// identifier there is nothing else to list.
func (s *AccountServiceImpl) ListLinkedAccounts(ctx context.Context, callerID string) ([]account.Summary, error) {
	caller, err := s.AccountRepository.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if caller.FamilyID == nil {
		return []account.Summary{account.ToSummary(caller, true)}, nil
	}

	linked, err := s.AccountRepository.ListByFamilyID(ctx, *caller.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}

	summaries := make([]account.Summary, 0, len(linked))
	for _, a := range linked {
		summaries = append(summaries, account.ToSummary(a, a.ID == caller.ID))
	}
	return summaries, nil
}

// SwitchAccount implements account.AccountService. The target must share
// the caller's family identifier; switching to the caller itself is a
// no-op re-issue of credentials.
func (s *AccountServiceImpl) SwitchAccount(ctx context.Context, callerID string, req account.SwitchRequest, track account.SessionTracking) (account.SwitchResponse, error) {
	if err := req.Validate(); err != nil {
		return account.SwitchResponse{}, err
	}

	caller, err := s.AccountRepository.GetByID(ctx, callerID)
	if err != nil {
		return account.SwitchResponse{}, err
	}

	var target account.Account
	switch {
	case req.TargetAccountID == caller.ID:
		target = caller
	case caller.FamilyID == nil:
		return account.SwitchResponse{}, account.ErrNotLinkedAccount
	default:
		candidate, err := s.AccountRepository.GetByID(ctx, req.TargetAccountID)
		if err == account.ErrAccountNotFound {
			return account.SwitchResponse{}, account.ErrAccountNotFound
		}
		if err != nil {
			return account.SwitchResponse{}, err
		}
		if candidate.FamilyID == nil || *candidate.FamilyID != *caller.FamilyID {
			return account.SwitchResponse{}, account.ErrNotLinkedAccount
		}
		target = candidate
	}

	if !target.IsActive {
		return account.SwitchResponse{}, account.ErrAccountInactive
	}

	// A switch is a login for the target account.
	now := time.Now()
	if err := s.AccountRepository.UpdateLastLogin(ctx, target.ID, now); err != nil {
		return account.SwitchResponse{}, fmt.Errorf("failed to stamp last login: %w", err)
	}
	target.LastLoginAt = &now

	resp := account.SwitchResponse{Account: account.ToProjection(target)}

	resp.AccessToken, resp.AccessTokenExpiresIn, err = s.Service.GenerateAccessToken(target)
	if err != nil {
		return account.SwitchResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = s.Service.GenerateRefreshToken(target.ID)
	if err != nil {
		return account.SwitchResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = s.JWTRepository.CreateRefreshToken(ctx, target.ID, resp.RefreshToken, resp.RefreshTokenExpiresIn, auth.SessionTrackingRequest{
		UserAgent: track.UserAgent,
		IPAddress: track.IPAddress,
	})
	if err != nil {
		return account.SwitchResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	return resp, nil
}

// CreateLinkedAccount implements account.AccountService. The new account
// joins the caller's family; a caller without a family identifier gets
// one minted here, so the first link decides the identifier for every
// later one.
func (s *AccountServiceImpl) CreateLinkedAccount(ctx context.Context, callerID string, req account.CreateLinkedRequest) (account.Summary, error) {
	if err := req.Validate(); err != nil {
		return account.Summary{}, err
	}

	caller, err := s.AccountRepository.GetByID(ctx, callerID)
	if err != nil {
		return account.Summary{}, err
	}

	taken, err := s.AccountRepository.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return account.Summary{}, fmt.Errorf("failed to check username availability: %w", err)
	}
	if taken {
		return account.Summary{}, account.ErrUsernameExists
	}

	// One person holds at most one active account per company; the check
	// spans the whole family, not just the account being created.
	c, err := s.CodeRepository.GetByCode(ctx, strings.ToUpper(req.CompanyCode))
	if err != nil {
		return account.Summary{}, err
	}
	family := []account.Account{caller}
	if caller.FamilyID != nil {
		family, err = s.AccountRepository.ListByFamilyID(ctx, *caller.FamilyID)
		if err != nil {
			return account.Summary{}, fmt.Errorf("failed to list linked accounts: %w", err)
		}
	}
	for _, sibling := range family {
		if m, ok := sibling.MembershipFor(c.CompanyID); ok && m.IsActive {
			return account.Summary{}, account.ErrMembershipExists
		}
	}

	familyID := caller.FamilyID
	if familyID == nil {
		minted := uuid.New().String()
		familyID = &minted
		caller.FamilyID = familyID
		if _, err := s.AccountRepository.Update(ctx, caller); err != nil {
			return account.Summary{}, fmt.Errorf("failed to assign family identifier: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return account.Summary{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	created, err := s.AccountRepository.Create(ctx, account.Account{
		Username:     req.Username,
		PasswordHash: &passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		IsActive:     true,
		SystemRole:   account.SystemRoleUser,
		FamilyID:     familyID,
	})
	if err != nil {
		return account.Summary{}, err
	}

	_, err = s.CodeService.Redeem(ctx, created.ID, code.RedeemRequest{Code: req.CompanyCode}, code.Tracking{})
	if err != nil {
		return account.Summary{}, err
	}

	// Re-read so the summary reflects the membership the redemption added.
	created, err = s.AccountRepository.GetByID(ctx, created.ID)
	if err != nil {
		return account.Summary{}, err
	}
	return account.ToSummary(created, false), nil
}
