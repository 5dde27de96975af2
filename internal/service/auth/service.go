package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/auth"
	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/fixtures"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/jwt"
	"github.com/gestio-app/gestio-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx postgresql.Transactor
	account.AccountRepository
	company.CompanyRepository
	role.RoleRepository
	jwt.Service
	postgresql.JWTRepository
}

func NewAuthService(tx postgresql.Transactor, accountRepository account.AccountRepository, companyRepository company.CompanyRepository, roleRepository role.RoleRepository, jwtService jwt.Service, jwtRepository postgresql.JWTRepository) auth.AuthService {
	return &AuthServiceImpl{
		tx:                tx,
		AccountRepository: accountRepository,
		CompanyRepository: companyRepository,
		RoleRepository:    roleRepository,
		Service:           jwtService,
		JWTRepository:     jwtRepository,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService. A registration bootstraps the
// whole company: the company row, an administrator role, a default role
// for later invitations, and the founding account already a member. It
// all lands or none of it does.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, track auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	if _, err := a.CompanyRepository.GetByUsername(ctx, req.CompanyUsername); err == nil {
		return auth.LoginResponse{}, company.ErrCompanyUsernameExists
	} else if err != company.ErrCompanyNotFound {
		return auth.LoginResponse{}, fmt.Errorf("failed to check company username: %w", err)
	}

	taken, err := a.AccountRepository.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to check username availability: %w", err)
	}
	if taken {
		return auth.LoginResponse{}, account.ErrUsernameExists
	}

	passwordHash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var founder account.Account
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		comp, err := a.CompanyRepository.Create(txCtx, company.Company{
			Name:     req.CompanyName,
			Username: req.CompanyUsername,
		})
		if err != nil {
			return err
		}

		adminRole, err := a.RoleRepository.Create(txCtx, role.Role{
			CompanyID:       comp.ID,
			Name:            "Administrateur",
			BasePermissions: fixtures.DefaultAdminRolePermissions(),
			ContractType:    role.ContractCDI,
		})
		if err != nil {
			return fmt.Errorf("failed to create administrator role: %w", err)
		}

		_, err = a.RoleRepository.Create(txCtx, role.Role{
			CompanyID:       comp.ID,
			Name:            "Employé",
			BasePermissions: fixtures.DefaultEmployeeRolePermissions(),
			IsDefault:       true,
			ContractType:    role.ContractCDI,
		})
		if err != nil {
			return fmt.Errorf("failed to create default role: %w", err)
		}

		email := req.Email
		created, err := a.AccountRepository.Create(txCtx, account.Account{
			Username:         req.Username,
			PasswordHash:     &passwordHash,
			FirstName:        &req.FirstName,
			LastName:         &req.LastName,
			Email:            &email,
			IsActive:         true,
			SystemRole:       account.SystemRoleUser,
			CompanyValidated: true,
		})
		if err != nil {
			return err
		}

		founder, err = a.AccountRepository.AddMembership(txCtx, created.ID, account.Membership{
			CompanyID: comp.ID,
			RoleID:    adminRole.ID,
			IsActive:  true,
		})
		if err != nil {
			return fmt.Errorf("failed to create founding membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return a.issueSession(ctx, founder, track)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, track auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	acct, err := a.AccountRepository.GetByUsername(ctx, req.Username)
	if err == account.ErrAccountNotFound {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to get account by username: %w", err)
	}

	// OAuth-only accounts have no password; same answer as a wrong one.
	if acct.PasswordHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acct.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if !acct.IsActive {
		return auth.LoginResponse{}, auth.ErrAccountInactive
	}

	return a.issueSession(ctx, acct, track)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	revoked, err := a.JWTRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := a.Service.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	accountID, _ := claims["account_id"].(string)
	if accountID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	acct, err := a.AccountRepository.GetByID(ctx, accountID)
	if err == account.ErrAccountNotFound {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get account for refresh: %w", err)
	}
	if !acct.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	accessToken, expiresIn, err := a.Service.GenerateAccessToken(acct)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresIn,
	}, nil
}

// Logout implements auth.AuthService. Revoking an already revoked or
// unknown token is a no-op.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	a.Service.RevokeToken(refreshToken)
	if err := a.JWTRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// MergeExternalIdentity implements auth.AuthService. Resolution order:
// an account already carrying the Discord id wins; otherwise an account
// matched by email gets the identity linked; otherwise a fresh account
// is created, unvalidated and without a password.
func (a *AuthServiceImpl) MergeExternalIdentity(ctx context.Context, ident auth.ExternalIdentity) (account.Account, auth.MergeOutcome, error) {
	existing, err := a.AccountRepository.GetByDiscordID(ctx, ident.ExternalID)
	if err == nil {
		if !existing.IsActive {
			return account.Account{}, "", auth.ErrAccountInactive
		}
		// The provider is authoritative for display name and avatar.
		refreshed, err := a.AccountRepository.LinkDiscord(ctx, existing.ID, ident.ExternalID, ident.ExternalUsername, ident.AvatarURL)
		if err != nil {
			return account.Account{}, "", fmt.Errorf("failed to refresh discord identity: %w", err)
		}
		now := time.Now()
		if err := a.AccountRepository.UpdateLastLogin(ctx, refreshed.ID, now); err != nil {
			return account.Account{}, "", fmt.Errorf("failed to stamp last login: %w", err)
		}
		refreshed.LastLoginAt = &now
		return refreshed, auth.MergeExisting, nil
	}
	if err != account.ErrAccountNotFound {
		return account.Account{}, "", fmt.Errorf("failed to look up discord identity: %w", err)
	}

	if ident.Email != nil && *ident.Email != "" {
		matched, err := a.AccountRepository.GetByEmail(ctx, *ident.Email)
		if err == nil {
			if !matched.IsActive {
				return account.Account{}, "", auth.ErrAccountInactive
			}
			linked, err := a.AccountRepository.LinkDiscord(ctx, matched.ID, ident.ExternalID, ident.ExternalUsername, ident.AvatarURL)
			if err != nil {
				return account.Account{}, "", fmt.Errorf("failed to link discord identity: %w", err)
			}
			return linked, auth.MergeLinked, nil
		}
		if err != account.ErrAccountNotFound {
			return account.Account{}, "", fmt.Errorf("failed to look up account by email: %w", err)
		}
	}

	username, err := a.availableUsername(ctx, ident.ExternalUsername)
	if err != nil {
		return account.Account{}, "", err
	}

	// Without a provider email we synthesize a contact identifier so the
	// account still has a stable one; it is never mailed.
	email := ident.Email
	if email == nil || *email == "" {
		synthesized := fmt.Sprintf("discord-%s@unverified.gestio.app", ident.ExternalID)
		email = &synthesized
	}

	created, err := a.AccountRepository.Create(ctx, account.Account{
		Username:         username,
		Email:            email,
		DiscordID:        &ident.ExternalID,
		DiscordUsername:  &ident.ExternalUsername,
		AvatarURL:        ident.AvatarURL,
		IsActive:         true,
		SystemRole:       account.SystemRoleUser,
		CompanyValidated: false,
	})
	if err != nil {
		return account.Account{}, "", err
	}
	return created, auth.MergeCreated, nil
}

// issueSession mints the credential pair, persists the refresh token and
// stamps the login time.
func (a *AuthServiceImpl) issueSession(ctx context.Context, acct account.Account, track auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	var tokens auth.TokenResponse
	var err error

	tokens.AccessToken, tokens.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(acct)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokens.RefreshToken, tokens.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(acct.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.JWTRepository.CreateRefreshToken(ctx, acct.ID, tokens.RefreshToken, tokens.RefreshTokenExpiresIn, track); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	now := time.Now()
	if err := a.AccountRepository.UpdateLastLogin(ctx, acct.ID, now); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to stamp last login: %w", err)
	}
	acct.LastLoginAt = &now

	return auth.LoginResponse{
		Tokens:  tokens,
		Account: account.ToProjection(acct),
	}, nil
}

// availableUsername normalizes a provider username and suffixes it when
// taken.
func (a *AuthServiceImpl) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := strings.ToLower(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return -1
	}, base))
	if len(candidate) < 3 {
		candidate = "discord-" + uuid.New().String()[:8]
	}
	if len(candidate) > 50 {
		candidate = candidate[:50]
	}

	taken, err := a.AccountRepository.ExistsByUsername(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("failed to check username availability: %w", err)
	}
	if !taken {
		return candidate, nil
	}

	if len(candidate) > 41 {
		candidate = candidate[:41]
	}
	return candidate + "-" + uuid.New().String()[:8], nil
}
