package code

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 8

	// How many collisions with existing codes we tolerate before giving
	// up. At 8 characters over a 32-symbol alphabet a single retry is
	// already rare.
	maxGenerateAttempts = 5
)

type CodeServiceImpl struct {
	code.CodeRepository
	account.AccountRepository
	role.RoleRepository
	company.CompanyRepository

	defaultExpiry time.Duration
	retention     time.Duration
}

func NewCodeService(codeRepository code.CodeRepository, accountRepository account.AccountRepository, roleRepository role.RoleRepository, companyRepository company.CompanyRepository, defaultExpiry, retention time.Duration) code.CodeService {
	return &CodeServiceImpl{
		CodeRepository:    codeRepository,
		AccountRepository: accountRepository,
		RoleRepository:    roleRepository,
		CompanyRepository: companyRepository,
		defaultExpiry:     defaultExpiry,
		retention:         retention,
	}
}

// Generate implements code.CodeService.
func (s *CodeServiceImpl) Generate(ctx context.Context, companyID, issuerID string, req code.GenerateRequest) (code.Response, error) {
	if err := req.Validate(); err != nil {
		return code.Response{}, err
	}

	expiresAt := req.ExpiresAt
	if expiresAt == nil && s.defaultExpiry > 0 {
		t := time.Now().Add(s.defaultExpiry)
		expiresAt = &t
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		value, err := randomCode()
		if err != nil {
			return code.Response{}, fmt.Errorf("failed to generate code value: %w", err)
		}

		created, err := s.CodeRepository.Create(ctx, code.Code{
			Code:      value,
			CompanyID: companyID,
			IssuedBy:  issuerID,
			IsActive:  true,
			ExpiresAt: expiresAt,
			MaxUses:   req.MaxUses,
		})
		if err == code.ErrCodeExists {
			continue
		}
		if err != nil {
			return code.Response{}, err
		}
		return code.ToResponse(created), nil
	}

	return code.Response{}, fmt.Errorf("failed to generate a unique invitation code after %d attempts", maxGenerateAttempts)
}

// Redeem implements code.CodeService. The conditional update inside the
// repository is the only place the use counter moves, so the cap holds
// under concurrent redemptions; everything after it is grant bookkeeping.
func (s *CodeServiceImpl) Redeem(ctx context.Context, accountID string, req code.RedeemRequest, track code.Tracking) (code.RedeemResponse, error) {
	if err := req.Validate(); err != nil {
		return code.RedeemResponse{}, err
	}
	codeStr := strings.ToUpper(req.Code)

	acct, err := s.AccountRepository.GetByID(ctx, accountID)
	if err != nil {
		return code.RedeemResponse{}, err
	}
	if !acct.IsActive {
		return code.RedeemResponse{}, account.ErrAccountInactive
	}

	c, err := s.CodeRepository.GetByCode(ctx, codeStr)
	if err != nil {
		return code.RedeemResponse{}, err
	}
	if _, ok := acct.MembershipFor(c.CompanyID); ok {
		return code.RedeemResponse{}, account.ErrMembershipExists
	}

	usage := code.Usage{AccountID: accountID}
	if track.IPAddress != "" {
		usage.IPAddress = &track.IPAddress
	}
	if track.UserAgent != "" {
		usage.UserAgent = &track.UserAgent
	}

	redeemed, err := s.CodeRepository.Redeem(ctx, codeStr, usage)
	if err == code.ErrCodeNotFound {
		// The conditional update matched nothing; re-read to say why.
		current, readErr := s.CodeRepository.GetByCode(ctx, codeStr)
		if readErr != nil {
			return code.RedeemResponse{}, readErr
		}
		if failure := current.RedeemFailure(); failure != nil {
			return code.RedeemResponse{}, failure
		}
		return code.RedeemResponse{}, code.ErrCodeNotFound
	}
	if err != nil {
		return code.RedeemResponse{}, err
	}

	defaultRole, err := s.RoleRepository.GetDefaultByCompany(ctx, redeemed.CompanyID)
	if err != nil {
		return code.RedeemResponse{}, err
	}

	_, err = s.AccountRepository.AddMembership(ctx, accountID, account.Membership{
		CompanyID: redeemed.CompanyID,
		RoleID:    defaultRole.ID,
		IsActive:  true,
	})
	if err != nil {
		return code.RedeemResponse{}, err
	}

	if err := s.AccountRepository.SetCompanyValidated(ctx, accountID, true); err != nil {
		return code.RedeemResponse{}, err
	}

	comp, err := s.CompanyRepository.GetByID(ctx, redeemed.CompanyID)
	if err != nil {
		return code.RedeemResponse{}, err
	}

	return code.RedeemResponse{
		Company: company.ToResponse(comp),
		Role:    role.ToResponse(defaultRole),
	}, nil
}

// ListByCompany implements code.CodeService.
func (s *CodeServiceImpl) ListByCompany(ctx context.Context, companyID string) ([]code.Response, error) {
	codes, err := s.CodeRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	responses := make([]code.Response, 0, len(codes))
	for _, c := range codes {
		responses = append(responses, code.ToResponse(c))
	}
	return responses, nil
}

// ListUsages implements code.CodeService. The code must belong to the
// requesting company; a code from another company reads as not found.
func (s *CodeServiceImpl) ListUsages(ctx context.Context, companyID, codeStr string) ([]code.UsageResponse, error) {
	c, err := s.CodeRepository.GetByCode(ctx, strings.ToUpper(codeStr))
	if err != nil {
		return nil, err
	}
	if c.CompanyID != companyID {
		return nil, code.ErrCodeNotFound
	}

	usages, err := s.CodeRepository.ListUsages(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]code.UsageResponse, 0, len(usages))
	for _, u := range usages {
		responses = append(responses, code.ToUsageResponse(u))
	}
	return responses, nil
}

// Deactivate implements code.CodeService.
func (s *CodeServiceImpl) Deactivate(ctx context.Context, companyID, codeStr string) error {
	c, err := s.CodeRepository.GetByCode(ctx, strings.ToUpper(codeStr))
	if err != nil {
		return err
	}
	if c.CompanyID != companyID {
		return code.ErrCodeNotFound
	}
	return s.CodeRepository.Deactivate(ctx, c.Code)
}

// SweepExpired implements code.CodeService.
func (s *CodeServiceImpl) SweepExpired(ctx context.Context) error {
	now := time.Now()

	flipped, err := s.CodeRepository.DeactivateExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate expired codes: %w", err)
	}

	deleted := 0
	if s.retention > 0 {
		deleted, err = s.CodeRepository.DeleteStale(ctx, now.Add(-s.retention))
		if err != nil {
			return fmt.Errorf("failed to prune stale codes: %w", err)
		}
	}

	if flipped > 0 || deleted > 0 {
		slog.Info("Invitation code sweep completed", "deactivated", flipped, "deleted", deleted)
	}
	return nil
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
