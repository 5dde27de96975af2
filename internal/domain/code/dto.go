package code

import (
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	MaxUses   *int       `json:"max_uses"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MaxUses != nil && *r.MaxUses < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_uses",
			Message: "max_uses must be at least 1",
		})
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(time.Now()) {
		errs = append(errs, validator.ValidationError{
			Field:   "expires_at",
			Message: "expires_at must be in the future",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RedeemRequest struct {
	Code string `json:"code"`
}

func (r *RedeemRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidInvitationCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 6-12 uppercase letters or digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Response struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	CompanyID string     `json:"company_id"`
	IssuedBy  string     `json:"issued_by"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
	UseCount  int        `json:"use_count"`
	CreatedAt time.Time  `json:"created_at"`
}

type UsageResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	UsedAt    time.Time `json:"used_at"`
}

func ToUsageResponse(u Usage) UsageResponse {
	return UsageResponse{
		ID:        u.ID,
		AccountID: u.AccountID,
		IPAddress: u.IPAddress,
		UserAgent: u.UserAgent,
		UsedAt:    u.UsedAt,
	}
}

func ToResponse(c Code) Response {
	return Response{
		ID:        c.ID,
		Code:      c.Code,
		CompanyID: c.CompanyID,
		IssuedBy:  c.IssuedBy,
		IsActive:  c.IsActive,
		ExpiresAt: c.ExpiresAt,
		MaxUses:   c.MaxUses,
		UseCount:  c.UseCount,
		CreatedAt: c.CreatedAt,
	}
}
