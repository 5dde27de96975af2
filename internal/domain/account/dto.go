package account

import (
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/pkg/validator"
)

// Summary is the short projection used when listing linked accounts.
type Summary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	CompanyID   *string `json:"company_id,omitempty"`
	RoleID      *string `json:"role_id,omitempty"`
	SystemRole  string  `json:"system_role"`
	IsActive    bool    `json:"is_active"`
	IsCurrent   bool    `json:"is_current"`
}

// MembershipResponse mirrors one canonical membership entry.
type MembershipResponse struct {
	CompanyID string    `json:"company_id"`
	RoleID    string    `json:"role_id"`
	IsActive  bool      `json:"is_active"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Projection is the full session-state view of an account. Every field a
// client needs to render the session is present; trimming one is a
// regression, not an optimization.
type Projection struct {
	ID               string               `json:"id"`
	Username         string               `json:"username"`
	FirstName        *string              `json:"first_name"`
	LastName         *string              `json:"last_name"`
	Email            *string              `json:"email"`
	Phone            *string              `json:"phone"`
	BankNumber       *string              `json:"bank_number"`
	DiscordID        *string              `json:"discord_id"`
	DiscordUsername  *string              `json:"discord_username"`
	AvatarURL        *string              `json:"avatar_url"`
	IsActive         bool                 `json:"is_active"`
	SystemRole       string               `json:"system_role"`
	CompanyValidated bool                 `json:"company_validated"`
	FamilyID         *string              `json:"family_id"`
	CompanyID        *string              `json:"company_id"`
	RoleID           *string              `json:"role_id"`
	Memberships      []MembershipResponse `json:"memberships"`
	LastLoginAt      *time.Time           `json:"last_login_at"`
	CreatedAt        time.Time            `json:"created_at"`
}

// ToSummary builds the short projection; current marks the session account.
func ToSummary(a Account, current bool) Summary {
	return Summary{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName(),
		CompanyID:   a.CurrentCompanyID,
		RoleID:      a.CurrentRoleID,
		SystemRole:  string(a.SystemRole),
		IsActive:    a.IsActive,
		IsCurrent:   current,
	}
}

// ToProjection builds the full session-state view.
func ToProjection(a Account) Projection {
	memberships := make([]MembershipResponse, 0, len(a.Memberships))
	for _, m := range a.Memberships {
		memberships = append(memberships, MembershipResponse{
			CompanyID: m.CompanyID,
			RoleID:    m.RoleID,
			IsActive:  m.IsActive,
			JoinedAt:  m.JoinedAt,
		})
	}
	return Projection{
		ID:               a.ID,
		Username:         a.Username,
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		Email:            a.Email,
		Phone:            a.Phone,
		BankNumber:       a.BankNumber,
		DiscordID:        a.DiscordID,
		DiscordUsername:  a.DiscordUsername,
		AvatarURL:        a.AvatarURL,
		IsActive:         a.IsActive,
		SystemRole:       string(a.SystemRole),
		CompanyValidated: a.CompanyValidated,
		FamilyID:         a.FamilyID,
		CompanyID:        a.CurrentCompanyID,
		RoleID:           a.CurrentRoleID,
		Memberships:      memberships,
		LastLoginAt:      a.LastLoginAt,
		CreatedAt:        a.CreatedAt,
	}
}

type SwitchRequest struct {
	TargetAccountID string `json:"target_account_id"`
}

func (r *SwitchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TargetAccountID) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_account_id",
			Message: "target_account_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateLinkedRequest struct {
	CompanyCode string  `json:"company_code"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
}

func (r *CreateLinkedRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_code",
			Message: "company_code is required",
		})
	}
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	} else if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username may only contain letters, numbers, dots, underscores, and hyphens (3-50 characters)",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	BankNumber *string `json:"bank_number"`
	AvatarURL  *string `json:"avatar_url"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not be empty",
		})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not be empty",
		})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
