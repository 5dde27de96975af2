package role

import "github.com/gestio-app/gestio-backend-go/internal/pkg/validator"

type CreateRequest struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Permissions   []string        `json:"permissions"`
	Overrides     map[string]bool `json:"overrides"`
	IsDefault     bool            `json:"is_default"`
	SalaryNormPct float64         `json:"salary_norm_pct"`
	SalaryCap     *float64        `json:"salary_cap"`
	ContractType  string          `json:"contract_type"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}
	if r.SalaryNormPct < 0 || r.SalaryNormPct > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_norm_pct",
			Message: "salary_norm_pct must be between 0 and 100",
		})
	}
	if r.ContractType != "" && !validator.IsInSlice(r.ContractType, []string{
		string(ContractCDI), string(ContractCDD), string(ContractInterim),
		string(ContractFreelance), string(ContractApprentice),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "contract_type",
			Message: "contract_type must be one of cdi, cdd, interim, freelance, apprentice",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	SalaryNormPct *float64 `json:"salary_norm_pct"`
	SalaryCap     *float64 `json:"salary_cap"`
	ContractType  *string  `json:"contract_type"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Name != nil && len(*r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}
	if r.SalaryNormPct != nil && (*r.SalaryNormPct < 0 || *r.SalaryNormPct > 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_norm_pct",
			Message: "salary_norm_pct must be between 0 and 100",
		})
	}
	if r.ContractType != nil && !validator.IsInSlice(*r.ContractType, []string{
		string(ContractCDI), string(ContractCDD), string(ContractInterim),
		string(ContractFreelance), string(ContractApprentice),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "contract_type",
			Message: "contract_type must be one of cdi, cdd, interim, freelance, apprentice",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdatePermissionsRequest struct {
	Permissions []string        `json:"permissions"`
	Overrides   map[string]bool `json:"overrides"`
}

func (r *UpdatePermissionsRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, code := range r.Permissions {
		if validator.IsEmpty(code) {
			errs = append(errs, validator.ValidationError{
				Field:   "permissions",
				Message: "permission codes must not be empty",
			})
			break
		}
	}
	for code := range r.Overrides {
		if validator.IsEmpty(code) {
			errs = append(errs, validator.ValidationError{
				Field:   "overrides",
				Message: "override codes must not be empty",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Response is the API projection of a role, including the resolved
// effective permission set.
type Response struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Permissions   []string        `json:"permissions"`
	Overrides     map[string]bool `json:"overrides,omitempty"`
	Effective     []string        `json:"effective_permissions"`
	IsDefault     bool            `json:"is_default"`
	SalaryNormPct float64         `json:"salary_norm_pct"`
	SalaryCap     *float64        `json:"salary_cap,omitempty"`
	ContractType  string          `json:"contract_type"`
}

// ToResponse builds the API projection from an entity.
func ToResponse(r Role) Response {
	return Response{
		ID:            r.ID,
		CompanyID:     r.CompanyID,
		Name:          r.Name,
		Description:   r.Description,
		Permissions:   r.BasePermissions,
		Overrides:     r.Overrides,
		Effective:     SortedCodes(EffectivePermissions(r)),
		IsDefault:     r.IsDefault,
		SalaryNormPct: r.SalaryNormPct,
		SalaryCap:     r.SalaryCap,
		ContractType:  string(r.ContractType),
	}
}
