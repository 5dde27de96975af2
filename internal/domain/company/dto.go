package company

import "github.com/gestio-app/gestio-backend-go/internal/pkg/validator"

type UpdateRequest struct {
	Name    *string `json:"name"`
	LogoURL *string `json:"logo_url"`
	Address *string `json:"address"`
	Siret   *string `json:"siret"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Name != nil && len(*r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if r.Siret != nil && !validator.IsValidSiret(*r.Siret) {
		errs = append(errs, validator.ValidationError{
			Field:   "siret",
			Message: "siret must be a 14-digit number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Response struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	LogoURL  *string `json:"logo_url,omitempty"`
	Address  *string `json:"address,omitempty"`
	Siret    *string `json:"siret,omitempty"`
}

func ToResponse(c Company) Response {
	return Response{
		ID:       c.ID,
		Name:     c.Name,
		Username: c.Username,
		LogoURL:  c.LogoURL,
		Address:  c.Address,
		Siret:    c.Siret,
	}
}
