package company

import "time"

type Company struct {
	ID        string
	Name      string
	Username  string
	LogoURL   *string
	Address   *string
	Siret     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
