package role

import "time"

// ContractType is business data co-located on the role.
type ContractType string

const (
	ContractCDI        ContractType = "cdi"
	ContractCDD        ContractType = "cdd"
	ContractInterim    ContractType = "interim"
	ContractFreelance  ContractType = "freelance"
	ContractApprentice ContractType = "apprentice"
)

// Role is a company-scoped bundle of permissions. BasePermissions holds
// permission codes granted by default; Overrides layers explicit grants
// (true) and revocations (false) on top of the base set. A role never
// crosses company boundaries.
type Role struct {
	ID              string
	CompanyID       string
	Name            string
	Description     *string
	BasePermissions []string
	Overrides       map[string]bool
	IsDefault       bool
	SalaryNormPct   float64
	SalaryCap       *float64
	ContractType    ContractType
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
