package account

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrUsernameExists      = errors.New("username already taken")
	ErrEmailExists         = errors.New("email already registered")
	ErrDiscordIDExists     = errors.New("discord id already linked to another account")
	ErrNotLinkedAccount    = errors.New("account does not belong to the caller's family")
	ErrMembershipExists    = errors.New("account already belongs to this company")
	ErrNotCompanyMember    = errors.New("account is not a member of this company")
	ErrNoRoleAssigned      = errors.New("account has no role in this company")
	ErrCompanyNotValidated = errors.New("account has not redeemed a company code")
	ErrProfileIncomplete   = errors.New("account profile is incomplete")
	ErrPasswordNotSet      = errors.New("account has no password set")
	ErrFamilyIDConflict    = errors.New("linked accounts disagree on family identifier")
	ErrCurrentCompanyUnset = errors.New("account has no current company")
)
