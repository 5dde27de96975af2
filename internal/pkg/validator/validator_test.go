package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("marc@garage-dupont.fr"))
	assert.True(t, IsValidEmail("first.last+tag@example.co"))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("missing@tld"))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("marc.dupont"))
	assert.True(t, IsValidUsername("abc"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has spaces"))
	assert.False(t, IsValidUsername("accenté"))
}

func TestIsValidInvitationCode(t *testing.T) {
	assert.True(t, IsValidInvitationCode("JOINME42"))
	assert.True(t, IsValidInvitationCode("joinme42"), "lowercase input is uppercased before matching")
	assert.False(t, IsValidInvitationCode("SHORT"))
	assert.False(t, IsValidInvitationCode("WAY-TOO-LONG-CODE"))
	assert.False(t, IsValidInvitationCode("HAS SPACE"))
}

func TestIsValidPhoneNumber(t *testing.T) {
	assert.True(t, IsValidPhoneNumber("+33 6 12 34 56 78"))
	assert.True(t, IsValidPhoneNumber("0612345678"))
	assert.False(t, IsValidPhoneNumber("12345"))
	assert.False(t, IsValidPhoneNumber("not-a-number"))
}

func TestIsValidSiret(t *testing.T) {
	assert.True(t, IsValidSiret("12345678901234"))
	assert.False(t, IsValidSiret("1234"))
	assert.False(t, IsValidSiret("1234567890123a"))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "username", Message: "username is required"},
		{Field: "password", Message: "password too short"},
	}

	assert.Equal(t, "username: username is required; password: password too short", errs.Error())
	assert.Equal(t, map[string]string{
		"username": "username is required",
		"password": "password too short",
	}, errs.ToMap())
}
