package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	now := time.Now()
	a, err := NewAccount(AccountInput{
		Username:    "AlvinMukuna",
		Email:       "Alvin@Mukuna.com",
		PhoneNumber: "+254 701 234 567",
	}, "hash", now)

	require.NoError(t, err)
	assert.Equal(t, "AlvinMukuna", a.String())
	assert.Equal(t, "alvin@mukuna.com", a.Email)
	assert.Equal(t, "+254701234567", a.PhoneNumber)
	assert.True(t, a.IsActive)
	assert.False(t, a.IsStaff)
	assert.False(t, a.IsSuperuser)
}

func TestNewAccount_Validation(t *testing.T) {
	_, err := NewAccount(AccountInput{Username: "AlvinMukuna"}, "hash", time.Now())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["email"])
	assert.Equal(t, "is required", verr.Fields["phone_number"])
	assert.Contains(t, err.Error(), "email: is required")
}

func TestProfile_Apply(t *testing.T) {
	now := time.Date(2021, time.March, 5, 0, 0, 0, 0, time.UTC)
	p := NewProfile("acc-1", now)
	dob := date(1995, time.January, 2)

	require.NoError(t, p.Apply(ProfileInput{FullName: "Alvin Mukuna", DOB: &dob, Gender: "M"}, now))
	assert.Equal(t, "Alvin Mukuna", p.FullName)
	assert.Equal(t, dob, *p.DOB)

	// empty fields keep their values
	require.NoError(t, p.Apply(ProfileInput{Gender: "F"}, now))
	assert.Equal(t, "Alvin Mukuna", p.FullName)
	assert.Equal(t, "F", p.Gender)

	future := date(2022, time.January, 1)
	err := p.Apply(ProfileInput{DOB: &future}, now)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cannot be in the future", verr.Fields["dob"])
}

func TestAccount_Apply(t *testing.T) {
	now := time.Date(2021, time.March, 5, 0, 0, 0, 0, time.UTC)
	a, err := NewAccount(AccountInput{Username: "alvin", Email: "a@b.co", PhoneNumber: "+254701234567", FirstName: "Alvin"}, "hash", now)
	require.NoError(t, err)

	require.NoError(t, a.Apply(AccountUpdate{LastName: "Mukuna", PhoneNumber: "+254 712 345 678"}, now))
	assert.Equal(t, "Alvin", a.FirstName)
	assert.Equal(t, "Mukuna", a.LastName)
	assert.Equal(t, "+254712345678", a.PhoneNumber)

	err = a.Apply(AccountUpdate{PhoneNumber: "12"}, now)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Enter a valid phone number", verr.Fields["phone_number"])
	assert.Equal(t, "+254712345678", a.PhoneNumber)
}
