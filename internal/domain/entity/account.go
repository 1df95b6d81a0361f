package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/stands-ims/pkg/validation"
)

// Account is an authenticable identity. Passwords are stored as bcrypt hashes.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string // normalized E.164
	AvatarURL    string
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	IsVerified   bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

// AccountInput is the registration data for a new account.
type AccountInput struct {
	Username    string `json:"username" validate:"required,max=150,username"`
	Email       string `json:"email" validate:"required,max=254,email"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20,phone"`
}

func NewAccount(in AccountInput, passwordHash string, now time.Time) (*Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in, nil); err != nil {
		return nil, err
	}
	return &Account{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  validation.NormalizePhone(in.PhoneNumber),
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}, nil
}

func (a *Account) String() string { return a.Username }

// AccountUpdate holds editable account fields; empty fields are left untouched.
type AccountUpdate struct {
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20,phone"`
}

// Apply validates in and copies its non-empty fields onto the account.
func (a *Account) Apply(in AccountUpdate, now time.Time) error {
	if err := check(in, nil); err != nil {
		return err
	}
	if s := strings.TrimSpace(in.FirstName); s != "" {
		a.FirstName = s
	}
	if s := strings.TrimSpace(in.LastName); s != "" {
		a.LastName = s
	}
	if in.PhoneNumber != "" {
		a.PhoneNumber = validation.NormalizePhone(in.PhoneNumber)
	}
	a.UpdatedAt = now
	return nil
}
