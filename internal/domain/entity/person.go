package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person is a tracked individual, distinct from an Account. People are ordered by username.
type Person struct {
	ID           string
	Username     string
	FullName     string
	Gender       string
	DOB          time.Time
	CreatedBy    *string // account id; nil once the creator is gone
	CreatedAt    time.Time
	LastModified time.Time
}

// PersonInput is the data an account holder submits for a new person.
type PersonInput struct {
	Username string    `json:"username" validate:"required,max=50,username"`
	FullName string    `json:"full_name" validate:"required,max=300,fullname"`
	Gender   string    `json:"gender" validate:"required,gender"`
	DOB      time.Time `json:"dob" validate:"required"`
}

// NewPerson validates in and builds a Person created by createdBy at now.
// Birth dates after now are rejected.
func NewPerson(in PersonInput, createdBy string, now time.Time) (*Person, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)

	extra := map[string]string{}
	if !in.DOB.IsZero() && dateOnly(in.DOB).After(dateOnly(now)) {
		extra["dob"] = "cannot be in the future"
	}
	if err := check(in, extra); err != nil {
		return nil, err
	}

	p := &Person{
		ID:           uuid.NewString(),
		Username:     in.Username,
		FullName:     in.FullName,
		Gender:       in.Gender,
		DOB:          dateOnly(in.DOB),
		CreatedAt:    now,
		LastModified: now,
	}
	if createdBy != "" {
		p.CreatedBy = &createdBy
	}
	return p, nil
}

func (p *Person) String() string { return p.Username }

// AgeAt returns the person's age in whole years on asOf.
func (p *Person) AgeAt(asOf time.Time) int {
	return AgeAt(p.DOB, asOf)
}

// AgeCategoryAt returns the person's age category on asOf.
func (p *Person) AgeCategoryAt(asOf time.Time, adultAge int) string {
	return AgeCategory(p.AgeAt(asOf), adultAge)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
