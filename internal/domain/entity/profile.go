package entity

import (
	"strings"
	"time"
)

// Profile is the demographic extension of an Account, created together with it.
type Profile struct {
	AccountID string
	FullName  string
	DOB       *time.Time
	Gender    string
	UpdatedAt time.Time
}

// ProfileInput holds profile changes; empty fields are left untouched.
type ProfileInput struct {
	FullName string     `json:"full_name" validate:"omitempty,max=300,fullname"`
	DOB      *time.Time `json:"dob"`
	Gender   string     `json:"gender" validate:"omitempty,max=2,gender"`
}

func NewProfile(accountID string, now time.Time) *Profile {
	return &Profile{AccountID: accountID, UpdatedAt: now}
}

// Apply validates in and copies its non-empty fields onto the profile.
func (p *Profile) Apply(in ProfileInput, now time.Time) error {
	in.FullName = strings.TrimSpace(in.FullName)
	extra := map[string]string{}
	if in.DOB != nil && dateOnly(*in.DOB).After(dateOnly(now)) {
		extra["dob"] = "cannot be in the future"
	}
	if err := check(in, extra); err != nil {
		return err
	}
	if in.FullName != "" {
		p.FullName = in.FullName
	}
	if in.DOB != nil {
		d := dateOnly(*in.DOB)
		p.DOB = &d
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	p.UpdatedAt = now
	return nil
}
