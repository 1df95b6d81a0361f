package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// TemperatureRecord is a single body temperature reading for a Person. Records are append-only.
type TemperatureRecord struct {
	ID              string
	PersonID        string
	Person          *Person
	BodyTemperature float64
	CreatedBy       *string
	CreatedAt       time.Time
}

// NewTemperatureRecord validates value against [minTemp, maxTemp] and builds a record for person.
// NaN is never in range.
func NewTemperatureRecord(person *Person, value, minTemp, maxTemp float64, createdBy string, now time.Time) (*TemperatureRecord, error) {
	if math.IsNaN(value) || !(value >= minTemp && value <= maxTemp) {
		return nil, &ValidationError{Fields: map[string]string{
			"body_temperature": fmt.Sprintf("must be between %.1f and %.1f", minTemp, maxTemp),
		}}
	}
	r := &TemperatureRecord{
		ID:              uuid.NewString(),
		PersonID:        person.ID,
		Person:          person,
		BodyTemperature: value,
		CreatedAt:       now,
	}
	if createdBy != "" {
		r.CreatedBy = &createdBy
	}
	return r, nil
}
