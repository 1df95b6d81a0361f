package entity

import "time"

// Permission codenames checked by the HTTP layer.
const (
	PermViewPerson            = "view_person"
	PermAddPerson             = "add_person"
	PermViewTemperatureRecord = "view_temperaturerecord"
	PermAddTemperatureRecord  = "add_temperaturerecord"
	PermViewAccount           = "view_account"
	PermChangeAccount         = "change_account"
)

// AllPermissions lists every known codename.
var AllPermissions = []string{
	PermViewPerson,
	PermAddPerson,
	PermViewTemperatureRecord,
	PermAddTemperatureRecord,
	PermViewAccount,
	PermChangeAccount,
}

// IsKnownPermission reports whether code is one of AllPermissions.
func IsKnownPermission(code string) bool {
	for _, p := range AllPermissions {
		if p == code {
			return true
		}
	}
	return false
}

// Role groups permissions so they can be granted to many accounts at once.
type Role struct {
	ID          string
	Name        string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
