package entity

import "time"

const (
	AgeCategoryChild = "Child"
	AgeCategoryAdult = "Adult"
)

// AgeAt returns the age in whole years on asOf. A birth date after asOf yields 0.
func AgeAt(dob, asOf time.Time) int {
	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// AgeCategory maps an age onto its coarse label.
func AgeCategory(age, adultAge int) string {
	if age < adultAge {
		return AgeCategoryChild
	}
	return AgeCategoryAdult
}
