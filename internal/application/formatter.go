package application

import (
	"strconv"
	"time"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/pkg/helpers"
)

// AddTempAction is the action label rendered on every people row.
const AddTempAction = "add temp"

var (
	PeopleColumns      = []string{"#", "Username", "Full name", "Age category", "Actions"}
	TemperatureColumns = []string{"#", "Username", "Temperature", "Time"}
)

// Rows maps a 1-based row number, as a string, to the row's display cells.
type Rows map[string][]string

// FormatTemperature renders a reading with one decimal and the Celsius unit, e.g. "36.6°C".
func FormatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "°C"
}

// FormatPeopleRows renders username, full name, age category on asOf and the action label.
func FormatPeopleRows(people []entity.Person, asOf time.Time, adultAge int) Rows {
	rows := make(Rows, len(people))
	for i := range people {
		p := &people[i]
		rows[strconv.Itoa(i+1)] = []string{
			p.Username,
			p.FullName,
			p.AgeCategoryAt(asOf, adultAge),
			AddTempAction,
		}
	}
	return rows
}

// FormatTemperatureRows renders username, temperature and the creation time localized to loc.
func FormatTemperatureRows(records []entity.TemperatureRecord, loc *time.Location) Rows {
	rows := make(Rows, len(records))
	for i := range records {
		r := &records[i]
		username := ""
		if r.Person != nil {
			username = r.Person.Username
		}
		rows[strconv.Itoa(i+1)] = []string{
			username,
			FormatTemperature(r.BodyTemperature),
			helpers.FormatDateTime(r.CreatedAt, loc),
		}
	}
	return rows
}
