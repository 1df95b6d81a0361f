package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
)

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "36.6°C", FormatTemperature(36.6))
	assert.Equal(t, "37.0°C", FormatTemperature(37))
	assert.Equal(t, "36.5°C", FormatTemperature(36.54))
}

func TestFormatTemperatureRows(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	records := sampleRecords()[:2]
	rows := FormatTemperatureRows(records, nairobi)

	assert.Equal(t, Rows{
		"1": {"alvinm", "36.6°C", "5 Mar 2021, 2:07 p.m."},
		"2": {"jdoe", "37.1°C", "5 Mar 2021, 2:06 p.m."},
	}, rows)
}

func TestFormatPeopleRows(t *testing.T) {
	asOf := time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	people := []entity.Person{
		person("alvinm", "Alvin Mukuna", time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)),
		person("kid", "Little One", time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)),
		person("almost", "Almost Adult", time.Date(2003, 3, 6, 0, 0, 0, 0, time.UTC)),
	}

	rows := FormatPeopleRows(people, asOf, 18)

	assert.Equal(t, Rows{
		"1": {"alvinm", "Alvin Mukuna", "Adult", "add temp"},
		"2": {"kid", "Little One", "Child", "add temp"},
		"3": {"almost", "Almost Adult", "Child", "add temp"},
	}, rows)
}

func TestFormatRows_Empty(t *testing.T) {
	assert.Empty(t, FormatTemperatureRows(nil, time.UTC))
	assert.Empty(t, FormatPeopleRows(nil, time.Now(), 18))
}
