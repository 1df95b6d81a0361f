package helpers

import (
	"strings"
	"time"
)

// dateTimeLayout renders "5 Mar 2021, 2:07 PM"; the meridiem is rewritten below.
const dateTimeLayout = "2 Jan 2006, 3:04 PM"

// FormatDateTime renders t in loc as "5 Mar 2021, 2:07 p.m.".
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	s := t.In(loc).Format(dateTimeLayout)
	if strings.HasSuffix(s, "AM") {
		return strings.TrimSuffix(s, "AM") + "a.m."
	}
	return strings.TrimSuffix(s, "PM") + "p.m."
}
