package application

import (
	"strings"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
)

// FilterRecords keeps the records whose person's full name or username contains q,
// ignoring case. A blank q returns records unchanged. Order is preserved.
func FilterRecords(records []entity.TemperatureRecord, q string) []entity.TemperatureRecord {
	needle, ok := needleOf(q)
	if !ok {
		return records
	}
	out := make([]entity.TemperatureRecord, 0, len(records))
	for _, r := range records {
		if r.Person != nil && personMatches(r.Person, needle) {
			out = append(out, r)
		}
	}
	return out
}

// FilterPeople applies the same matching as FilterRecords to people directly.
func FilterPeople(people []entity.Person, q string) []entity.Person {
	needle, ok := needleOf(q)
	if !ok {
		return people
	}
	out := make([]entity.Person, 0, len(people))
	for i := range people {
		if personMatches(&people[i], needle) {
			out = append(out, people[i])
		}
	}
	return out
}

func needleOf(q string) (string, bool) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", false
	}
	return strings.ToLower(q), true
}

func personMatches(p *entity.Person, needle string) bool {
	return strings.Contains(strings.ToLower(p.FullName), needle) ||
		strings.Contains(strings.ToLower(p.Username), needle)
}
