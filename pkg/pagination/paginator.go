package pagination

import (
	"strconv"
	"strings"
)

// LastPage asks Paginate for the final page, whatever its number.
const LastPage = -1

// Page is one slice of a larger ordered collection.
type Page[T any] struct {
	Items         []T
	Number        int
	PerPage       int
	Count         int
	NumPages      int
	HasNext       bool
	HasPrevious   bool
	HasOtherPages bool
	// Start and End bound Items inside the full collection (0-based, End exclusive).
	Start int
	End   int
	// StartIndex and EndIndex are the 1-based positions shown to users; both are 0 when empty.
	StartIndex int
	EndIndex   int
}

// ParsePage reads a page query parameter. Empty or non-numeric input means page 1,
// "last" means LastPage. Out of range numbers are left for Paginate to clamp.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "last") {
		return LastPage
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 {
		return 1
	}
	return n
}

// Paginate returns page number of items, perPage items at a time. Numbers below 1
// become 1 and numbers past the end become the last page. It never fails.
func Paginate[T any](items []T, perPage, number int) Page[T] {
	if perPage < 1 {
		perPage = 1
	}
	count := len(items)
	numPages := (count + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	switch {
	case number == LastPage, number > numPages:
		number = numPages
	case number < 1:
		number = 1
	}

	start := (number - 1) * perPage
	end := min(start+perPage, count)

	p := Page[T]{
		Items:         items[start:end],
		Number:        number,
		PerPage:       perPage,
		Count:         count,
		NumPages:      numPages,
		HasNext:       number < numPages,
		HasPrevious:   number > 1,
		HasOtherPages: numPages > 1,
		Start:         start,
		End:           end,
	}
	if count > 0 {
		p.StartIndex = start + 1
		p.EndIndex = end
	}
	return p
}
