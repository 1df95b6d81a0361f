package entity

import (
	"sort"
	"strings"

	"github.com/oksasatya/stands-ims/pkg/validation"
)

var validate = validation.New()

// ValidationError carries field-level failures keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// check runs struct tag validation and merges any extra field errors.
// It returns nil when nothing failed.
func check(in any, extra map[string]string) error {
	fields := validation.ToDetails(validate.Struct(in))
	for k, v := range extra {
		if fields == nil {
			fields = map[string]string{}
		}
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
