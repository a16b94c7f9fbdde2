package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownColumn is returned when a filter names a column outside the registry
var ErrUnknownColumn = errors.New("unknown column")

// Field is one name=value entry taken from a query string
type Field struct {
	Name  string
	Value string
}

// Filter is an ordered list of fields. Order matches the order the
// parameters appeared in the request, and is the order of the bound
// values in the generated statement.
type Filter []Field

// ParseFilter reads a raw query string into a Filter, keeping parameter
// order. Repeated keys produce repeated fields.
func ParseFilter(rawQuery string) (Filter, error) {
	var f Filter

	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")

		name, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("invalid query parameter %q: %w", key, err)
		}
		val, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", name, err)
		}

		f = append(f, Field{Name: name, Value: val})
	}

	return f, nil
}

// Validate checks every field name against the column registry.
// Field names end up as SQL identifiers, so this must pass before Equal
// is used on request input.
func (f Filter) Validate() error {
	for _, fld := range f {
		if !IsColumn(fld.Name) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, fld.Name)
		}
	}
	return nil
}
