package query

import (
	sq "github.com/Masterminds/squirrel"
)

// Predicates return nil when there is nothing to filter on, meaning the
// statement has no WHERE clause and matches every row. User values only
// ever reach the statement as bound arguments.

// Equal ANDs one "column = ?" per field, in filter order
func Equal(f Filter) sq.Sqlizer {
	if len(f) == 0 {
		return nil
	}

	conds := make(sq.And, 0, len(f))
	for _, fld := range f {
		conds = append(conds, sq.Eq{fld.Name: fld.Value})
	}
	return conds
}

// Contains matches firstnames containing value. The % markers are part
// of the bound argument, not of the SQL text.
func Contains(value string) sq.Sqlizer {
	if value == "" {
		return nil
	}
	return sq.Like{"firstname": "%" + value + "%"}
}

// HasPrefix matches firstnames starting with value
func HasPrefix(value string) sq.Sqlizer {
	if value == "" {
		return nil
	}
	return sq.Like{"firstname": value + "%"}
}

// After matches rows whose datelastgame is strictly later than value.
// Value is an ISO-8601 date; the store compares it as a date.
func After(value string) sq.Sqlizer {
	if value == "" {
		return nil
	}
	return sq.Gt{"datelastgame": value}
}
