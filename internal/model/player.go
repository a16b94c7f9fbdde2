package model

import (
	"fmt"
	"strconv"
	"time"
)

// PlayerID is the store-generated identifier of a player row
type PlayerID int64

// DateLayout is the ISO-8601 calendar date layout used for datelastgame
const DateLayout = "2006-01-02"

// Player is a row of the player table
type Player struct {
	ID           PlayerID
	Firstname    string
	IsOK         bool
	NbGame       int64
	DateLastGame string
}

// PlayerInput holds the mutable fields of a player, already validated
// and normalized. It never carries an id.
type PlayerInput struct {
	Firstname    string
	IsOK         bool
	NbGame       int64
	DateLastGame string
}

// Row is a single result row keyed by column name
type Row map[string]any

// PlayerFromRow converts a store row into a Player. The row must already
// hold NormalizeColumn output; a value of any other type is an
// ErrUnexpectedColumnType. NULL columns leave the zero value.
func PlayerFromRow(row Row) (Player, error) {
	var p Player

	for col, v := range row {
		if v == nil {
			continue
		}

		var ok bool
		switch col {
		case "id":
			var id int64
			id, ok = v.(int64)
			p.ID = PlayerID(id)
		case "firstname":
			p.Firstname, ok = v.(string)
		case "isok":
			p.IsOK, ok = v.(bool)
		case "nbgame":
			p.NbGame, ok = v.(int64)
		case "datelastgame":
			p.DateLastGame, ok = v.(string)
		default:
			ok = true
		}
		if !ok {
			return Player{}, fmt.Errorf("column %s: %w %T", col, ErrUnexpectedColumnType, v)
		}
	}

	return p, nil
}

// NormalizeColumn converts a driver value for the given column into its
// API type: int64 for id and nbgame, bool for isok, string for
// firstname and datelastgame. Unknown columns are passed through, with
// []byte turned into string.
func NormalizeColumn(col string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch col {
	case "id", "nbgame":
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		return n, nil
	case "isok":
		if b, ok := v.(bool); ok {
			return b, nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		return n != 0, nil
	case "datelastgame":
		switch d := v.(type) {
		case time.Time:
			return d.Format(DateLayout), nil
		case []byte:
			return dateString(string(d)), nil
		case string:
			return dateString(d), nil
		}
		return nil, fmt.Errorf("column %s: %w %T", col, ErrUnexpectedColumnType, v)
	default:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return v, nil
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("%w %T", ErrUnexpectedColumnType, v)
	}
}

// dateString trims a stored date or timestamp to its calendar date
func dateString(s string) string {
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format(DateLayout)
		}
		if _, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return s[:len(DateLayout)]
		}
	}
	return s
}
