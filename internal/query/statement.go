package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mcoot/playerdb/internal/model"
)

// Kind tells the executor what a statement does
type Kind int

const (
	KindSelect Kind = iota
	KindInsert
	KindUpdate
	KindDelete
)

// String returns the kind name, used as a metrics label
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Statement is a SQL template with '?' placeholders and its bound
// arguments in placeholder order
type Statement struct {
	Kind Kind
	SQL  string
	Args []any
}

// mutableColumns are written by create and update, in this order
var mutableColumns = []string{"firstname", "isok", "nbgame", "datelastgame"}

// All selects every row in natural store order
func All() (Statement, error) {
	return Select(nil)
}

// Select selects every column of the rows matching where (all rows if nil)
func Select(where sq.Sqlizer) (Statement, error) {
	b := sq.Select("*").From(Table)
	if where != nil {
		b = b.Where(where)
	}
	return build(KindSelect, b)
}

// Project selects a single registered column for every row
func Project(column string) (Statement, error) {
	if !IsColumn(column) {
		return Statement{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return build(KindSelect, sq.Select(column).From(Table))
}

// OrderedByFirstnameDesc selects every row, firstname descending
func OrderedByFirstnameDesc() (Statement, error) {
	return build(KindSelect, sq.Select("*").From(Table).OrderBy("firstname DESC"))
}

// ByID selects the row with the given id
func ByID(id model.PlayerID) (Statement, error) {
	return Select(sq.Eq{"id": int64(id)})
}

// Insert inserts a new player. The id column is never written.
func Insert(in model.PlayerInput) (Statement, error) {
	b := sq.Insert(Table).
		Columns(mutableColumns...).
		Values(in.Firstname, boolToInt(in.IsOK), in.NbGame, in.DateLastGame)
	return build(KindInsert, b)
}

// Update replaces every mutable field of the given player
func Update(id model.PlayerID, in model.PlayerInput) (Statement, error) {
	b := sq.Update(Table).
		Set("firstname", in.Firstname).
		Set("isok", boolToInt(in.IsOK)).
		Set("nbgame", in.NbGame).
		Set("datelastgame", in.DateLastGame).
		Where(sq.Eq{"id": int64(id)})
	return build(KindUpdate, b)
}

// Toggle flips isok between 0 and 1 for the given player
func Toggle(id model.PlayerID) (Statement, error) {
	b := sq.Update(Table).
		Set("isok", sq.Expr("CASE WHEN isok = 0 THEN 1 ELSE 0 END")).
		Where(sq.Eq{"id": int64(id)})
	return build(KindUpdate, b)
}

// Delete deletes the given player
func Delete(id model.PlayerID) (Statement, error) {
	return build(KindDelete, sq.Delete(Table).Where(sq.Eq{"id": int64(id)}))
}

// DeleteInactive deletes every player whose isok is false
func DeleteInactive() (Statement, error) {
	return build(KindDelete, sq.Delete(Table).Where(sq.Eq{"isok": 0}))
}

func build(kind Kind, b sq.Sqlizer) (Statement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("build %s statement: %w", kind, err)
	}
	return Statement{Kind: kind, SQL: sql, Args: args}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
