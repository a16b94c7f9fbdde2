package query

// Table is the only table the service reads and writes
const Table = "player"

// Columns is the closed set of player columns that may be selected on
// their own or named in an equality search. It is fixed at compile time
// and never derived from request input.
var Columns = [...]string{"id", "firstname", "isok", "nbgame", "datelastgame"}

// IsColumn reports whether name is a registered player column
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}
