package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayers([]Player{v})
	case []Player:
		o.printPlayers(v)
	case []map[string]any:
		o.printRows(v)
	case DeleteResult:
		fmt.Printf("Deleted: %d\n", v.Deleted)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
		fmt.Printf("Store: %s\n", v.Store)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID           int64  `json:"id"`
	Firstname    string `json:"firstname"`
	IsOK         bool   `json:"isok"`
	NbGame       int64  `json:"nbgame"`
	DateLastGame string `json:"datelastgame"`
}

// DeleteResult response type
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func (o *Output) printPlayers(players []Player) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIRSTNAME\tISOK\tNBGAME\tDATELASTGAME")
	for _, p := range players {
		fmt.Fprintf(w, "%d\t%s\t%t\t%d\t%s\n", p.ID, p.Firstname, p.IsOK, p.NbGame, p.DateLastGame)
	}
	_ = w.Flush()
}

func (o *Output) printRows(rows []map[string]any) {
	for _, row := range rows {
		for _, v := range row {
			fmt.Println(v)
		}
	}
}
