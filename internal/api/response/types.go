package response

import (
	"github.com/mcoot/playerdb/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID           int64  `json:"id"`
	Firstname    string `json:"firstname"`
	IsOK         bool   `json:"isok"`
	NbGame       int64  `json:"nbgame"`
	DateLastGame string `json:"datelastgame"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:           int64(p.ID),
		Firstname:    p.Firstname,
		IsOK:         p.IsOK,
		NbGame:       p.NbGame,
		DateLastGame: p.DateLastGame,
	}
}

// PlayersFromModel converts a slice, never returning nil
func PlayersFromModel(players []model.Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerFromModel(p))
	}
	return out
}

// DeleteResponse reports how many players were deleted
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
