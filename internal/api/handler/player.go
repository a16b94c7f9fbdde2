package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerdb/internal/api/apierr"
	"github.com/mcoot/playerdb/internal/api/request"
	"github.com/mcoot/playerdb/internal/api/response"
	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/query"
	"github.com/mcoot/playerdb/internal/services/player"
	"github.com/mcoot/playerdb/internal/validation"
)

// PlayerRouteName names the single player route, used to build Location headers
const PlayerRouteName = "player"

// PlayerHandler handles player endpoints
type PlayerHandler struct {
	service *player.Service
	router  *mux.Router
}

// NewPlayerHandler creates a new player handler. The router is used to
// build Location URLs from the named player route.
func NewPlayerHandler(service *player.Service, router *mux.Router) *PlayerHandler {
	return &PlayerHandler{
		service: service,
		router:  router,
	}
}

// List handles GET /api/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Project returns a handler for GET /api/players/{column}s
func (h *PlayerHandler) Project(column string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.service.Project(r.Context(), column)
		if err != nil {
			WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, rows)
	}
}

// Search handles GET /api/players/search
func (h *PlayerHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseFilter(r.URL.RawQuery)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	players, err := h.service.Search(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Like handles GET /api/players/firstnames/like
func (h *PlayerHandler) Like(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.Contains(r.Context(), r.URL.Query().Get("firstname"))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Begin handles GET /api/players/firstnames/begin
func (h *PlayerHandler) Begin(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.Begins(r.Context(), r.URL.Query().Get("firstname"))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// After handles GET /api/players/datelastgames/sup
func (h *PlayerHandler) After(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.After(r.Context(), r.URL.Query().Get("datelastgame"))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Desc handles GET /api/players/desc
func (h *PlayerHandler) Desc(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.Desc(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Get handles GET /api/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Create handles POST /api/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setLocation(w, r, p.ID)
	response.JSON(w, http.StatusCreated, response.PlayerFromModel(p))
}

// Update handles PUT /api/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setLocation(w, r, p.ID)
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Toggle handles PUT /api/players/{id}/toogle
func (h *PlayerHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.service.Toggle(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setLocation(w, r, p.ID)
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Delete handles DELETE /api/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	n, err := h.service.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DeleteResponse{Deleted: n})
}

// DeleteInactive handles DELETE /api/players/isok0
func (h *PlayerHandler) DeleteInactive(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteInactive(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DeleteResponse{Deleted: n})
}

// setLocation points the Location header at the player's canonical URL
func (h *PlayerHandler) setLocation(w http.ResponseWriter, r *http.Request, id model.PlayerID) {
	route := h.router.Get(PlayerRouteName)
	if route == nil {
		return
	}
	u, err := route.URL("id", strconv.FormatInt(int64(id), 10))
	if err != nil {
		return
	}

	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = r.Host

	w.Header().Set("Location", u.String())
}

func playerID(r *http.Request) (model.PlayerID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierr.NewInvalidIDError(raw)
	}
	return model.PlayerID(id), nil
}

func decodeInput(r *http.Request) (model.PlayerInput, error) {
	payload, err := request.DecodePlayer(r.Body)
	if err != nil {
		return model.PlayerInput{}, NewInvalidRequestError(fmt.Sprint(err))
	}
	return validation.Check(payload)
}
