package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerdb/internal/api/handler"
	"github.com/mcoot/playerdb/internal/api/middleware"
	"github.com/mcoot/playerdb/internal/metrics"
	basemw "github.com/mcoot/playerdb/internal/middleware"
	"github.com/mcoot/playerdb/internal/query"
	"github.com/mcoot/playerdb/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *player.Service
	Health        handler.Pinger

	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Outermost first: ids and logs cover everything, including panics
	r.Use(basemw.RequestID)
	r.Use(basemw.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	api.Use(middleware.Metrics)

	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, r)
	healthHandler := handler.NewHealthHandler(cfg.Health)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Collection reads
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	for _, col := range query.Columns {
		api.HandleFunc("/players/"+col+"s", playerHandler.Project(col)).Methods(http.MethodGet)
	}
	api.HandleFunc("/players/search", playerHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/players/firstnames/like", playerHandler.Like).Methods(http.MethodGet)
	api.HandleFunc("/players/firstnames/begin", playerHandler.Begin).Methods(http.MethodGet)
	api.HandleFunc("/players/datelastgames/sup", playerHandler.After).Methods(http.MethodGet)
	api.HandleFunc("/players/desc", playerHandler.Desc).Methods(http.MethodGet)

	// Writes. isok0 must be registered before {id}.
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players/isok0", playerHandler.DeleteInactive).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id:[0-9]+}/toogle", playerHandler.Toggle).Methods(http.MethodPut)
	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/players/{id:[0-9]+}", playerHandler.Get).Methods(http.MethodGet).Name(handler.PlayerRouteName)

	// Must stay last: everything under /api that no route above took
	fallback := api.PathPrefix("/")
	fallback.Handler(apiFallback(api, fallback))

	// CORS wraps the router so preflight requests are answered before
	// method matching
	return middleware.CORS(cfg.CORSOrigins)(r)
}

// routedMethods are the methods any /api route accepts
var routedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// apiFallback answers requests no /api route matched. If the path is served
// under another method the response is 405 with an Allow header, else 404.
// A mismatch inside a subrouter never reaches the root router's
// MethodNotAllowedHandler, so the decision is made here.
func apiFallback(router *mux.Router, self *mux.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routedMethods {
			if method == r.Method {
				continue
			}

			alt := r.Clone(r.Context())
			alt.Method = method

			var match mux.RouteMatch
			if router.Match(alt, &match) && match.MatchErr == nil && match.Route != self {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			handler.NotFound(w, r)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		handler.MethodNotAllowed(w, r)
	})
}
