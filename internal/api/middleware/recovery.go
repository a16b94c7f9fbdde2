package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/playerdb/internal/api/apierr"
	"github.com/mcoot/playerdb/internal/metrics"
	"github.com/mcoot/playerdb/internal/middleware"
)

// Recovery answers handler panics with the JSON internal error envelope
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicResponse)
}

func writePanicResponse(w http.ResponseWriter, _ *http.Request, _ any) {
	metrics.RecordPanic()
	apierr.WriteError(w, apierr.NewInternalError())
}
