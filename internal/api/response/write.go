package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// encodeFailure is sent when a body cannot be marshalled
const encodeFailure = `{"error":"internal server error","code":"INTERNAL_ERROR"}`

// JSON writes data as the response body with the given status. The body is
// marshalled before any header is written so a failure still yields a
// well-formed 500.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailure + "\n"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
