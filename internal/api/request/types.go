package request

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/mcoot/playerdb/internal/validation"
)

// ErrInvalidBody is returned for bodies that are not a JSON object
var ErrInvalidBody = errors.New("invalid request body")

// DecodePlayer reads a player body without imposing types, so the
// validator can report every bad field. An empty body decodes to an
// empty payload.
func DecodePlayer(body io.Reader) (validation.Payload, error) {
	fields := map[string]any{}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		return validation.Payload{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	return validation.PayloadFromJSON(fields), nil
}
