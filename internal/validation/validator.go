// Package validation checks player payloads before they reach the store.
//
// Bodies arrive as loosely-typed JSON: a game count may be 3 or "3", a
// flag may be true, "true" or 1. Every value is first coerced to its
// string form and then checked with go-playground/validator struct tags,
// so the same rules hold whatever JSON type the client used.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/playerdb/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	integerPattern = regexp.MustCompile(`^[-+]?[0-9]+$`)
)

// Payload is a create or update body after string coercion.
// Field order is the order violations are reported in.
type Payload struct {
	DateLastGame string `json:"datelastgame" validate:"required,iso8601"`
	NbGame       string `json:"nbgame" validate:"required,integer"`
	IsOK         string `json:"isok" validate:"required,boolean"`
	Firstname    string `json:"firstname" validate:"min=2"`
}

// FieldError describes one violated rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
}

// Error is returned when a payload breaks one or more rules.
// It always carries every violation, not just the first.
type Error struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the shared validator with the player rules registered
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json names so violations match the body keys
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
			_, ok := parseDate(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if !integerPattern.MatchString(s) {
				return false
			}
			_, err := strconv.ParseInt(s, 10, 64)
			return err == nil
		})
		// Replaces the built-in rule, which also takes t, F, TRUE and True
		_ = validate.RegisterValidation("boolean", func(fl validator.FieldLevel) bool {
			_, ok := parseFlag(fl.Field().String())
			return ok
		})
	})

	return validate
}

// PayloadFromJSON coerces a decoded JSON object into a Payload.
// Missing keys and non-scalar values become empty strings, which every
// rule rejects.
func PayloadFromJSON(body map[string]any) Payload {
	return Payload{
		DateLastGame: coerce(body["datelastgame"]),
		NbGame:       coerce(body["nbgame"]),
		IsOK:         coerce(body["isok"]),
		Firstname:    coerce(body["firstname"]),
	}
}

// Check validates p and, when every rule passes, returns the normalized input
func Check(p Payload) (model.PlayerInput, error) {
	if err := GetValidator().Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return model.PlayerInput{}, &Error{Fields: []FieldError{{
				Field:   "unknown",
				Tag:     "unknown",
				Message: err.Error(),
			}}}
		}

		out := make([]FieldError, len(fieldErrs))
		for i, fe := range fieldErrs {
			out[i] = FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Value:   fmt.Sprint(fe.Value()),
				Message: translateError(fe),
			}
		}
		return model.PlayerInput{}, &Error{Fields: out}
	}

	nb, _ := strconv.ParseInt(p.NbGame, 10, 64)
	ok, _ := parseFlag(p.IsOK)
	date, _ := parseDate(p.DateLastGame)

	return model.PlayerInput{
		Firstname:    p.Firstname,
		IsOK:         ok,
		NbGame:       nb,
		DateLastGame: date,
	}, nil
}

// parseFlag accepts exactly true, false, 1 and 0
func parseFlag(s string) (value, ok bool) {
	switch s {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns
// the calendar date part
func parseDate(s string) (string, bool) {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t.Format(model.DateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(model.DateLayout), true
	}
	return "", false
}

func coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		// json.Number from a UseNumber decoder
		return x.String()
	default:
		return ""
	}
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"iso8601":  "%s must be an ISO-8601 date",
	"integer":  "%s must be an integer",
	"boolean":  "%s must be a boolean",
}

func translateError(fe validator.FieldError) string {
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field())
	}
	if fe.Tag() == "min" {
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
