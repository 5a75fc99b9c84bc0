package search

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrUnknownIndex      = errors.New("unknown index")
	ErrTooManyFields     = errors.New("Too many fields specified. The maximum number of fields is 20.")
	ErrUnsupportedFormat = errors.New("The CSV file format is not valid for Search 2.0 responses.")
	ErrInvalidPageCount  = errors.New("invalid page count")
	ErrNotFound          = errors.New("not found")
)

// APIError is the error envelope returned by the search api (or synthesized when the api did not
// answer with JSON).
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       int    `json:"code"`
	Type       string `json:"error_type,omitempty"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d", e.Code)
	if e.Type != "" {
		msg += fmt.Sprintf(" (%s)", e.Type)
	}
	msg += ": " + e.Message
	if e.Details != "" {
		msg += " - " + e.Details
	}
	return msg
}

// Is lets errors.Is(err, ErrNotFound) match a 404 from the api.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func newAPIError(status int, body gjson.Result) *APIError {
	e := &APIError{
		StatusCode: status,
		Code:       status,
		Type:       body.Get("error_type").String(),
		Message:    body.Get("error").String(),
		Details:    body.Get("details").String(),
	}

	if c := body.Get("errorCode"); c.Exists() {
		e.Code = int(c.Int())
	} else if c := body.Get("code"); c.Exists() && c.Type == gjson.Number {
		e.Code = int(c.Int())
	}

	if e.Message == "" {
		e.Message = body.Get("message").String()
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	return e
}
