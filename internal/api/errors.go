package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
}

// maxErrorBody bounds how much of an error body we read looking for detail.
const maxErrorBody = 64 << 10

// newError reads res for a FastAPI-style {"detail": "..."} body. Anything
// else, including validation errors whose detail is a list, falls back to
// "HTTP <status>".
func newError(res *http.Response) *Error {
	e := &Error{Status: res.StatusCode, Detail: fmt.Sprintf("HTTP %d", res.StatusCode)}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return e
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(b, &body) != nil || len(body.Detail) == 0 {
		return e
	}
	var detail string
	if json.Unmarshal(body.Detail, &detail) == nil && detail != "" {
		e.Detail = detail
	}
	return e
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}
