package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

// ErrSessionExpired is returned when the access token is rejected and the
// refresh token exchange also fails. Callers should send the user to login.
var ErrSessionExpired = errors.New("session expired")

// ErrNotAuthenticated is returned by calls that need a session when the
// client has no token at all.
var ErrNotAuthenticated = errors.New("not logged in")

// maxMessageWidth caps server messages so they fit a dialog.
const maxMessageWidth = 200

// Error is any non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// ConflictError is a 409 telling the caller the entity is still referenced.
type ConflictError struct {
	Message    string
	References []models.Reference
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s (%d references)", e.Message, len(e.References))
}

type errorBody struct {
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	References []models.Reference `json:"references"`
}

func parseError(status int, data []byte) error {
	var body errorBody
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}
	if status == http.StatusConflict && len(body.References) > 0 {
		return &ConflictError{Message: msg, References: body.References}
	}
	msg = runewidth.Truncate(msg, maxMessageWidth, "…")
	return &Error{Status: status, Message: msg}
}

// Describe turns an error into a short message for a dialog.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		if conflict.Message != "" {
			return conflict.Message
		}
		return "Still in use elsewhere"
	}
	if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
		return "Please log in again"
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Status == http.StatusNotFound:
			return "Not found"
		case apiErr.Status >= 500:
			return "Server error, try again later"
		}
		return apiErr.Error()
	}
	return "Network error: " + err.Error()
}

// IsUnauthorized reports whether err means the user has to log in.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
