package server

import (
	"errors"
	"fmt"
	"net/http"

	"cinematch/internal/recommend"
)

// ErrorClassifier allows errors to declare their classification for status mapping.
type ErrorClassifier interface {
	// ErrorKind returns a string classification of the error.
	// Known kinds: "validation", "not_found", "unavailable".
	ErrorKind() string
}

// InvalidArgumentError reports a malformed request parameter.
type InvalidArgumentError struct {
	Name   string
	Value  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Name, e.Value, e.Reason)
}

// ErrorKind classifies the error for status mapping.
func (e *InvalidArgumentError) ErrorKind() string { return "validation" }

// ErrorKind returns the classification of err, or "internal" when none is declared.
func ErrorKind(err error) string {
	if errors.Is(err, recommend.ErrNotBuilt) {
		return "unavailable"
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return "internal"
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch ErrorKind(err) {
	case "validation":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
