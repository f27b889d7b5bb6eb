package recommend

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks queries for a title absent from the built profiles.
	ErrNotFound = errors.New("title not found")
	// ErrNotBuilt is returned when an Engine is queried before its first build.
	ErrNotBuilt = errors.New("recommendation model not built")
)

// NotFoundError reports a query title that has no profile. Suggestions holds
// profile titles that match the query when case is ignored.
type NotFoundError struct {
	Title       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("selected title %q not found", e.Title)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", quoteJoin(e.Suggestions))
	}
	return msg
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ErrorKind classifies the error for status mapping.
func (e *NotFoundError) ErrorKind() string { return "not_found" }

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
