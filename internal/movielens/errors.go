package movielens

import (
	"errors"
	"fmt"
)

// ErrSchema marks input that lacks a required column.
var ErrSchema = errors.New("schema error")

// SchemaError reports a required column missing from a dataset.
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s dataset is missing required column %q", e.Dataset, e.Column)
}

// Is lets errors.Is(err, ErrSchema) match any SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ErrorKind classifies schema problems as caller input errors.
func (e *SchemaError) ErrorKind() string { return "validation" }

// RequireColumns returns a SchemaError for the first entry of required that
// is absent from columns.
func RequireColumns(dataset string, columns, required []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col] = struct{}{}
	}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			return &SchemaError{Dataset: dataset, Column: col}
		}
	}
	return nil
}
