package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when the input table has no data rows.
	ErrEmptyBatch = errors.New("empty batch")
	// ErrMissingColumn is the sentinel wrapped by MissingColumnError.
	ErrMissingColumn = errors.New("missing required column")
)

// MissingColumnError reports a required column absent from the input table.
// Alternatives lists column names accepted in its place.
type MissingColumnError struct {
	Column       string
	Alternatives []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Alternatives) == 0 {
		return fmt.Sprintf("%s: %q", ErrMissingColumn, e.Column)
	}
	return fmt.Sprintf("%s: %q (or any of %q)", ErrMissingColumn, e.Column, e.Alternatives)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
