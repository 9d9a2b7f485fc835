package appointment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("appointment not found")
	// ErrForbidden is returned when a user tries to modify an appointment
	// owned by the other user. It is a usability guard checked before any
	// storage effect.
	ErrForbidden = errors.New("appointment belongs to another user")
)

// Validation field names, matching the form controls they map to.
const (
	FieldTitle     = "title"
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
)

// ValidationError reports draft problems per field so the UI can highlight
// the exact offending control instead of showing one opaque message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "invalid appointment: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
