package spcode

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every input rejection so callers can map
// them to a single client error.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrNoModules      = fmt.Errorf("%w: no modules", ErrInvalidInput)
	ErrEmptyCode      = fmt.Errorf("%w: module code must be specified", ErrInvalidInput)
	ErrInvalidCredits = fmt.Errorf("%w: credits must be a positive number", ErrInvalidInput)
	ErrInvalidGrade   = fmt.Errorf("%w: grade must be a finite number", ErrInvalidInput)
	ErrDuplicateCode  = fmt.Errorf("%w: duplicate module code", ErrInvalidInput)
	ErrTooManyModules = fmt.Errorf("%w: too many modules", ErrInvalidInput)
	ErrInvalidConfig  = errors.New("invalid optimizer config")
)

// ErrNoRemainingCredits is returned by Aggregate when a removal set leaves no
// credits to average over.
var ErrNoRemainingCredits = errors.New("removal set leaves no remaining credits")

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level failures for a batch of entries.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	f := e.Fields[0]
	msg := fmt.Sprintf("%s: entry %d: %s %s", ErrInvalidInput, f.Index, f.Field, f.Message)
	if len(e.Fields) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Fields)-1)
	}
	return msg
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
