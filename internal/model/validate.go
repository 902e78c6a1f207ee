package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateTimeEntry checks a TimeEntry for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the entry is valid.
func ValidateTimeEntry(e *TimeEntry) error {
	var ve ValidationError

	if e.Start.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "start", Message: "is required"})
	}
	if e.End.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "end", Message: "is required"})
	}
	if !e.Start.IsZero() && !e.End.IsZero() && e.End.Before(e.Start) {
		ve.Errors = append(ve.Errors, FieldError{Field: "end", Message: "must not be before start"})
	}

	if e.Duration < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "duration",
			Message: fmt.Sprintf("must not be negative, got %d", e.Duration),
		})
	}

	if !e.Source.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "source",
			Message: fmt.Sprintf("invalid value %q", e.Source),
		})
	}

	// Pomodoro linkage: cycle implies run ID and pomodoro source.
	if e.Source == SourcePomodoro && e.PomodoroRunID == "" {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "pomodoro_run_id",
			Message: "is required for pomodoro entries",
		})
	}
	if e.Source != SourcePomodoro && e.PomodoroRunID != "" {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "pomodoro_run_id",
			Message: "must be empty for non-pomodoro entries",
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidatePomodoroPreferences checks phase lengths and the long-break
// interval. All durations must be positive minutes.
func ValidatePomodoroPreferences(p *PomodoroPreferences) error {
	var ve ValidationError

	check := func(field string, v int) {
		if v <= 0 {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be positive, got %d", v),
			})
		}
	}
	check("work_minutes", p.WorkMinutes)
	check("short_break_minutes", p.ShortBreakMinutes)
	check("long_break_minutes", p.LongBreakMinutes)
	check("long_break_every", p.LongBreakEvery)

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
