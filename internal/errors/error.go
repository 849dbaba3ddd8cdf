package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting Category = "routing"
	CategoryHook    Category = "hook"
	CategoryHistory Category = "history"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// PathwayError is a structured error with a code, explanation and hint.
type PathwayError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (routing, history, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Attrs are structured fields attached to log records.
	Attrs []slog.Attr

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PathwayError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PathwayError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PathwayError) WithSuggestion(s string) *PathwayError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *PathwayError) WithDetail(d string) *PathwayError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *PathwayError) WithDetailf(format string, args ...any) *PathwayError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// With attaches structured log fields.
func (e *PathwayError) With(attrs ...slog.Attr) *PathwayError {
	e.Attrs = append(e.Attrs, attrs...)
	return e
}

// Wrap wraps another error.
func (e *PathwayError) Wrap(err error) *PathwayError {
	e.Wrapped = err
	return e
}

// LogValue implements slog.LogValuer so the error renders as a group.
func (e *PathwayError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Attrs)+3)
	if e.Code != "" {
		attrs = append(attrs, slog.String("code", e.Code))
	}
	attrs = append(attrs, slog.String("message", e.Message))
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	attrs = append(attrs, e.Attrs...)
	return slog.GroupValue(attrs...)
}

// New creates a PathwayError from a registered error code.
func New(code string) *PathwayError {
	template, ok := registry[code]
	if !ok {
		return &PathwayError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PathwayError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new PathwayError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *PathwayError {
	return &PathwayError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a PathwayError.
func FromError(err error, code string) *PathwayError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PathwayError); ok {
		return pe
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first PathwayError in err's chain.
func CodeOf(err error) string {
	var pe *PathwayError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
