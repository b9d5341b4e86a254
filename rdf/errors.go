package rdf

import (
	"errors"
	"fmt"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidStatement indicates a statement with missing or malformed fields.
	ErrCodeInvalidStatement ErrorCode = "INVALID_STATEMENT"
	// ErrCodeWriterClosed indicates a write after Close.
	ErrCodeWriterClosed ErrorCode = "WRITER_CLOSED"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeJSONLD indicates a JSON-LD processing failure.
	ErrCodeJSONLD ErrorCode = "JSONLD_ERROR"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrInvalidStatement indicates a statement that cannot be serialized.
	ErrInvalidStatement = errors.New("rdf: missing statement fields")
	// ErrWriterClosed indicates the writer was already closed.
	ErrWriterClosed = errors.New("rdf: writer closed")
)

// Code returns the error code for an error, or ErrCodeIOError if unknown.
// Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrInvalidStatement):
		return ErrCodeInvalidStatement
	case errors.Is(err, ErrWriterClosed):
		return ErrCodeWriterClosed
	}

	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		if code := Code(writeErr.Err); code != ErrCodeIOError {
			return code
		}
		if writeErr.Format == FormatJSONLD {
			return ErrCodeJSONLD
		}
	}

	return ErrCodeIOError
}

// WriteError provides structured context for serialization failures.
type WriteError struct {
	Format    Format // Output format
	Statement string // Offending statement in N-Quads form, if any
	Err       error  // Underlying error
}

func (e *WriteError) Error() string {
	if e.Statement != "" {
		return fmt.Sprintf("%s: %v\n  %s", e.Format, e.Err, e.Statement)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error { return e.Err }

// wrapWriteError adds format/statement context to a write error.
func wrapWriteError(format Format, q *Quad, err error) error {
	if err == nil {
		return nil
	}
	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		return err
	}
	statement := ""
	if q != nil && q.S != nil && q.O != nil {
		statement = q.String()
	}
	return &WriteError{Format: format, Statement: statement, Err: err}
}
