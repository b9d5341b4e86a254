package encoder

import (
	"errors"
	"fmt"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnknownEncoding indicates an EncodingConstraint naming an encoding outside the vocabulary.
	ErrCodeUnknownEncoding ErrorCode = "UNKNOWN_ENCODING"
	// ErrCodeUnknownElement indicates an ID that is not in the model.
	ErrCodeUnknownElement ErrorCode = "UNKNOWN_ELEMENT"
	// ErrCodeNoFile indicates a call without a file context.
	ErrCodeNoFile ErrorCode = "NO_FILE"
	// ErrCodeDuplicateURN indicates a rename onto a URN another element holds.
	ErrCodeDuplicateURN ErrorCode = "DUPLICATE_URN"
	// ErrCodeStore indicates a failure of the underlying triple store.
	ErrCodeStore ErrorCode = "STORE_ERROR"
	// ErrCodeUnknown indicates an error outside the encoder and its stores.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrUnknownEncoding indicates an EncodingConstraint naming an encoding outside the vocabulary.
	ErrUnknownEncoding = errors.New("encoder: unknown encoding")
	// ErrUnknownElement indicates an ID that is not in the model.
	ErrUnknownElement = errors.New("encoder: unknown element")
	// ErrNoFile indicates a call without a file context.
	ErrNoFile = errors.New("encoder: no file context")
)

// Code returns the error code for an error, or ErrCodeUnknown if unknown.
// Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnknownEncoding):
		return ErrCodeUnknownEncoding
	case errors.Is(err, ErrUnknownElement), errors.Is(err, aspect.ErrNotFound):
		return ErrCodeUnknownElement
	case errors.Is(err, ErrNoFile):
		return ErrCodeNoFile
	case errors.Is(err, aspect.ErrDuplicateURN):
		return ErrCodeDuplicateURN
	case errors.Is(err, store.ErrClosed), errors.Is(err, store.ErrMalformedList),
		errors.Is(err, rdf.ErrInvalidStatement):
		return ErrCodeStore
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return ErrCodeStore
	}
	return ErrCodeUnknown
}

// StoreError wraps a failure reported by the file's statement store.
type StoreError struct {
	Op  string // Store operation: add, delete or match
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

func wrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// VisitError records the element a visit failed on.
type VisitError struct {
	URN string // Element URN at the time of the failure
	Err error  // Underlying error
}

func (e *VisitError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.URN, e.Err)
}

// Unwrap returns the underlying error.
func (e *VisitError) Unwrap() error { return e.Err }

func wrapVisitError(urn string, err error) error {
	if err == nil {
		return nil
	}
	var visitErr *VisitError
	if errors.As(err, &visitErr) {
		return err
	}
	return &VisitError{URN: urn, Err: err}
}
