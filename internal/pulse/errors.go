package pulse

import (
	"errors"
	"fmt"
)

// Sentinel errors for the probe pipeline. Argument errors abort a run;
// everything else is local to a single target.
var (
	// ErrMissingTargets indicates no target list was supplied.
	ErrMissingTargets = errors.New("path(s) parameters are missing")

	// ErrInvalidTargetForm indicates a target without a path separator.
	ErrInvalidTargetForm = errors.New("invalid form found in paths")

	// ErrSchemaMismatch indicates a body that does not split into exactly
	// FieldCount fields.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrFieldParse indicates a numeric field that could not be parsed.
	ErrFieldParse = errors.New("field parse error")
)

// FailureKind classifies a per-target fetch failure.
type FailureKind int

const (
	// FailureUnknown is the catch-all class.
	FailureUnknown FailureKind = iota
	// FailureProtocol covers non-success statuses and malformed responses.
	FailureProtocol
	// FailureConnectivity covers DNS, dial, and timeout failures.
	FailureConnectivity
)

// String returns the label printed in failure lines.
func (k FailureKind) String() string {
	switch k {
	case FailureProtocol:
		return "ProtocolError"
	case FailureConnectivity:
		return "ConnectivityError"
	default:
		return "UnknownError"
	}
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// FetchError carries the classification of a failed fetch.
type FetchError struct {
	Kind FailureKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FieldError reports a numeric field that failed to parse.
type FieldError struct {
	Index int
	Name  string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %d (%s) %q: %v", e.Index, e.Name, e.Value, e.Err)
}

// Unwrap exposes both ErrFieldParse and the underlying strconv error.
func (e *FieldError) Unwrap() []error { return []error{ErrFieldParse, e.Err} }

// IsArgumentError reports whether err is a run-fatal argument error. These
// are printed by the Runner itself.
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrMissingTargets) || errors.Is(err, ErrInvalidTargetForm)
}
