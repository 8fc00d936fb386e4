/*
errors.go - Centralized error types for the reporting engine

PURPOSE:
  All engine error values in one place. Only configuration errors are fatal
  to a report run; transport and schema errors are absorbed at stage
  boundaries and degrade report detail instead.

ERROR CATEGORIES:
  1. Configuration errors - Missing credentials or adapter wiring (fatal)
  2. Lookup errors - Unknown reporter slugs, missing archive rows
  3. Transport errors - Produced by Source implementations, absorbed here

SEE ALSO:
  - run.go: The only place configuration errors abort execution
  - loyalty/client.go: Wraps transport failures with endpoint context
*/
package generic

import (
	"errors"
)

var (
	// ErrMissingCredentials is returned when a client is constructed
	// without an API token. Fails fast, before any I/O.
	ErrMissingCredentials = errors.New("missing API credentials")

	// ErrMissingBaseURL is returned when a client is constructed without
	// an upstream base URL.
	ErrMissingBaseURL = errors.New("missing API base URL")

	// ErrNilSource is returned when a runner has no Source wired.
	ErrNilSource = errors.New("runner requires a source")

	// ErrBadAdapter is returned when an adapter lacks required wiring
	// (no list endpoint, no title).
	ErrBadAdapter = errors.New("adapter is missing required configuration")

	// ErrUnknownReporter is returned for report slugs with no registered
	// adapter.
	ErrUnknownReporter = errors.New("unknown reporter")

	// ErrNotFound is returned for missing archive rows and reference
	// lookups that callers want to distinguish from transport failures.
	ErrNotFound = errors.New("not found")
)

// IsConfigError reports whether the error belongs to the only class that
// should stop a run before any upstream I/O happens.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrMissingBaseURL) ||
		errors.Is(err, ErrNilSource) ||
		errors.Is(err, ErrBadAdapter)
}

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownReporter)
}
