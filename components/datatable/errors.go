package datatable

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection marks bulk actions invoked with no rows selected.
	// Dispatchers surface it as a user notice, not a hard failure.
	ErrEmptySelection = errors.New("datatable: no rows selected")

	errMissingColumns  = errors.New("datatable: at least one column is required")
	errMissingSearcher = errors.New("datatable: searcher is required")
	errMissingApply    = errors.New("datatable: apply callback is required")
)

// ConfigurationError reports an invalid table configuration detected at
// construction time (duplicate column IDs, page size outside the allow-list).
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("datatable: invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// EnvironmentError reports a host capability failure: popup blocked, native
// share unsupported, clipboard write denied. Dispatchers catch it at the call
// site and degrade to a fallback path or a notice.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("datatable: environment %s unavailable: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }
