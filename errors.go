package gdal

import (
	"fmt"
)

// ValidationError is returned when Open arguments cannot form a request.
// It is always returned before any native call is made.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// OpenFailureError is returned when no driver in a fallback list could
// open the file. The individual driver errors are not retained.
type OpenFailureError struct {
	Filename string
	Drivers  []string
}

func (e *OpenFailureError) Error() string { return ErrOpenDataset.Error() }

func (e *OpenFailureError) Unwrap() error { return ErrOpenDataset }

// TypeInferenceError is returned when a record value has no field type.
// Added is the number of fields committed to the schema before the
// failure; they are not rolled back.
type TypeInferenceError struct {
	Field string
	Added int
	Err   error
}

func (e *TypeInferenceError) Error() string { return e.Err.Error() }

func (e *TypeInferenceError) Unwrap() error { return e.Err }

func invalidArg(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf("gdal: "+format, args...)}
}
