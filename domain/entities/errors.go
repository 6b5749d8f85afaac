package entities

import (
	"fmt"
	"strings"
)

// UnknownErrorCode is reported when the module emits an error without a
// machine-readable code.
const UnknownErrorCode = "UNKNOWN"

// ErrorExtensions carries the machine-readable portion of a module-reported
// error. Additional extension fields the module may emit are ignored.
type ErrorExtensions struct {
	// Code is a stable identifier such as "FIELD_TYPE_MISMATCH", suitable
	// for programmatic handling.
	Code string `json:"code"`
}

// CompositionError is a single problem the module found while composing a
// service list. Both fields are optional on the wire; either may be absent
// independently.
type CompositionError struct {
	Message    *string          `json:"message,omitempty"`
	Extensions *ErrorExtensions `json:"extensions,omitempty"`
}

// Code returns the machine-readable code, or UnknownErrorCode when the error
// carries no extensions.
func (e CompositionError) Code() string {
	return extensionsCode(e.Extensions)
}

// Error renders the code and message, or just the code for message-less
// errors.
func (e CompositionError) Error() string {
	return formatCodedError(e.Code(), e.Message)
}

// String renders the error the same way Error does.
func (e CompositionError) String() string {
	return e.Error()
}

// CompositionErrors is the full set of problems reported by one composition
// run. A failing composition always yields at least one entry.
type CompositionErrors []CompositionError

// Error joins the individual errors, one per line.
func (e CompositionErrors) Error() string {
	return joinCodedErrors(len(e), func(i int) string { return e[i].Error() })
}

// PlanningError is a single problem the module found while planning an
// operation, including GraphQL validation and syntax errors in the operation
// document.
type PlanningError struct {
	Message    *string          `json:"message,omitempty"`
	Extensions *ErrorExtensions `json:"extensions,omitempty"`
}

// Code returns the machine-readable code, or UnknownErrorCode when the error
// carries no extensions.
func (e PlanningError) Code() string {
	return extensionsCode(e.Extensions)
}

// Error renders the code and message, or just the code for message-less
// errors.
func (e PlanningError) Error() string {
	return formatCodedError(e.Code(), e.Message)
}

// String renders the error the same way Error does.
func (e PlanningError) String() string {
	return e.Error()
}

// PlanningErrors is the full set of problems reported by one planning run. A
// failing planning call always yields at least one entry.
type PlanningErrors []PlanningError

// Error joins the individual errors, one per line.
func (e PlanningErrors) Error() string {
	return joinCodedErrors(len(e), func(i int) string { return e[i].Error() })
}

func extensionsCode(ext *ErrorExtensions) string {
	if ext == nil || ext.Code == "" {
		return UnknownErrorCode
	}
	return ext.Code
}

func formatCodedError(code string, message *string) string {
	if message == nil {
		return code
	}
	return fmt.Sprintf("%s: %s", code, *message)
}

func joinCodedErrors(n int, render func(int) string) string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, render(i))
	}
	return strings.Join(lines, "\n")
}
