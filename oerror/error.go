package oerror

import "fmt"

// MesaError is the error type returned by mesa packages for failures that originate inside the module
// itself, as opposed to errors passed through from the standard library or a dependency.
type MesaError struct {
	Err string
}

// New formats a new MesaError using the format and arguments given, in the same manner as fmt.Sprintf.
func New(format string, args ...any) *MesaError {
	if len(args) == 0 {
		return &MesaError{Err: format}
	}
	return &MesaError{Err: fmt.Sprintf(format, args...)}
}

func (e *MesaError) Error() string {
	return "mesa: " + e.Err
}
