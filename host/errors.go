package host

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingExport is returned when a module lacks an export the calling convention needs.
	ErrMissingExport = errors.New("missing export")
	// ErrExportSignature is returned when an export exists with the wrong wasm signature.
	ErrExportSignature = errors.New("export has wrong signature")
	// ErrNullResult is returned when a business export yields the null pointer, the guest's
	// signal that the call failed.
	ErrNullResult = errors.New("guest returned a null result pointer")
)

// CallError reports a failed call of a guest export.
type CallError struct {
	Err        error
	Export     string
	Diagnostic string // last error record the guest logged during the call, if any
}

func (e *CallError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("call %s: %v (guest: %s)", e.Export, e.Err, e.Diagnostic)
	}
	return fmt.Sprintf("call %s: %v", e.Export, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
