// Package host runs udf guest modules under wazero and performs the host half of the calling
// convention: it allocates and fills the argument envelope through the guest's allocate export,
// invokes the business export, copies the result envelope out and hands both buffers back
// through release.
//
// Guest diagnostics arrive as JSON lines on the module's stderr. A DiagnosticWriter re-emits them
// through the host logger and keeps the most recent error record so a failed call can report why.
package host
