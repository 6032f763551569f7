package fingerprint

import (
	"errors"
	"fmt"
)

// Sentinel errors recorded in [DiagnosticInfo.Errors] and [Result.Err].
var (
	// ErrConsentDenied is reported when consent gating is enabled and the
	// gate refused, or no gate was configured.
	ErrConsentDenied = errors.New("consent to fingerprinting denied")

	// ErrDigestUnavailable is reported when the configured digest primitive
	// is not available at call time.
	ErrDigestUnavailable = errors.New("digest primitive not available")

	// ErrProbeTimeout is reported when a probe did not return before its deadline.
	ErrProbeTimeout = errors.New("probe timed out")

	// ErrProbePanic is reported when a probe panicked.
	ErrProbePanic = errors.New("probe panicked")

	// ErrReservedSignal is reported when an advanced probe uses the name of a
	// basic signal.
	ErrReservedSignal = errors.New("signal name is reserved for a basic signal")

	// ErrUnsupportedValue is returned when a value cannot be represented in a [Record].
	ErrUnsupportedValue = errors.New("unsupported signal value")

	// ErrNotFound is returned when a host value is not found in command
	// output or system files.
	ErrNotFound = errors.New("value not found")

	// ErrNotSupported is returned by host probes that have no implementation
	// on the current platform.
	ErrNotSupported = errors.New("not supported on this platform")

	// ErrPipelinePanic is reported when the pipeline itself panicked.
	ErrPipelinePanic = errors.New("fingerprint pipeline panicked")
)

// ProbeError records the failure of one advanced probe.
// These errors appear in [DiagnosticInfo.Errors] and can be inspected with [errors.As].
type ProbeError struct {
	Signal string // signal name, e.g. "canvasHash"
	Label  string // human-readable label, e.g. "canvas fingerprint"
	Err    error  // underlying error
}

// Error returns a human-readable description of the probe failure.
func (e *ProbeError) Error() string {
	return fmt.Sprintf("error during %s (%s): %v", e.Label, e.Signal, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// CommandError records a failed system command execution.
// Use [errors.As] to extract the command name from wrapped errors.
type CommandError struct {
	Command string // command name, e.g. "sysctl", "wmic"
	Err     error  // underlying error from exec
}

// Error returns a human-readable description of the command failure.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError records a failure while parsing command or system output.
type ParseError struct {
	Source string // data source, e.g. "system_profiler JSON", "/proc/meminfo"
	Err    error  // underlying parse error
}

// Error returns a human-readable description of the parse failure.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
