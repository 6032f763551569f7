package fingerprint

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommandErrorMessage(t *testing.T) {
	inner := fmt.Errorf("exit status 1")
	err := &CommandError{Command: "sysctl", Err: inner}

	want := `command "sysctl" failed: exit status 1`
	if err.Error() != want {
		t.Errorf("CommandError.Error() = %q, want %q", err.Error(), want)
	}
}

func TestCommandErrorAs(t *testing.T) {
	inner := fmt.Errorf("exit status 1")
	err := fmt.Errorf("collecting memory: %w", &CommandError{Command: "sysctl", Err: inner})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("errors.As() should find CommandError in wrapped chain")
	}

	if cmdErr.Command != "sysctl" {
		t.Errorf("CommandError.Command = %q, want %q", cmdErr.Command, "sysctl")
	}

	if cmdErr.Unwrap() != inner {
		t.Error("CommandError.Unwrap() did not return inner error")
	}
}

func TestParseErrorMessage(t *testing.T) {
	inner := fmt.Errorf("unexpected end of JSON input")
	err := &ParseError{Source: "system_profiler JSON", Err: inner}

	want := "failed to parse system_profiler JSON: unexpected end of JSON input"
	if err.Error() != want {
		t.Errorf("ParseError.Error() = %q, want %q", err.Error(), want)
	}

	if err.Unwrap() != inner {
		t.Error("ParseError.Unwrap() did not return inner error")
	}
}

func TestProbeErrorMessage(t *testing.T) {
	err := &ProbeError{Signal: "canvasHash", Label: "canvas fingerprint", Err: ErrProbeTimeout}

	want := "error during canvas fingerprint (canvasHash): probe timed out"
	if err.Error() != want {
		t.Errorf("ProbeError.Error() = %q, want %q", err.Error(), want)
	}
}

func TestProbeErrorIs(t *testing.T) {
	err := fmt.Errorf("run: %w", &ProbeError{Signal: "fonts", Label: "font detection", Err: ErrNotFound})

	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatal("errors.As() should find ProbeError in wrapped chain")
	}

	if probeErr.Signal != "fonts" {
		t.Errorf("ProbeError.Signal = %q, want %q", probeErr.Signal, "fonts")
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(ProbeError, ErrNotFound) should be true through Unwrap")
	}
}

func TestSentinelErrorsDistinct(t *testing.T) {
	sentinels := []error{
		ErrConsentDenied,
		ErrDigestUnavailable,
		ErrProbeTimeout,
		ErrProbePanic,
		ErrReservedSignal,
		ErrUnsupportedValue,
		ErrNotFound,
		ErrNotSupported,
		ErrPipelinePanic,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = true, want false", a, b)
			}
		}
	}
}
