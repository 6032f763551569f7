package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// probeResult is the tagged outcome of one probe invocation: a value when
// err is nil, a failure otherwise.
type probeResult struct {
	signal string
	value  any
	err    error
	// skip keeps the result out of the record; err still reaches diagnostics.
	skip bool
}

// safeCall invokes the probe of spec once and never fails. A returned error,
// a panic, a value rejected by [Normalize] or a missed deadline is logged and
// turned into a nil value with a *ProbeError. spec comes from describe, so
// the probe's Signal and Label are not called here.
func safeCall(ctx context.Context, spec probeSpec, timeout time.Duration, logger *slog.Logger) probeResult {
	signal, label := spec.signal, spec.label

	value, err := callWithDeadline(ctx, spec.probe, timeout)
	if err == nil {
		value, err = Normalize(value)
	}

	if err != nil {
		if logger != nil {
			logger.Error("probe failed", "signal", signal, "label", label, "error", err)
		}

		return probeResult{signal: signal, err: &ProbeError{Signal: signal, Label: label, Err: err}}
	}

	if logger != nil {
		logger.Debug("probe collected", "signal", signal, "value", value)
	}

	return probeResult{signal: signal, value: value}
}

// callWithDeadline runs probe.Collect in its own goroutine so that a probe
// which ignores its context still cannot hold the pipeline past the deadline.
// A timeout <= 0 waits for the probe indefinitely.
func callWithDeadline(ctx context.Context, probe Probe, timeout time.Duration) (any, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		value any
		err   error
	}

	// Buffered so an abandoned probe can still finish and be collected.
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrProbePanic, r)}
			}
		}()

		value, err := probe.Collect(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", ErrProbeTimeout, timeout, out.err)
		}

		return out.value, out.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrProbeTimeout, timeout)
		}

		return nil, ctx.Err()
	}
}
