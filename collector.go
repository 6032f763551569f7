package fingerprint

import (
	"context"
	"fmt"
	"sync"
)

// probeSpec is a registered probe with its signal and label read once.
// err is set when reading them panicked; such a probe is never collected.
type probeSpec struct {
	probe  Probe
	signal string
	label  string
	err    error
	// named is false when Signal itself failed and signal is a placeholder.
	named bool
}

// describe reads the signal and label of probe. A panic in either method is
// recovered into spec.err. index names the probe when Signal panics.
func describe(probe Probe, index int) (spec probeSpec) {
	spec.probe = probe

	defer func() {
		if r := recover(); r != nil {
			if !spec.named {
				spec.signal = fmt.Sprintf("unnamed#%d", index)
			}
			if spec.label == "" {
				spec.label = spec.signal
			}
			spec.err = fmt.Errorf("%w: reading signal name: %v", ErrProbePanic, r)
		}
	}()

	spec.signal = probe.Signal()
	spec.named = true
	spec.label = probe.Label()
	if spec.label == "" {
		spec.label = spec.signal
	}

	return spec
}

// signalOf returns probe.Signal, or false when it panics.
func signalOf(probe Probe) (signal string, ok bool) {
	defer func() {
		if recover() != nil {
			signal, ok = "", false
		}
	}()

	return probe.Signal(), true
}

// failure returns the result recorded for spec when it cannot be collected.
func (s probeSpec) failure(err error) probeResult {
	return probeResult{
		signal: s.signal,
		err:    &ProbeError{Signal: s.signal, Label: s.label, Err: err},
		// Unnamed probes have no slot in the record.
		skip: !s.named,
	}
}

// collect builds a fresh record: basic signals inline from the environment,
// then every advanced probe concurrently through safeCall. It always returns
// a record; failed probes leave nil in their slot.
func collect(ctx context.Context, cfg settings, diag *DiagnosticInfo) Record {
	cfg.logInfo("collecting basic signals", "signals", basicSignals)

	rec := basicRecord(ctx, cfg.env)
	diag.Collected = append(diag.Collected, basicSignals...)

	specs := make([]probeSpec, len(cfg.probes))
	names := make([]string, len(cfg.probes))
	for i, probe := range cfg.probes {
		specs[i] = describe(probe, i)
		names[i] = specs[i].signal
	}
	cfg.logInfo("collecting advanced signals", "signals", names)

	results := make([]probeResult, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		switch {
		case spec.err != nil:
			cfg.logError("probe failed", "signal", spec.signal, "label", spec.label, "error", spec.err)
			results[i] = spec.failure(spec.err)

			continue

		case isBasicSignal(spec.signal):
			cfg.logWarn("probe skipped", "signal", spec.signal, "error", ErrReservedSignal)
			results[i] = spec.failure(ErrReservedSignal)
			results[i].skip = true

			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = spec.failure(fmt.Errorf("%w: %v", ErrProbePanic, r))
				}
			}()

			results[i] = safeCall(ctx, spec, cfg.probeTimeout, cfg.logger)
		}()
	}
	wg.Wait()

	// Assemble in registration order once every outcome is in.
	for _, r := range results {
		if r.err != nil {
			diag.Errors[r.signal] = r.err
		}
		if r.skip {
			continue
		}

		rec[r.signal] = r.value
		if r.err == nil {
			diag.Collected = append(diag.Collected, r.signal)
		}
	}

	return rec
}
