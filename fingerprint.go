package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// defaultTimeout bounds each advanced probe and each system command.
const defaultTimeout = 5 * time.Second

// DiagnosticInfo records what happened during one pipeline run.
type DiagnosticInfo struct {
	Errors    map[string]error // Signal names (or "consent", "digest", "pipeline") with their errors
	Collected []string         // Signal names that were successfully collected
}

// Result is the outcome of one [Provider.Run].
type Result struct {
	// Fingerprint is the digest string, [SentinelDigestUnavailable], or ""
	// when the run was aborted.
	Fingerprint string
	// State is StateDone or StateAborted.
	State State
	// AbortedIn is the state the pipeline was in when it aborted.
	AbortedIn State
	// Err is the reason for an abort, nil otherwise.
	Err error
	// Record is the collected record, nil if collection never finished.
	Record Record
	// Canonical is the canonical form of Record, nil if never produced.
	Canonical []byte
	// Diagnostics lists collected signals and failures.
	Diagnostics *DiagnosticInfo
}

// Aborted reports whether the run ended without a fingerprint.
func (r *Result) Aborted() bool {
	return r.State == StateAborted
}

func (r *Result) abort(err error) {
	r.AbortedIn = r.State
	r.State = StateAborted
	r.Err = err
	r.Fingerprint = ""
}

// CommandExecutor is an interface for executing system commands, allowing for dependency injection and testing.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// Provider configures and runs the fingerprint pipeline.
// It holds configuration only; every run builds a fresh record.
// Provider methods are safe for concurrent use.
type Provider struct {
	mu              sync.RWMutex
	commandExecutor CommandExecutor
	env             Environment
	probes          []Probe
	logger          *slog.Logger
	digester        Digester
	consent         ConsentFunc
	salt            string
	probeTimeout    time.Duration
	formatMode      FormatMode
	requireConsent  bool
}

// settings is the immutable view of a Provider used by one run.
type settings struct {
	env            Environment
	probes         []Probe
	logger         *slog.Logger
	digester       Digester
	consent        ConsentFunc
	salt           string
	probeTimeout   time.Duration
	formatMode     FormatMode
	requireConsent bool
}

// New creates a Provider that samples the host with the default probes,
// SHA-256 and Format64. Consent gating is disabled until [Provider.WithConsent]
// or [Provider.RequireConsent] is called.
func New() *Provider {
	p := &Provider{
		commandExecutor: &defaultCommandExecutor{
			Timeout: defaultTimeout,
		},
		digester:     SHA256(),
		probeTimeout: defaultTimeout,
		formatMode:   Format64,
	}

	exec := providerExecutor{p: p}
	p.env = NewHostEnvironment(exec)
	p.probes = DefaultProbes(exec, providerDigester{p: p})

	return p
}

// WithSalt sets a custom salt mixed into the digest input.
func (p *Provider) WithSalt(salt string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.salt = salt

	return p
}

// WithFormat sets the output format and length.
// Use Format64 (default), Format32, Format128, Format256 or FormatCID.
func (p *Provider) WithFormat(mode FormatMode) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formatMode = mode

	return p
}

// WithDigester sets the digest primitive. It also hashes the canvas and audio
// renderings of the default probes. A nil Digester makes every run return
// [SentinelDigestUnavailable].
func (p *Provider) WithDigester(d Digester) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.digester = d

	return p
}

// WithConsent enables consent gating with the given gate.
func (p *Provider) WithConsent(gate ConsentFunc) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consent = gate
	p.requireConsent = true

	return p
}

// RequireConsent enables or disables consent gating. When enabled without a
// gate, every run is denied.
func (p *Provider) RequireConsent(required bool) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requireConsent = required

	return p
}

// WithProbeTimeout sets the deadline for each advanced probe.
// A timeout <= 0 lets probes run without a deadline.
func (p *Provider) WithProbeTimeout(timeout time.Duration) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probeTimeout = timeout

	return p
}

// WithEnvironment sets the source of the basic signals. A nil environment
// restores the host environment.
func (p *Provider) WithEnvironment(env Environment) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	if env == nil {
		env = NewHostEnvironment(providerExecutor{p: p})
	}
	p.env = env

	return p
}

// WithProbe registers an advanced probe, replacing any probe with the same signal name.
func (p *Provider) WithProbe(probe Probe) *Provider {
	if probe == nil {
		return p
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = upsertProbe(p.probes, probe)

	return p
}

// WithProbes replaces the whole list of advanced probes. Probes sharing a
// signal name collapse into the last one, kept at the position of the first.
func (p *Provider) WithProbes(probes ...Probe) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = make([]Probe, 0, len(probes))
	for _, probe := range probes {
		if probe != nil {
			p.probes = upsertProbe(p.probes, probe)
		}
	}

	return p
}

// upsertProbe replaces the probe in probes with the signal of probe, or
// appends probe when there is none. A probe whose Signal panics never matches.
func upsertProbe(probes []Probe, probe Probe) []Probe {
	signal, ok := signalOf(probe)
	if !ok {
		return append(probes, probe)
	}

	for i, existing := range probes {
		if s, ok := signalOf(existing); ok && s == signal {
			probes[i] = probe

			return probes
		}
	}

	return append(probes, probe)
}

// WithoutProbe removes the advanced probe populating signal, if any.
func (p *Provider) WithoutProbe(signal string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.probes[:0]
	for _, probe := range p.probes {
		if s, ok := signalOf(probe); !ok || s != signal {
			kept = append(kept, probe)
		}
	}
	p.probes = kept

	return p
}

// WithExecutor sets a custom [CommandExecutor] used by the host environment
// and host probes, enabling deterministic testing without real system commands.
func (p *Provider) WithExecutor(executor CommandExecutor) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commandExecutor = executor

	return p
}

// WithLogger sets an optional [*slog.Logger] as the diagnostics sink.
// A nil logger (the default) disables all logging.
func (p *Provider) WithLogger(logger *slog.Logger) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = logger

	return p
}

// Signals returns the signal names of the record in collection order.
func (p *Provider) Signals() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	signals := append([]string(nil), basicSignals...)
	for _, probe := range p.probes {
		if s, ok := signalOf(probe); ok {
			signals = append(signals, s)
		}
	}

	return signals
}

func (p *Provider) snapshot() settings {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return settings{
		env:            p.env,
		probes:         append([]Probe(nil), p.probes...),
		logger:         p.logger,
		digester:       p.digester,
		consent:        p.consent,
		salt:           p.salt,
		probeTimeout:   p.probeTimeout,
		formatMode:     p.formatMode,
		requireConsent: p.requireConsent,
	}
}

// Executor returns a [CommandExecutor] that delegates to whatever executor is
// configured on p at call time. Use it to build host probes for [Provider.WithProbe].
func (p *Provider) Executor() CommandExecutor {
	return providerExecutor{p: p}
}

// Digester returns a [Digester] that delegates to whatever digester is
// configured on p at call time. Use it to build hashing probes for [Provider.WithProbe].
func (p *Provider) Digester() Digester {
	return providerDigester{p: p}
}

func (p *Provider) currentDigester() Digester {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.digester
}

func (p *Provider) executor() CommandExecutor {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.commandExecutor
}

// providerExecutor resolves the Provider's executor on every call so that
// [Provider.WithExecutor] also reaches the default environment and probes.
type providerExecutor struct {
	p *Provider
}

func (e providerExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return executeCommand(ctx, e.p.executor(), name, args...)
}

// providerDigester resolves the Provider's digester on every call. With no
// digester configured it is never available.
type providerDigester struct {
	p *Provider
}

func (d providerDigester) Name() string {
	if cur := d.p.currentDigester(); cur != nil {
		return cur.Name()
	}

	return "none"
}

func (d providerDigester) Available() bool {
	cur := d.p.currentDigester()

	return cur != nil && cur.Available()
}

func (d providerDigester) Sum(data []byte) []byte {
	if cur := d.p.currentDigester(); cur != nil {
		return cur.Sum(data)
	}

	return nil
}

func (d providerDigester) MultihashCode() uint64 {
	if cur := d.p.currentDigester(); cur != nil {
		return cur.MultihashCode()
	}

	return 0
}

// Fingerprint runs the pipeline and returns the fingerprint. ok is false when
// the run was aborted (consent denied or an unexpected failure); it never
// panics. When the digest primitive is unavailable the fingerprint is
// [SentinelDigestUnavailable] and ok is true.
func (p *Provider) Fingerprint(ctx context.Context) (id string, ok bool) {
	res := p.Run(ctx)

	return res.Fingerprint, !res.Aborted()
}

// Validate reports whether id matches a freshly computed fingerprint.
// It returns false when the run is aborted.
func (p *Provider) Validate(ctx context.Context, id string) bool {
	current, ok := p.Fingerprint(ctx)

	return ok && current == id
}

// Run executes consent check, collection, canonicalization and digesting,
// and returns the full outcome. Failures never escape: probe failures become
// nil signals, everything else aborts the run.
func (p *Provider) Run(ctx context.Context) (res *Result) {
	cfg := p.snapshot()
	res = &Result{
		State: StateIdle,
		Diagnostics: &DiagnosticInfo{
			Errors: make(map[string]error),
		},
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrPipelinePanic, r)
			cfg.logError("error generating fingerprint", "state", res.State, "error", err)
			res.Diagnostics.Errors["pipeline"] = err
			res.abort(err)
		}
	}()

	cfg.logInfo("starting fingerprint generation",
		"platform", runtime.GOOS,
		"format", cfg.formatMode,
		"signals", len(basicSignals)+len(cfg.probes),
	)

	if cfg.requireConsent {
		res.State = StateConsentCheck
		if cfg.consent == nil || !cfg.consent() {
			cfg.logWarn("consent to fingerprinting denied, aborting")
			res.Diagnostics.Errors["consent"] = ErrConsentDenied
			res.abort(ErrConsentDenied)

			return res
		}
	}

	res.State = StateCollecting
	rec := collect(ctx, cfg, res.Diagnostics)
	res.Record = rec

	res.State = StateCanonicalizing
	canonical, err := Canonicalize(rec)
	if err != nil {
		err = fmt.Errorf("canonicalizing record: %w", err)
		cfg.logError("error generating fingerprint", "state", res.State, "error", err)
		res.Diagnostics.Errors["pipeline"] = err
		res.abort(err)

		return res
	}
	res.Canonical = canonical
	cfg.logDebug("canonical record", "bytes", len(canonical))

	res.State = StateDigesting
	id, err := reduce(canonical, cfg.salt, cfg.digester, cfg.formatMode)
	switch {
	case errors.Is(err, ErrDigestUnavailable):
		cfg.logWarn("digest primitive not available, returning sentinel", "sentinel", id)
		res.Diagnostics.Errors["digest"] = err
	case err != nil:
		err = fmt.Errorf("digesting record: %w", err)
		cfg.logError("error generating fingerprint", "state", res.State, "error", err)
		res.Diagnostics.Errors["pipeline"] = err
		res.abort(err)

		return res
	}

	res.Fingerprint = id
	res.State = StateDone
	cfg.logInfo("fingerprint generation completed",
		"collected", len(res.Diagnostics.Collected),
		"errors_count", len(res.Diagnostics.Errors),
	)

	return res
}

// logDebug logs at debug level if a logger is configured.
func (s *settings) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// logInfo logs at info level if a logger is configured.
func (s *settings) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

// logWarn logs at warn level if a logger is configured.
func (s *settings) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// logError logs at error level if a logger is configured.
func (s *settings) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
