// Package fingerprint derives a stable, deterministic identifier for a client
// runtime environment from environment-observable signals: display, hardware,
// storage features, rendering output, audio-rendering output and installed
// fonts.
//
// # Overview
//
// A [Provider] runs a pipeline of four stages:
//
//  1. Consent check (optional): a [ConsentFunc] must permit collection.
//  2. Collection: basic signals are read inline from an [Environment]; each
//     advanced [Probe] runs concurrently behind a fault-isolation wrapper, so a
//     failing, panicking or hung probe only degrades its own signal to null.
//  3. Canonicalization: the [Record] is serialized by [Canonicalize] into
//     compact JSON with every mapping's keys sorted byte-wise. Sequence order
//     is kept.
//  4. Digesting: the canonical bytes are hashed with a [Digester] (SHA-256 by
//     default). If the primitive is unavailable the fingerprint is the literal
//     [SentinelDigestUnavailable].
//
// # Quick Start
//
//	id, ok := fingerprint.New().Fingerprint(ctx)
//	if !ok {
//		// consent denied or the pipeline aborted
//	}
//
// # Consent
//
// Consent gating is off by default. Enable it with [Provider.WithConsent]; a
// denied gate aborts the run before any probe is called:
//
//	id, ok := fingerprint.New().
//		WithConsent(fingerprint.PromptConsent(os.Stdin, os.Stderr, "")).
//		Fingerprint(ctx)
//
// # Probes
//
// The default advanced probes are [CanvasProbe], [FontProbe], [WebGLProbe] and
// [AudioProbe]. Add or replace probes with [Provider.WithProbe], remove one with
// [Provider.WithoutProbe], or replace the list with [Provider.WithProbes]:
//
//	p := fingerprint.New().WithProbe(fingerprint.NewProbe("gpuDriver", "gpu driver",
//		func(ctx context.Context) (any, error) { return driverVersion(ctx) }))
//
// Each probe runs under a deadline ([Provider.WithProbeTimeout], 5s by
// default). A probe that misses it is recorded as failed.
//
// The canvas and audio probes hash their renderings with the Provider's
// digester, so [Provider.WithDigester] changes those signals too. Probes
// sharing a signal name collapse into the last one registered.
//
// # Output Formats
//
// Set the output shape with [Provider.WithFormat]:
//
//   - [Format32]: 32 hex characters (truncated digest)
//   - [Format64]: 64 hex characters (full digest, default)
//   - [Format128]: 128 hex characters (digest plus one re-hash)
//   - [Format256]: 256 hex characters (digest plus three chained re-hashes)
//   - [FormatCID]: CIDv1 string wrapping the digest as a multihash
//
// [Provider.WithSalt] mixes an application-specific string into the digest
// input so that two applications observe different fingerprints.
//
// # Diagnostics
//
// [Provider.WithLogger] sets a [*slog.Logger] as the diagnostics sink. A nil
// logger (the default) disables logging. [Provider.Run] returns a [Result]
// holding the record, its canonical form, the final [State] and a
// [DiagnosticInfo] with per-signal errors.
//
// # Thread Safety
//
// A [Provider] holds configuration only. Every run builds its own record, so
// concurrent calls to [Provider.Run] are independent.
//
// # Testing
//
// Substitute an [Environment] with [Provider.WithEnvironment] and stub probes
// with [NewProbe] to make runs fully deterministic. System commands used by
// the host probes can be replaced with [Provider.WithExecutor].
//
// # CLI Tool
//
// A command-line tool is provided in cmd/fingerprint:
//
//	fingerprint
//	fingerprint -format 32 -salt "my-app" -json
//	fingerprint -consent -diagnostics
//	fingerprint -config fingerprint.yaml -record
//	fingerprint -version.long
package fingerprint
