package fingerprint

import "context"

// Signal names of the default record.
const (
	SignalUserAgent  = "userAgent"
	SignalLanguage   = "language"
	SignalLanguages  = "languages"
	SignalTimeZone   = "timeZone"
	SignalScreen     = "screen"
	SignalHardware   = "hardware"
	SignalFeatures   = "features"
	SignalCanvasHash = "canvasHash"
	SignalFonts      = "fonts"
	SignalWebGL      = "webgl"
	SignalAudioHash  = "audioHash"
)

// basicSignals lists the signals answered inline by the [Environment].
var basicSignals = []string{
	SignalUserAgent,
	SignalLanguage,
	SignalLanguages,
	SignalTimeZone,
	SignalScreen,
	SignalHardware,
	SignalFeatures,
}

// Probe samples one advanced environment signal.
//
// Collect may block; it should return once ctx is done. Any error, panic or
// value that [Normalize] rejects degrades the signal to nil in the record.
type Probe interface {
	// Signal returns the record key the probe populates.
	Signal() string
	// Label returns a human-readable name used in diagnostics.
	Label() string
	// Collect samples the signal.
	Collect(ctx context.Context) (any, error)
}

// ProbeFunc adapts a function to the Collect method of a [Probe].
type ProbeFunc func(ctx context.Context) (any, error)

type funcProbe struct {
	signal string
	label  string
	fn     ProbeFunc
}

// NewProbe returns a [Probe] that populates signal by calling fn.
// An empty label defaults to the signal name.
func NewProbe(signal, label string, fn ProbeFunc) Probe {
	if label == "" {
		label = signal
	}

	return &funcProbe{signal: signal, label: label, fn: fn}
}

func (p *funcProbe) Signal() string { return p.signal }
func (p *funcProbe) Label() string  { return p.label }

func (p *funcProbe) Collect(ctx context.Context) (any, error) {
	if p.fn == nil {
		return nil, nil
	}

	return p.fn(ctx)
}

func isBasicSignal(signal string) bool {
	for _, s := range basicSignals {
		if s == signal {
			return true
		}
	}

	return false
}
