package fingerprint

import "context"

// DefaultFonts are the font families checked by the default font probe.
var DefaultFonts = []string{"Arial", "Courier New", "Times New Roman", "NonExistentFont"}

// GPU identifies the primary graphics adapter.
type GPU struct {
	Vendor   string
	Renderer string
}

// DefaultProbes returns the canvas, font, GPU and audio probes in that order.
// System commands run through executor; nil uses real commands. The canvas
// and audio renderings are hashed with digester; nil uses SHA-256.
func DefaultProbes(executor CommandExecutor, digester Digester) []Probe {
	return []Probe{
		CanvasProbe(digester),
		FontProbe(DefaultFonts...),
		WebGLProbe(executor),
		AudioProbe(digester),
	}
}

// CanvasProbe hashes a PNG rendering of a fixed scene with d.
// A nil d uses SHA-256; an unavailable one fails the probe.
func CanvasProbe(d Digester) Probe {
	return NewProbe(SignalCanvasHash, "canvas fingerprint", func(ctx context.Context) (any, error) {
		return canvasFingerprint(d)
	})
}

// FontProbe reports which of the candidate font families are installed, in
// candidate order. With no candidates it checks [DefaultFonts].
func FontProbe(candidates ...string) Probe {
	if len(candidates) == 0 {
		candidates = DefaultFonts
	}
	candidates = append([]string(nil), candidates...)

	return NewProbe(SignalFonts, "font detection", func(ctx context.Context) (any, error) {
		return detectFonts(ctx, candidates, platformFontDirs())
	})
}

// WebGLProbe reports the vendor and renderer of the primary GPU.
func WebGLProbe(executor CommandExecutor) Probe {
	return NewProbe(SignalWebGL, "webgl info", func(ctx context.Context) (any, error) {
		gpu, err := platformGPU(ctx, executor)
		if err != nil {
			return nil, err
		}

		return Record{"vendor": gpu.Vendor, "renderer": gpu.Renderer}, nil
	})
}

// AudioProbe hashes an offline rendering of a quiet triangle oscillator
// with d. A nil d uses SHA-256; an unavailable one fails the probe.
func AudioProbe(d Digester) Probe {
	return NewProbe(SignalAudioHash, "audio fingerprint", func(ctx context.Context) (any, error) {
		return audioFingerprint(d)
	})
}

// ProbeByName returns the default probe populating signal.
func ProbeByName(signal string, executor CommandExecutor, digester Digester, fonts []string) (Probe, bool) {
	switch signal {
	case SignalCanvasHash:
		return CanvasProbe(digester), true
	case SignalFonts:
		return FontProbe(fonts...), true
	case SignalWebGL:
		return WebGLProbe(executor), true
	case SignalAudioHash:
		return AudioProbe(digester), true
	default:
		return nil, false
	}
}
