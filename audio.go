package fingerprint

import (
	"math"
	"strconv"
	"strings"
)

// Offline audio rendering parameters.
const (
	audioSampleRate = 44100
	audioLength     = 44100 // one second of mono samples
	audioFrequency  = 10000.0
	audioGain       = 0.001
	audioStop       = 0.1 // oscillator stops after 100ms
	audioStride     = 1000
)

// renderTriangle renders a triangle oscillator through a gain stage into a
// float32 buffer, as an offline audio graph would.
func renderTriangle() []float32 {
	buf := make([]float32, audioLength)
	stop := int(math.Round(audioStop * audioSampleRate))

	for i := 0; i < stop && i < len(buf); i++ {
		phase := math.Mod(audioFrequency*float64(i)/audioSampleRate, 1)
		buf[i] = float32(triangle(phase) * audioGain)
	}

	return buf
}

// triangle returns a unit triangle wave at phase in [0,1), starting at 0 and rising.
func triangle(phase float64) float64 {
	switch {
	case phase < 0.25:
		return 4 * phase
	case phase < 0.75:
		return 2 - 4*phase
	default:
		return 4*phase - 4
	}
}

// audioFingerprint samples every audioStride-th rendered sample with five
// decimals and returns the hex digest of the concatenation under d.
func audioFingerprint(d Digester) (string, error) {
	samples := renderTriangle()

	var sb strings.Builder
	for i := 0; i < len(samples); i += audioStride {
		v := float64(samples[i])
		if v == 0 {
			v = 0
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', 5, 64))
	}

	return hexDigest(d, []byte(sb.String()))
}
