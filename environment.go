package fingerprint

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Screen describes the display surface.
type Screen struct {
	Width      int
	Height     int
	ColorDepth int
	PixelRatio float64
}

// Hardware describes processor and memory capacity.
// A nil field means the environment could not answer.
type Hardware struct {
	Cores        *int
	DeviceMemory *float64 // GiB
}

// Features reports the availability of storage facilities.
type Features struct {
	LocalStorage   bool
	SessionStorage bool
	IndexedDB      bool
}

// Environment answers the basic signal queries. They are expected not to
// fail; an empty answer is recorded as the type's empty value.
type Environment interface {
	UserAgent() string
	Language() string
	Languages() []string
	TimeZone() string
	Screen() Screen
	Hardware(ctx context.Context) Hardware
	Features() Features
}

// basicRecord queries env and returns the basic part of the record with
// absent answers normalized to "", 0, 1 (pixel ratio) or nil. Text that is
// not valid UTF-8 becomes nil.
func basicRecord(ctx context.Context, env Environment) Record {
	screen := env.Screen()
	pixelRatio := screen.PixelRatio
	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	hw := env.Hardware(ctx)
	var cores, memory any
	if hw.Cores != nil && *hw.Cores > 0 {
		cores = int64(*hw.Cores)
	}
	if hw.DeviceMemory != nil && *hw.DeviceMemory > 0 {
		memory = *hw.DeviceMemory
	}

	features := env.Features()

	return Record{
		SignalUserAgent: text(env.UserAgent()),
		SignalLanguage:  text(env.Language()),
		SignalLanguages: text(strings.Join(env.Languages(), ",")),
		SignalTimeZone:  text(env.TimeZone()),
		SignalScreen: Record{
			"width":      int64(screen.Width),
			"height":     int64(screen.Height),
			"colorDepth": int64(screen.ColorDepth),
			"pixelRatio": pixelRatio,
		},
		SignalHardware: Record{
			"cores":        cores,
			"deviceMemory": memory,
		},
		SignalFeatures: Record{
			"localStorage":   features.LocalStorage,
			"sessionStorage": features.SessionStorage,
			"indexedDB":      features.IndexedDB,
		},
	}
}

// text returns s, or nil when s is not valid UTF-8.
func text(s string) any {
	if !utf8.ValidString(s) {
		return nil
	}

	return s
}
