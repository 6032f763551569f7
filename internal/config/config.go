// Package config loads fingerprint settings from a YAML file and applies them
// to a [fingerprint.Provider].
//
// Example file:
//
//	require_consent: true
//	salt: my-app-v1
//	format: "64"        # 32, 64, 128, 256 or cid
//	digest: sha256      # sha256 or sha3-256
//	probe_timeout: 3s
//	probes: [canvasHash, fonts, webgl, audioHash]
//	fonts: [Arial, Courier New]
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	fingerprint "github.com/contractorwolf/browser-fingerprint"
)

// Defaults applied by [Default].
const (
	DefaultFormat       = "64"
	DefaultDigest       = "sha256"
	DefaultProbeTimeout = 5 * time.Second
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the file representation of a Provider's settings.
type Config struct {
	RequireConsent bool          `yaml:"require_consent"`
	Salt           string        `yaml:"salt,omitempty"`
	Format         string        `yaml:"format,omitempty"`
	Digest         string        `yaml:"digest,omitempty"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout,omitempty"`
	// Probes lists the advanced signals to collect; empty means all defaults.
	Probes []string `yaml:"probes,omitempty"`
	// Fonts overrides the font families checked by the fonts probe.
	Fonts []string `yaml:"fonts,omitempty"`
}

// Default returns the configuration matching [fingerprint.New].
func Default() Config {
	return Config{
		Format:       DefaultFormat,
		Digest:       DefaultDigest,
		ProbeTimeout: DefaultProbeTimeout,
	}
}

// Parse decodes YAML content over the defaults and validates the result.
func Parse(content []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks format, digest, timeout and probe names.
func (c Config) Validate() error {
	if _, err := ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if _, err := fingerprint.DigesterByName(c.Digest); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if c.ProbeTimeout < 0 {
		return fmt.Errorf("%w: probe_timeout must not be negative, got %s", ErrInvalid, c.ProbeTimeout)
	}

	seen := make(map[string]bool, len(c.Probes))
	for _, name := range c.Probes {
		if _, ok := fingerprint.ProbeByName(name, nil, nil, nil); !ok {
			return fmt.Errorf("%w: unknown probe %q", ErrInvalid, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: probe %q listed twice", ErrInvalid, name)
		}
		seen[name] = true
	}

	return nil
}

// ParseFormat converts the textual format ("32", "64", "128", "256", "cid")
// into a [fingerprint.FormatMode]. An empty string selects Format64.
func ParseFormat(format string) (fingerprint.FormatMode, error) {
	switch format {
	case "", "64":
		return fingerprint.Format64, nil
	case "32":
		return fingerprint.Format32, nil
	case "128":
		return fingerprint.Format128, nil
	case "256":
		return fingerprint.Format256, nil
	case "cid":
		return fingerprint.FormatCID, nil
	default:
		return 0, fmt.Errorf("unsupported format %q; valid values are 32, 64, 128, 256, cid", format)
	}
}

// Apply validates c and configures p from it. A non-empty probe or font
// list replaces the advanced probes of p.
func (c Config) Apply(p *fingerprint.Provider) error {
	if err := c.Validate(); err != nil {
		return err
	}

	mode, _ := ParseFormat(c.Format)
	digester, _ := fingerprint.DigesterByName(c.Digest)

	p.WithFormat(mode).
		WithDigester(digester).
		WithSalt(c.Salt).
		WithProbeTimeout(c.ProbeTimeout).
		RequireConsent(c.RequireConsent)

	if len(c.Probes) > 0 || len(c.Fonts) > 0 {
		names := c.Probes
		if len(names) == 0 {
			names = []string{
				fingerprint.SignalCanvasHash,
				fingerprint.SignalFonts,
				fingerprint.SignalWebGL,
				fingerprint.SignalAudioHash,
			}
		}

		probes := make([]fingerprint.Probe, 0, len(names))
		for _, name := range names {
			probe, _ := fingerprint.ProbeByName(name, p.Executor(), p.Digester(), c.Fonts)
			probes = append(probes, probe)
		}
		p.WithProbes(probes...)
	}

	return nil
}
