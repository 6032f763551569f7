package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	fingerprint "github.com/contractorwolf/browser-fingerprint"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Format != DefaultFormat || cfg.Digest != DefaultDigest || cfg.ProbeTimeout != DefaultProbeTimeout {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.RequireConsent {
		t.Error("Default() should not require consent")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestParse(t *testing.T) {
	content := []byte(`
require_consent: true
salt: my-app-v1
format: "128"
digest: sha3-256
probe_timeout: 3s
probes: [fonts, audioHash]
fonts:
  - Arial
  - Courier New
`)

	cfg, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Config{
		RequireConsent: true,
		Salt:           "my-app-v1",
		Format:         "128",
		Digest:         "sha3-256",
		ProbeTimeout:   3 * time.Second,
		Probes:         []string{"fonts", "audioHash"},
		Fonts:          []string{"Arial", "Courier New"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Parse() = %+v, want %+v", cfg, want)
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("salt: only-salt\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Default()
	want.Salt = "only-salt"
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Parse() = %+v, want %+v", cfg, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"malformed YAML", "format: [unterminated", false},
		{"bad format", `format: "48"`, true},
		{"bad digest", "digest: md5", true},
		{"negative timeout", "probe_timeout: -1s", true},
		{"unknown probe", "probes: [battery]", true},
		{"basic signal as probe", "probes: [timeZone]", true},
		{"duplicate probe", "probes: [fonts, fonts]", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if errors.Is(err, ErrInvalid) != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err %v)", !tt.invalid, tt.invalid, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fingerprint.yaml")
	if err := os.WriteFile(path, []byte("format: cid\ndigest: sha256\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "cid" {
		t.Errorf("Format = %q, want cid", cfg.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("digest: crc32\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), path) {
		t.Errorf("Load(bad) error = %v, want ErrInvalid naming the file", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    fingerprint.FormatMode
		wantErr bool
	}{
		{"", fingerprint.Format64, false},
		{"32", fingerprint.Format32, false},
		{"64", fingerprint.Format64, false},
		{"128", fingerprint.Format128, false},
		{"256", fingerprint.Format256, false},
		{"cid", fingerprint.FormatCID, false},
		{"16", 0, true},
		{"512", 0, true},
		{"-1", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Salt = "tenant"
	cfg.Format = "32"
	cfg.Probes = []string{fingerprint.SignalAudioHash, fingerprint.SignalCanvasHash}

	p := fingerprint.New()
	if err := cfg.Apply(p); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	signals := p.Signals()
	tail := signals[len(signals)-2:]
	if !reflect.DeepEqual(tail, []string{fingerprint.SignalAudioHash, fingerprint.SignalCanvasHash}) {
		t.Errorf("Signals() = %v, want probes in configured order", signals)
	}
	if len(signals) != 9 {
		t.Errorf("len(Signals()) = %d, want 7 basic plus 2 probes", len(signals))
	}

	id, ok := p.Fingerprint(context.Background())
	if !ok || len(id) != 32 {
		t.Errorf("Fingerprint() = (%q, %v), want 32 characters", id, ok)
	}

	salted, _ := fingerprint.New().WithFormat(fingerprint.Format32).Fingerprint(context.Background())
	if salted == id {
		t.Error("configured salt and probes did not change the fingerprint")
	}
}

func TestApplyFontsOnly(t *testing.T) {
	cfg := Default()
	cfg.Fonts = []string{"Arial"}

	p := fingerprint.New()
	if err := cfg.Apply(p); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := fingerprint.New().Signals()
	if got := p.Signals(); !reflect.DeepEqual(got, want) {
		t.Errorf("Signals() = %v, want the default signals %v", got, want)
	}
}

func TestApplyRequireConsent(t *testing.T) {
	cfg := Default()
	cfg.RequireConsent = true

	p := fingerprint.New()
	if err := cfg.Apply(p); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// No gate configured: consent is denied.
	res := p.Run(context.Background())
	if !errors.Is(res.Err, fingerprint.ErrConsentDenied) {
		t.Errorf("Run() error = %v, want ErrConsentDenied", res.Err)
	}
}

func TestApplyInvalid(t *testing.T) {
	cfg := Default()
	cfg.Digest = "md5"

	if err := cfg.Apply(fingerprint.New()); !errors.Is(err, ErrInvalid) {
		t.Errorf("Apply() error = %v, want ErrInvalid", err)
	}
}
