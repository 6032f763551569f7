package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	fingerprint "github.com/contractorwolf/browser-fingerprint"
	"github.com/contractorwolf/browser-fingerprint/internal/config"
	"github.com/contractorwolf/browser-fingerprint/internal/version"
)

const applicationName = "fingerprint"

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")

	// Collection options
	consent := flag.Bool("consent", false, "Ask for consent on stdin before collecting")
	probes := flag.String("probes", "", "Comma-separated advanced probes: canvasHash,fonts,webgl,audioHash")
	fonts := flag.String("fonts", "", "Comma-separated font families for the fonts probe")
	timeout := flag.Duration("timeout", config.DefaultProbeTimeout, "Deadline for each advanced probe (0 disables)")

	// Output options
	format := flag.String("format", config.DefaultFormat, "Output format: 32, 64, 128, 256 or cid")
	digest := flag.String("digest", config.DefaultDigest, "Digest algorithm: sha256 or sha3-256")
	salt := flag.String("salt", "", "Custom salt for application-specific fingerprints")

	// Actions
	validate := flag.String("validate", "", "Validate a fingerprint against the current environment")
	record := flag.Bool("record", false, "Print the canonical signal record to stderr")
	diagnostics := flag.Bool("diagnostics", false, "Show diagnostic information about collected signals")
	jsonOutput := flag.Bool("json", false, "Output result as JSON")
	verbose := flag.Bool("verbose", false, "Log pipeline events to stderr")

	// Info flags
	versionFlag := flag.Bool("version", false, "Show version information")
	versionLongFlag := flag.Bool("version.long", false, "Show detailed version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fingerprint - Derive a stable identifier for this runtime environment\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  fingerprint [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fingerprint                                   Fingerprint with all default probes\n")
		fmt.Fprintf(os.Stderr, "  fingerprint -format 32 -salt \"my-app\"          Compact, application-specific\n")
		fmt.Fprintf(os.Stderr, "  fingerprint -consent                          Ask before collecting\n")
		fmt.Fprintf(os.Stderr, "  fingerprint -probes fonts,audioHash -record   Restrict probes, show record\n")
		fmt.Fprintf(os.Stderr, "  fingerprint -validate <id>                    Validate an existing fingerprint\n")
		fmt.Fprintf(os.Stderr, "  fingerprint -config fingerprint.yaml -json    Load settings, output JSON\n")
		fmt.Fprintf(os.Stderr, "  fingerprint -version.long                     Show detailed version\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Print(versionString(false))
		os.Exit(0)
	}

	if *versionLongFlag {
		fmt.Print(versionString(true))
		os.Exit(0)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg = overrideConfig(cfg, set, flagValues{
		consent: *consent,
		probes:  *probes,
		fonts:   *fonts,
		timeout: *timeout,
		format:  *format,
		digest:  *digest,
		salt:    *salt,
	})

	provider := fingerprint.New()
	if err := cfg.Apply(provider); err != nil {
		slog.Error("invalid configuration", "error", err)
		flag.Usage()
		os.Exit(1)
	}

	if cfg.RequireConsent {
		provider.WithConsent(fingerprint.PromptConsent(os.Stdin, os.Stderr, ""))
	}

	if *verbose {
		provider.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	res := provider.Run(context.Background())
	if res.Aborted() {
		slog.Error("failed to generate fingerprint", "state", res.AbortedIn, "error", res.Err)
		os.Exit(1)
	}

	if *record {
		fmt.Fprintln(os.Stderr, string(res.Canonical))
	}

	if *validate != "" {
		handleValidate(os.Stdout, res, *validate, *jsonOutput)
		return
	}

	if *jsonOutput {
		output := map[string]any{
			"fingerprint": res.Fingerprint,
			"format":      cfg.Format,
			"digest":      cfg.Digest,
			"length":      len(res.Fingerprint),
		}
		if *diagnostics {
			output["diagnostics"] = formatDiagnostics(res)
		}
		printJSON(os.Stdout, output)
		return
	}

	fmt.Println(res.Fingerprint)

	if *diagnostics {
		printDiagnostics(os.Stderr, res)
	}
}

// flagValues carries the parsed command-line values that may override the file.
type flagValues struct {
	consent bool
	probes  string
	fonts   string
	timeout time.Duration
	format  string
	digest  string
	salt    string
}

// overrideConfig applies the flags the user set explicitly on top of cfg.
func overrideConfig(cfg config.Config, set map[string]bool, v flagValues) config.Config {
	if set["consent"] {
		cfg.RequireConsent = v.consent
	}
	if set["probes"] {
		cfg.Probes = splitList(v.probes)
	}
	if set["fonts"] {
		cfg.Fonts = splitList(v.fonts)
	}
	if set["timeout"] {
		cfg.ProbeTimeout = v.timeout
	}
	if set["format"] {
		cfg.Format = v.format
	}
	if set["digest"] {
		cfg.Digest = v.digest
	}
	if set["salt"] {
		cfg.Salt = v.salt
	}

	return cfg
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

func versionString(long bool) string {
	return version.String(applicationName, long)
}

func handleValidate(w io.Writer, res *fingerprint.Result, expectedID string, jsonOut bool) {
	valid := res.Fingerprint == expectedID

	if jsonOut {
		printJSON(w, map[string]any{
			"valid":      valid,
			"expectedID": expectedID,
		})
		if !valid {
			os.Exit(1)
		}
		return
	}

	if valid {
		fmt.Fprintln(w, "valid: fingerprint matches")
	} else {
		fmt.Fprintln(w, "invalid: fingerprint does not match")
		os.Exit(1)
	}
}

func printDiagnostics(w io.Writer, res *fingerprint.Result) {
	diag := res.Diagnostics
	if diag == nil {
		fmt.Fprintln(w, "no diagnostic information available")
		return
	}

	fmt.Fprintln(w, "\nDiagnostics:")
	if len(diag.Collected) > 0 {
		fmt.Fprintf(w, "  Collected: %s\n", strings.Join(diag.Collected, ", "))
	}
	if len(diag.Errors) > 0 {
		fmt.Fprintln(w, "  Errors:")
		for _, name := range sortedKeys(diag.Errors) {
			fmt.Fprintf(w, "    %s: %v\n", name, diag.Errors[name])
		}
	}
}

func formatDiagnostics(res *fingerprint.Result) map[string]any {
	diag := res.Diagnostics
	if diag == nil {
		return nil
	}

	result := map[string]any{
		"collected": diag.Collected,
		"state":     res.State.String(),
	}

	if len(diag.Errors) > 0 {
		errors := make(map[string]string, len(diag.Errors))
		for name, err := range diag.Errors {
			errors[name] = err.Error()
		}
		result["errors"] = errors
	}

	return result
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode JSON", "error", err)
		os.Exit(1)
	}
}
