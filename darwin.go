//go:build darwin

package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// spDisplaysDataType represents the JSON output of `system_profiler SPDisplaysDataType -json`.
type spDisplaysDataType struct {
	SPDisplaysDataType []spDisplaysEntry `json:"SPDisplaysDataType"`
}

type spDisplaysEntry struct {
	Name     string `json:"_name"`
	Model    string `json:"sppci_model"`
	Vendor   string `json:"spdisplays_vendor"`
	VendorID string `json:"spdisplays_vendor-id"`
}

// platformMemoryBytes reads hw.memsize via sysctl.
func platformMemoryBytes(ctx context.Context, executor CommandExecutor) (uint64, error) {
	output, err := executeCommand(ctx, executor, "sysctl", "-n", "hw.memsize")
	if err != nil {
		return 0, fmt.Errorf("failed to get memory size: %w", err)
	}

	n, err := strconv.ParseUint(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, &ParseError{Source: "sysctl hw.memsize", Err: err}
	}

	return n, nil
}

// platformGPU reads the first display adapter from system_profiler.
func platformGPU(ctx context.Context, executor CommandExecutor) (GPU, error) {
	output, err := executeCommand(ctx, executor, "system_profiler", "SPDisplaysDataType", "-json")
	if err != nil {
		return GPU{}, fmt.Errorf("failed to get display info: %w", err)
	}

	return parseDisplaysJSON(output)
}

// parseDisplaysJSON extracts vendor and model of the first display adapter.
func parseDisplaysJSON(jsonOutput string) (GPU, error) {
	var displays spDisplaysDataType
	if err := json.Unmarshal([]byte(jsonOutput), &displays); err != nil {
		return GPU{}, &ParseError{Source: "system_profiler JSON", Err: err}
	}

	for _, entry := range displays.SPDisplaysDataType {
		renderer := entry.Model
		if renderer == "" {
			renderer = entry.Name
		}
		if renderer == "" {
			continue
		}

		vendor := strings.TrimPrefix(entry.Vendor, "sppci_vendor_")
		if vendor == "" {
			vendor = entry.VendorID
		}

		return GPU{Vendor: vendor, Renderer: renderer}, nil
	}

	return GPU{}, fmt.Errorf("display adapter: %w", ErrNotFound)
}

// platformFontDirs lists the standard macOS font locations.
func platformFontDirs() []string {
	dirs := []string{
		"/System/Library/Fonts",
		"/System/Library/Fonts/Supplemental",
		"/Library/Fonts",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
	}

	return dirs
}
