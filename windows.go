//go:build windows

package fingerprint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// parseWmicValue extracts value from wmic output with given prefix.
func parseWmicValue(output, prefix string) (string, error) {
	lines := strings.SplitSeq(output, "\n")

	for line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			value := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			if value == "" {
				continue
			}

			return value, nil
		}
	}

	return "", fmt.Errorf("value with prefix %s: %w", prefix, ErrNotFound)
}

// parsePowerShellValue extracts a trimmed, non-empty first line from PowerShell output.
func parsePowerShellValue(output string) (string, error) {
	line, _, _ := strings.Cut(output, "\n")
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("empty value from PowerShell: %w", ErrNotFound)
	}

	return value, nil
}

// platformMemoryBytes reads TotalPhysicalMemory using wmic, with PowerShell fallback.
func platformMemoryBytes(ctx context.Context, executor CommandExecutor) (uint64, error) {
	output, err := executeCommand(ctx, executor, "wmic", "ComputerSystem", "get", "TotalPhysicalMemory", "/value")
	if err == nil {
		if value, parseErr := parseWmicValue(output, "TotalPhysicalMemory="); parseErr == nil {
			return parseMemoryValue(value, "wmic output")
		}
	}

	psOutput, psErr := executeCommand(ctx, executor, "powershell", "-Command",
		"Get-CimInstance -ClassName Win32_ComputerSystem | Select-Object -ExpandProperty TotalPhysicalMemory")
	if psErr != nil {
		return 0, fmt.Errorf("failed to get memory size: wmic: %w, powershell: %w", err, psErr)
	}

	value, err := parsePowerShellValue(psOutput)
	if err != nil {
		return 0, err
	}

	return parseMemoryValue(value, "PowerShell output")
}

func parseMemoryValue(value, source string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &ParseError{Source: source, Err: err}
	}

	return n, nil
}

// platformGPU reads the first video controller using wmic, with PowerShell fallback.
func platformGPU(ctx context.Context, executor CommandExecutor) (GPU, error) {
	output, err := executeCommand(ctx, executor, "wmic", "path", "Win32_VideoController", "get", "AdapterCompatibility,Name", "/value")
	if err == nil {
		vendor, vendorErr := parseWmicValue(output, "AdapterCompatibility=")
		name, nameErr := parseWmicValue(output, "Name=")
		if vendorErr == nil && nameErr == nil {
			return GPU{Vendor: vendor, Renderer: name}, nil
		}
	}

	psOutput, psErr := executeCommand(ctx, executor, "powershell", "-Command",
		"Get-CimInstance -ClassName Win32_VideoController | Select-Object -First 1 | ForEach-Object { $_.AdapterCompatibility; $_.Name }")
	if psErr != nil {
		return GPU{}, fmt.Errorf("failed to get video controller: wmic: %w, powershell: %w", err, psErr)
	}

	lines := strings.Split(strings.TrimSpace(psOutput), "\n")
	if len(lines) < 2 {
		return GPU{}, fmt.Errorf("video controller: %w", ErrNotFound)
	}

	return GPU{Vendor: strings.TrimSpace(lines[0]), Renderer: strings.TrimSpace(lines[1])}, nil
}

// platformFontDirs lists the system and per-user font directories.
func platformFontDirs() []string {
	windir := os.Getenv("WINDIR")
	if windir == "" {
		windir = `C:\Windows`
	}

	dirs := []string{filepath.Join(windir, "Fonts")}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
	}

	return dirs
}
