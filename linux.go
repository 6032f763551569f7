//go:build linux

package fingerprint

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// pciVendors names the PCI vendor IDs of common GPU makers.
var pciVendors = map[string]string{
	"0x10de": "NVIDIA Corporation",
	"0x1002": "Advanced Micro Devices, Inc.",
	"0x8086": "Intel Corporation",
	"0x1af4": "Red Hat, Inc.",
	"0x15ad": "VMware",
	"0x1234": "QEMU",
	"0x80ee": "InnoTek Systemberatung GmbH",
}

// platformMemoryBytes reads MemTotal from /proc/meminfo.
func platformMemoryBytes(_ context.Context, _ CommandExecutor) (uint64, error) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, err
	}

	return parseMemInfo(string(data))
}

// parseMemInfo extracts MemTotal (reported in kB) from /proc/meminfo content.
func parseMemInfo(content string) (uint64, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "MemTotal" {
			continue
		}

		fields := strings.Fields(value)
		if len(fields) == 0 {
			break
		}

		kb, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return 0, &ParseError{Source: "/proc/meminfo", Err: err}
		}

		return kb * 1024, nil
	}

	return 0, fmt.Errorf("MemTotal: %w", ErrNotFound)
}

// platformGPU reads the first DRM card's PCI IDs from /sys and resolves the
// device name with lspci when available.
func platformGPU(ctx context.Context, executor CommandExecutor) (GPU, error) {
	cards, err := filepath.Glob("/sys/class/drm/card[0-9]*/device")
	if err != nil || len(cards) == 0 {
		return GPU{}, fmt.Errorf("drm device: %w", ErrNotFound)
	}
	sort.Strings(cards)

	for _, card := range cards {
		vendorID, err := readFirstValidFromLocations([]string{filepath.Join(card, "vendor")}, isNonEmpty)
		if err != nil {
			continue
		}
		deviceID, err := readFirstValidFromLocations([]string{filepath.Join(card, "device")}, isNonEmpty)
		if err != nil {
			continue
		}

		return GPU{
			Vendor:   pciVendorName(vendorID),
			Renderer: linuxGPURenderer(ctx, executor, vendorID, deviceID),
		}, nil
	}

	return GPU{}, fmt.Errorf("drm vendor/device: %w", ErrNotFound)
}

// linuxGPURenderer asks lspci for the device name and falls back to the raw IDs.
func linuxGPURenderer(ctx context.Context, executor CommandExecutor, vendorID, deviceID string) string {
	vendor := strings.TrimPrefix(vendorID, "0x")
	device := strings.TrimPrefix(deviceID, "0x")

	output, err := executeCommand(ctx, executor, "lspci", "-mm", "-d", vendor+":"+device)
	if err == nil {
		if name, ok := parseLspciDevice(output); ok {
			return name
		}
	}

	return vendor + ":" + device
}

// parseLspciDevice extracts the device name (fourth quoted field) from the
// first line of `lspci -mm` output.
func parseLspciDevice(output string) (string, bool) {
	line, _, _ := strings.Cut(output, "\n")

	fields := strings.Split(line, "\"")
	// slot "class" "vendor" "device" ...
	if len(fields) < 7 {
		return "", false
	}

	name := strings.TrimSpace(fields[5])

	return name, name != ""
}

func pciVendorName(id string) string {
	if name, ok := pciVendors[strings.ToLower(id)]; ok {
		return name
	}

	return id
}

// platformFontDirs lists the directories fontconfig searches by default.
func platformFontDirs() []string {
	dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "fonts"))
	}

	return dirs
}

// readFirstValidFromLocations reads from multiple locations until valid value found
func readFirstValidFromLocations(locations []string, validator func(string) bool) (string, error) {
	for _, location := range locations {
		data, err := os.ReadFile(location)
		if err == nil {
			value := strings.TrimSpace(string(data))
			if validator(value) {
				return value, nil
			}
		}
	}

	return "", ErrNotFound
}

// isNonEmpty checks if value is not empty
func isNonEmpty(value string) bool {
	return value != ""
}
