//go:build !linux && !darwin && !windows

package fingerprint

import (
	"context"
	"os"
	"path/filepath"
)

func platformMemoryBytes(context.Context, CommandExecutor) (uint64, error) {
	return 0, ErrNotSupported
}

func platformGPU(context.Context, CommandExecutor) (GPU, error) {
	return GPU{}, ErrNotSupported
}

func platformFontDirs() []string {
	dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts", "/usr/X11R6/lib/X11/fonts"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"))
	}

	return dirs
}
