package fingerprint

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// HostEnvironment answers the basic signals from the local operating system:
// locale and terminal environment variables, the Go runtime, and per-platform
// hardware sources.
type HostEnvironment struct {
	executor CommandExecutor
	getenv   func(string) string
}

// NewHostEnvironment returns a HostEnvironment that runs system commands via
// executor. A nil executor uses real commands.
func NewHostEnvironment(executor CommandExecutor) *HostEnvironment {
	return &HostEnvironment{
		executor: executor,
		getenv:   os.Getenv,
	}
}

// UserAgent identifies the runtime, e.g. "Go/1.25.0 (linux; amd64)".
func (h *HostEnvironment) UserAgent() string {
	return fmt.Sprintf("Go/%s (%s; %s)", strings.TrimPrefix(runtime.Version(), "go"), runtime.GOOS, runtime.GOARCH)
}

// Language returns the primary locale as a BCP 47 tag, e.g. "en-US".
func (h *HostEnvironment) Language() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag := localeToTag(h.getenv(key)); tag != "" {
			return tag
		}
	}

	return ""
}

// Languages returns the preferred locales from LANGUAGE, or the primary one.
func (h *HostEnvironment) Languages() []string {
	var tags []string
	for _, locale := range strings.Split(h.getenv("LANGUAGE"), ":") {
		if tag := localeToTag(locale); tag != "" {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		if tag := h.Language(); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// TimeZone returns the IANA zone name from TZ, the local zone, or /etc/localtime.
func (h *HostEnvironment) TimeZone() string {
	if tz := strings.TrimPrefix(h.getenv("TZ"), ":"); tz != "" {
		return tz
	}

	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}

	target, err := os.Readlink("/etc/localtime")
	if err != nil {
		return ""
	}

	if _, zone, ok := strings.Cut(filepath.ToSlash(target), "zoneinfo/"); ok {
		return zone
	}

	return ""
}

// Screen reports the terminal size and color depth.
func (h *HostEnvironment) Screen() Screen {
	atoi := func(key string) int {
		n, err := strconv.Atoi(strings.TrimSpace(h.getenv(key)))
		if err != nil || n < 0 {
			return 0
		}

		return n
	}

	return Screen{
		Width:      atoi("COLUMNS"),
		Height:     atoi("LINES"),
		ColorDepth: colorDepth(h.getenv("COLORTERM"), h.getenv("TERM")),
		PixelRatio: 1,
	}
}

// Hardware reports the logical CPU count and total memory in GiB.
func (h *HostEnvironment) Hardware(ctx context.Context) Hardware {
	cores := runtime.NumCPU()
	hw := Hardware{Cores: &cores}

	if bytes, err := platformMemoryBytes(ctx, h.executor); err == nil && bytes > 0 {
		gib := math.Round(float64(bytes)/(1<<30)*10) / 10
		hw.DeviceMemory = &gib
	}

	return hw
}

// Features reports whether the user config directory and the temp directory
// are writable and whether a user cache directory exists.
func (h *HostEnvironment) Features() Features {
	var f Features

	if dir, err := os.UserConfigDir(); err == nil {
		f.LocalStorage = isWritableDir(dir)
	}
	f.SessionStorage = isWritableDir(os.TempDir())
	if dir, err := os.UserCacheDir(); err == nil {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			f.IndexedDB = true
		}
	}

	return f
}

// localeToTag converts a POSIX locale such as "en_US.UTF-8@euro" to "en-US".
// "C" and "POSIX" carry no language and return "".
func localeToTag(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}

	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}

	return strings.ReplaceAll(locale, "_", "-")
}

// colorDepth maps terminal capabilities to bits per pixel.
func colorDepth(colorterm, term string) int {
	switch strings.ToLower(colorterm) {
	case "truecolor", "24bit":
		return 24
	}

	switch {
	case strings.Contains(term, "256color"):
		return 8
	case term != "" && term != "dumb":
		return 4
	default:
		return 0
	}
}

// isWritableDir reports whether a file can be created and removed in dir.
func isWritableDir(dir string) bool {
	f, err := os.CreateTemp(dir, ".fingerprint-*")
	if err != nil {
		return false
	}

	name := f.Name()
	f.Close()

	return os.Remove(name) == nil
}
