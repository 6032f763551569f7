// Package version provides build-time metadata for the fingerprint CLI.
//
// Variables can be overridden at build time using -ldflags:
//
//	go build -ldflags "\
//	  -X 'github.com/contractorwolf/browser-fingerprint/internal/version.Version=1.0.0' \
//	  -X 'github.com/contractorwolf/browser-fingerprint/internal/version.GitCommit=$(git rev-parse HEAD)'" \
//	  ./cmd/fingerprint
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// unset is the Version of a build without ldflags.
const unset = "0.0.0"

var (
	// Version is the release version
	Version = unset

	// BuildDate is the UTC build timestamp
	BuildDate = "1970-01-01T00:00:00Z"

	// GitCommit is the commit hash the binary was built from
	GitCommit = ""

	// GitBranch is the branch the binary was built from
	GitBranch = ""

	// BuildUser is the user that built the binary
	BuildUser = ""

	// GoVersion is the Go toolchain version
	GoVersion = runtime.Version()
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the one-line version banner for app. Without ldflags it
// falls back to the module version recorded by `go install`. long adds the
// build metadata.
func String(app string, long bool) string {
	var sb strings.Builder

	if Version == unset {
		if info, ok := readBuildInfo(); ok {
			fmt.Fprintf(&sb, "%s version: %s", app, info.Main.Version)
			if long {
				fmt.Fprintf(&sb, ", Git commit: %s, Go version: %s", info.Main.Sum, info.GoVersion)
			}
			sb.WriteString("\n")

			return sb.String()
		}
	}

	fmt.Fprintf(&sb, "%s version: %s", app, Version)
	if long {
		fmt.Fprintf(&sb, ", Build date: %s", BuildDate)
		fmt.Fprintf(&sb, ", Build user: %s", BuildUser)
		fmt.Fprintf(&sb, ", Git commit: %s", GitCommit)
		fmt.Fprintf(&sb, ", Git branch: %s", GitBranch)
		fmt.Fprintf(&sb, ", Go version: %s", GoVersion)
	}
	sb.WriteString("\n")

	return sb.String()
}
