// Package version exposes build metadata stamped at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time:
//
//	go build -ldflags "-X github.com/HerbHall/wispgate/internal/version.Version=v0.3.0 ..."
var (
	Version = "dev"     // Semantic version of the release, or "dev"
	Commit  = "unknown" // Short git commit hash
	Date    = "unknown" // Build date, RFC 3339
)

// Short returns the bare version string, e.g. "v0.3.0" or "dev".
func Short() string {
	return Version
}

// Info returns a single-line human-readable build description.
func Info() string {
	return fmt.Sprintf("wispgate %s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}

// Map returns build metadata as a map for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"go":      runtime.Version(),
	}
}
