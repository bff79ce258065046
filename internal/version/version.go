// SPDX-License-Identifier: MIT

// Package version holds build metadata injected with -ldflags.
package version

import "fmt"

var (
	// Version is the release version of the binary.
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the version, adding commit and date when the build set them.
func String() string {
	if Commit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
