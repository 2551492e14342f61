package params

import "fmt"

const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// Version holds the textual version string.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// VersionWithCommit appends build metadata to the version string when the
// binary was built with -ldflags "-X main.gitCommit=... -X main.gitDate=...".
func VersionWithCommit(gitCommit, gitDate string) string {
	version := Version
	if len(gitCommit) >= 8 {
		version += "-" + gitCommit[:8]
	}
	if gitDate != "" {
		version += "-" + gitDate
	}
	return version
}
