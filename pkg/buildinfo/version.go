// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/chartoverlay/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/chartoverlay/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/chartoverlay/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the three fields on separate lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra --version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies the binary in HTTP responses, e.g. "chartoverlay/v0.3.0 (1a2b3c4)".
func UserAgent() string {
	return fmt.Sprintf("chartoverlay/%s (%s)", Version, shortCommit())
}

// CacheScope prefixes artifact cache keys so binaries of different builds
// never read each other's frames.
func CacheScope() string {
	return fmt.Sprintf("chartoverlay:%s:%s:", Version, shortCommit())
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
