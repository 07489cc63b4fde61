// Package buildinfo holds version information injected at link time:
//
//	go build -ldflags "-X github.com/matzehuels/skillgalaxy/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/skillgalaxy/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/skillgalaxy/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the multi-line build summary.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns a cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent with outgoing HTTP requests.
func UserAgent() string { return "skillgalaxy/" + Version }
