// Package version resolves the upnpctl build's version and commit,
// either from ldflags set at build time or, failing that, from the
// binary's embedded VCS build info.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit are normally set at build time via:
//
//	go build -ldflags="-X github.com/nyxio/upnpcp/internal/version.Version=v1.2.3 \
//	                   -X github.com/nyxio/upnpcp/internal/version.Commit=abc123"
//
// Left unset (a plain "go install" or "go run"), they're filled in from
// the binary's VCS build info, then a timestamped "dev-..." version and
// an "unknown" commit if even that isn't available.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// populateFromBuildInfo fills in whichever of Version/Commit is still
// unset from the binary's embedded VCS build info, when built from a
// git checkout.
func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var vcsRevision, vcsModified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.modified":
			vcsModified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if Commit == "" && vcsRevision != "" {
		if len(vcsRevision) > 7 {
			Commit = vcsRevision[:7]
		} else {
			Commit = vcsRevision
		}
		if vcsModified == "true" {
			Commit += "-dirty"
		}
	}

	// Build info carries no git tag, so fall back to the commit date.
	if Version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full renders Version and Commit together, as printed by "upnpctl version".
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
