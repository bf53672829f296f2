// Package version reports which build of seasonal is running.
//
// Release builds inject the values with
//
//	-ldflags "-X github.com/jmylchreest/seasonal/internal/version.Version=x.y.z
//	          -X github.com/jmylchreest/seasonal/internal/version.Commit=...
//	          -X github.com/jmylchreest/seasonal/internal/version.Date=..."
//
// Other builds fall back to the VCS stamp the Go toolchain records.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// Info is the build description printed by "seasonal version".
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the injected build values, completed from the embedded
// build information where they were not injected.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == unknown {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String returns a one-line description such as
// "seasonal 1.2.0 (commit 1a2b3c4d, built 2025-01-02T03:04:05Z, go1.25.1 linux/amd64)".
func String() string {
	return GetInfo().String()
}

func (i Info) String() string {
	s := "seasonal " + i.Version + " ("
	if i.Commit != unknown {
		commit := i.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		if i.Modified {
			commit += "-dirty"
		}
		s += "commit " + commit + ", "
	}
	if i.Date != unknown {
		s += "built " + i.Date + ", "
	}
	return s + fmt.Sprintf("%s %s)", i.GoVersion, i.Platform)
}

// UserAgent is sent with outgoing HTTP requests.
func UserAgent() string {
	return "seasonal/" + Version
}
