// Package version reports the build identity of the zeroclaw binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/zeroclaw/zeroclaw-ui/internal/version.Version=v0.3.0 \
//	                   -X github.com/zeroclaw/zeroclaw-ui/internal/version.Commit=abc1234"
var (
	Version = ""
	Commit  = ""
)

// ProtocolVersion identifies the /webhook wire format this build speaks.
const ProtocolVersion = "1"

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo(debug.ReadBuildInfo())
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func fromBuildInfo(info *debug.BuildInfo, ok bool) {
	if !ok || info == nil {
		return
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		if dirty {
			revision += "-dirty"
		}
		Commit = revision
	}
}

// Full returns the version with its commit, e.g. "v0.3.0 (commit: abc1234)".
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the HTTP User-Agent for the named binary.
func UserAgent(binary string) string {
	return fmt.Sprintf("%s/%s (%s/%s)", binary, strings.TrimPrefix(Version, "v"), runtime.GOOS, runtime.GOARCH)
}
