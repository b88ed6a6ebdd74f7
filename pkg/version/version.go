// Package version carries build metadata of the langtrends binary.
package version

import (
	"runtime/debug"
)

// Build metadata, overridden at link time:
//
//	-ldflags "-X github.com/Sumatoshi-tech/langtrends/pkg/version.Version=v1.2.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills metadata still at its default from the Go build
// info, so `go install`ed binaries report a module version and VCS revision.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && setting.Value != "" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "unknown" && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}

// String returns the one-line version banner.
func String() string {
	return "langtrends " + Version + " (commit: " + Commit + ", built: " + Date + ")"
}
