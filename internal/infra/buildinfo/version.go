// Package buildinfo reports the version of the running clikit binary.
//
// Release builds inject values via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/clikit/internal/infra/buildinfo.Version=v1.0.0"
//
// Otherwise they are read from the module and VCS data embedded by the Go
// toolchain, so "go install ...@v1.2.3" reports v1.2.3.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// ModulePath is the module clikit is installed from.
const ModulePath = "github.com/yndnr/clikit"

// Build-time variables (set via ldflags).
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// Info contains build information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get returns the build information.
func Get() Info {
	bi, ok := debug.ReadBuildInfo()
	return resolve(bi, ok)
}

func resolve(bi *debug.BuildInfo, ok bool) Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
	if ok && bi != nil {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String returns a formatted version string.
func (i Info) String() string {
	return i.Version + " (" + i.Commit + ") built at " + i.BuildTime
}
