// Package version reports which build is running
package version

import "runtime/debug"

// ServiceName is the name the API reports in logs and meta endpoints
const ServiceName = "mixtape-api"

// stamped with -ldflags "-X mixtape/internal/core/version.version=v0.3.0"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var readBuildInfo = debug.ReadBuildInfo

// BuildInfo is the payload of GET /meta/version
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info reports the stamped build
// commit and date left empty by the linker come from the toolchain's vcs stamp
func Info() BuildInfo {
	b := BuildInfo{Service: ServiceName, Version: version, Commit: commit, Date: date}
	if bi, ok := readBuildInfo(); ok && (b.Commit == "" || b.Date == "") {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && b.Commit == "" && len(s.Value) >= 7:
				b.Commit = s.Value[:7]
			case s.Key == "vcs.time" && b.Date == "":
				b.Date = s.Value
			}
		}
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}
	return b
}
