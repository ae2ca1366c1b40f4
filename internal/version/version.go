// Package version reports build information for health checks and startup
// logs.
package version

import (
	"runtime"
	"runtime/debug"
)

// These are intended to be populated at build time via -ldflags. GitSHA
// falls back to debug.ReadBuildInfo when unset.
var (
	BuildVersion = "1.0.0"
	GitSHA       = ""
)

// Info is the build identity attached to startup logs.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GitSHA    string `json:"git_sha,omitempty"`
	GoVersion string `json:"go_version"`
}

// Get resolves the build identity for the named service.
func Get(service string) Info {
	gitSHA := GitSHA
	if gitSHA == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					gitSHA = s.Value
					break
				}
			}
		}
	}
	// Short form; a full revision hash reads as a credential to the log
	// redaction layer.
	if len(gitSHA) > 12 {
		gitSHA = gitSHA[:12]
	}

	return Info{
		Service:   service,
		Version:   BuildVersion,
		GitSHA:    gitSHA,
		GoVersion: runtime.Version(),
	}
}
