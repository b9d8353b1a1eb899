// Package version holds build information injected at link time, e.g.
//
//	go build -ldflags "-X github.com/OpenCHAMI/nsoinv/internal/version.Version=v0.1.0"
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Version is the release number or semantic version of the binary.
var Version string

// GitCommit is the commit hash the binary was built from.
var GitCommit string

// GitState is "clean" or "dirty" depending on uncommitted changes at build time.
var GitState string

// BuildTime is the build timestamp in UTC.
var BuildTime string

// BuildUser is whoever ran the build.
var BuildUser string

type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	GitState  string `json:"git_state" yaml:"git_state"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	BuildUser string `json:"build_user" yaml:"build_user"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get() returns the linked build information, falling back to what the Go
// toolchain embedded for values that were not set.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitState:  GitState,
		BuildTime: BuildTime,
		BuildUser: BuildUser,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.modified":
				if info.GitState == "" {
					info.GitState = map[string]string{"true": "dirty", "false": "clean"}[s.Value]
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	if info.Version == "" {
		info.Version = "(devel)"
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("Version: %s, Git Commit: %s, Git State: %s, Build Time: %s, Build User: %s, Go Version: %s",
		i.Version, i.GitCommit, i.GitState, i.BuildTime, i.BuildUser, i.GoVersion)
}

// Fprint() writes one field per line for troubleshooting.
func (i Info) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Version: %s\n", i.Version)
	fmt.Fprintf(w, "Git Commit: %s\n", i.GitCommit)
	fmt.Fprintf(w, "Git State: %s\n", i.GitState)
	fmt.Fprintf(w, "Build Time: %s\n", i.BuildTime)
	fmt.Fprintf(w, "Build User: %s\n", i.BuildUser)
	fmt.Fprintf(w, "Go Version: %s\n", i.GoVersion)
}
