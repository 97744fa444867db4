package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Build-time variables injected via -ldflags:
//
//	-X github.com/tbckr/statuspane/internal/version.Version=1.0.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the JSON shape printed by the version command.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(bi)
	}
}

// Current returns the resolved build metadata.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String renders the one-line version banner.
func (i Info) String() string {
	return fmt.Sprintf("statuspane version %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// applyBuildInfo fills in values still at their placeholders. ldflags always win.
func applyBuildInfo(bi *debug.BuildInfo) {
	if Version == "dev" {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			Version = strings.TrimPrefix(v, "v")
		}
	}

	var revision, vcsTime string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if Commit == "none" && revision != "" {
		Commit = revision[:min(len(revision), 7)]
	}
	if Date == "unknown" && vcsTime != "" {
		Date = vcsTime
	}
}
