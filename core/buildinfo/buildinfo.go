// Package buildinfo exposes release metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/m3rciful/guidebot/core/buildinfo.Version=v1.2.3"
//
// Commit and Date fall back to the VCS stamp the go tool embeds.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Modified  bool
}

// Get resolves Info from the link-time variables and the embedded build info.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi.Settings)
	}
	return info
}

func (i *Info) fill(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "" {
				i.Commit = s.Value
			}
		case "vcs.time":
			if i.Date == "" {
				i.Date = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// ShortCommit is the first seven characters of the commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// String renders "v1.2.3 (abc1234-dirty)" or just the version.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.Version)
	if c := i.ShortCommit(); c != "" {
		b.WriteString(" (" + c)
		if i.Modified {
			b.WriteString("-dirty")
		}
		b.WriteString(")")
	}
	return b.String()
}
