// Package version reports the addschat build identity from linker flags or
// embedded VCS metadata.
package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const (
	defaultModule  = "pkt.systems/addschat"
	unknownVersion = "v0.0.0-unknown"
	dirtySuffix    = "+dirty"
)

// buildVersion is set via -ldflags "-X pkt.systems/addschat/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Module    string
	Version   string
	Revision  string
	Time      time.Time
	Modified  bool
	GoVersion string
}

// Read collects build information. Version keeps a "+dirty" suffix only when
// includeDirty is set.
func Read(includeDirty bool) Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = nil
	}
	return fromBuildInfo(info, buildVersion, includeDirty)
}

// Current returns the best available version string (without dirty suffix).
func Current() string {
	return Read(false).Version
}

// UserAgent identifies addschat to remote APIs.
func UserAgent() string {
	return "addschat/" + Current()
}

func fromBuildInfo(info *debug.BuildInfo, linked string, includeDirty bool) Info {
	out := Info{Module: defaultModule, Version: unknownVersion}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		out.GoVersion = info.GoVersion
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = setting.Value
			case "vcs.time":
				if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					out.Time = parsed.UTC()
				}
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(linked) != "":
		out.Version = normalizeVersion(linked, includeDirty)
	case info != nil && info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = normalizeVersion(info.Main.Version, includeDirty)
	default:
		if pseudo := out.pseudo(includeDirty); pseudo != "" {
			out.Version = pseudo
		}
	}
	return out
}

// pseudo builds a Go pseudo-version from the VCS revision and commit time.
func (i Info) pseudo(includeDirty bool) string {
	if i.Revision == "" || i.Time.IsZero() {
		return ""
	}
	rev := i.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	ver := "v0.0.0-" + i.Time.Format("20060102150405") + "-" + rev
	if i.Modified && includeDirty {
		ver += dirtySuffix
	}
	return ver
}

func normalizeVersion(v string, includeDirty bool) string {
	value := strings.TrimSpace(v)
	if includeDirty {
		return value
	}
	return strings.TrimSuffix(value, dirtySuffix)
}
