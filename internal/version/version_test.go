package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func vcsInfo(modified bool) *debug.BuildInfo {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	mod := "false"
	if modified {
		mod = "true"
	}
	return &debug.BuildInfo{
		GoVersion: "go1.25.2",
		Main:      debug.Module{Path: "pkt.systems/addschat", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: mod},
		},
	}
}

func TestCurrentPrefersBuildVersion(t *testing.T) {
	old := buildVersion
	buildVersion = "v1.2.3"
	t.Cleanup(func() { buildVersion = old })

	if got := Current(); got != "v1.2.3" {
		t.Fatalf("expected build version, got %q", got)
	}
	if got := UserAgent(); got != "addschat/v1.2.3" {
		t.Fatalf("unexpected user agent %q", got)
	}
}

func TestFromBuildInfoPseudoVersion(t *testing.T) {
	info := fromBuildInfo(vcsInfo(true), "", true)
	if info.Version != "v0.0.0-20250102030405-1234567890ab+dirty" {
		t.Fatalf("unexpected version %q", info.Version)
	}
	if !info.Modified || info.GoVersion != "go1.25.2" || info.Module != "pkt.systems/addschat" {
		t.Fatalf("unexpected info %+v", info)
	}
	clean := fromBuildInfo(vcsInfo(true), "", false)
	if strings.HasSuffix(clean.Version, dirtySuffix) {
		t.Fatalf("expected no dirty suffix, got %q", clean.Version)
	}
}

func TestFromBuildInfoFallbacks(t *testing.T) {
	if got := fromBuildInfo(nil, "", true); got.Version != unknownVersion || got.Module != defaultModule {
		t.Fatalf("unexpected fallback %+v", got)
	}
	tagged := vcsInfo(false)
	tagged.Main.Version = "v0.4.0"
	if got := fromBuildInfo(tagged, "", false).Version; got != "v0.4.0" {
		t.Fatalf("expected module version, got %q", got)
	}
	if got := fromBuildInfo(tagged, "v9.9.9+dirty", false).Version; got != "v9.9.9" {
		t.Fatalf("expected linked version to win, got %q", got)
	}
}

func TestNormalizeVersionStripsDirty(t *testing.T) {
	if got := normalizeVersion(" v1.0.0+dirty ", false); got != "v1.0.0" {
		t.Fatalf("unexpected version %q", got)
	}
	if got := normalizeVersion("v1.0.0+dirty", true); got != "v1.0.0+dirty" {
		t.Fatalf("unexpected version %q", got)
	}
}
