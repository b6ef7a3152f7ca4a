package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"pkt.systems/addschat/internal/appconfig"
	"pkt.systems/addschat/schema"
	"pkt.systems/pslog"
)

func discardLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true})
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"bootstrap", "doctor", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, cmd, err)
		}
	}
	if cmd, _, err := root.Find([]string{"init"}); err != nil || cmd.Name() != "bootstrap" {
		t.Fatalf("expected init alias for bootstrap")
	}
	for _, flag := range []string{"tty", "cols", "rows", "model", "refresh-ms", "no-ansi", "preset", "name", "config"} {
		if root.Flags().Lookup(flag) == nil {
			t.Fatalf("expected --%s flag", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "addschat") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestCheckDevice(t *testing.T) {
	if _, err := checkDevice(""); !errors.Is(err, schema.ErrMissingDevice) {
		t.Fatalf("expected missing device, got %v", err)
	}
	regular := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(regular, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := checkDevice(regular); err == nil {
		t.Fatalf("expected regular file to be rejected")
	}
	fifo := filepath.Join(t.TempDir(), "fifo")
	if err := unix.Mkfifo(fifo, 0o600); err != nil {
		t.Skipf("mkfifo: %v", err)
	}
	if _, err := checkDevice(fifo); err != nil {
		t.Fatalf("expected fifo to pass: %v", err)
	}
}

func TestCheckCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "presets.yaml"), []byte("default:\n  prompt: hi\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := checkCatalog(dir, "default"); err != nil {
		t.Fatalf("expected catalog ok: %v", err)
	}
	if _, err := checkCatalog(dir, "pirate"); !errors.Is(err, schema.ErrUnknownPreset) {
		t.Fatalf("expected unknown preset, got %v", err)
	}
	if _, err := checkCatalog(filepath.Join(dir, "missing"), ""); err == nil {
		t.Fatalf("expected missing dir error")
	}
}

func TestRunDoctorReportsFailures(t *testing.T) {
	cfg := appconfig.DefaultConfig()
	cfg.DataDir = t.TempDir()
	noEnv := func(string) (string, bool) { return "", false }
	err := runDoctor(discardLogger(), doctorChecks(cfg, noEnv))
	if err == nil {
		t.Fatalf("expected failures")
	}
	for _, name := range []string{"config", "device", "api_key"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("expected %s failure in %v", name, err)
		}
	}
	if strings.Contains(err.Error(), "catalog") {
		t.Fatalf("catalog should pass for an empty dir: %v", err)
	}
}
