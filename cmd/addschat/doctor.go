package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/addschat/internal/appconfig"
	"pkt.systems/addschat/internal/catalog"
	"pkt.systems/addschat/internal/rawtty"
	"pkt.systems/addschat/schema"
	"pkt.systems/pslog"
)

// doctorCheck is one named diagnostic. detail is logged on success.
type doctorCheck struct {
	name string
	run  func() (detail string, err error)
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, device, catalogs and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(appconfig.Options{Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			logger.Info("doctor start", "tty", cfg.TTY, "data_dir", cfg.DataDir)
			return runDoctor(logger, doctorChecks(cfg, os.LookupEnv))
		},
	}
	appconfig.BindFlags(cmd.Flags())
	return cmd
}

func doctorChecks(cfg appconfig.Config, lookupEnv func(string) (string, bool)) []doctorCheck {
	return []doctorCheck{
		{name: "config", run: func() (string, error) {
			if err := cfg.Validate(); err != nil {
				return "", err
			}
			return fmt.Sprintf("%dx%d model %s", cfg.Cols, cfg.Rows, cfg.Model), nil
		}},
		{name: "device", run: func() (string, error) { return checkDevice(cfg.TTY) }},
		{name: "catalog", run: func() (string, error) { return checkCatalog(cfg.DataDir, schema.PresetName(cfg.Preset)) }},
		{name: "api_key", run: func() (string, error) {
			if key, ok := lookupEnv("OPENAI_API_KEY"); !ok || strings.TrimSpace(key) == "" {
				return "", schema.ErrMissingAPIKey
			}
			return "OPENAI_API_KEY set", nil
		}},
	}
}

// runDoctor runs every check and fails if any failed.
func runDoctor(logger pslog.Logger, checks []doctorCheck) error {
	var failed []string
	for _, check := range checks {
		detail, err := check.run()
		if err != nil {
			logger.Error("doctor check failed", "check", check.name, "err", err)
			failed = append(failed, check.name)
			continue
		}
		logger.Info("doctor check ok", "check", check.name, "detail", detail)
	}
	if len(failed) > 0 {
		return fmt.Errorf("doctor: %d check(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	logger.Info("doctor complete")
	return nil
}

func checkDevice(path string) (string, error) {
	if path == "" {
		return "", schema.ErrMissingDevice
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	mode := info.Mode()
	if mode&os.ModeCharDevice == 0 && mode&os.ModeNamedPipe == 0 {
		return "", fmt.Errorf("%s is not a character device", path)
	}
	if mode&os.ModeNamedPipe != 0 {
		return path + " is a named pipe", nil
	}
	tty, err := rawtty.Open(path)
	if err != nil {
		return "", err
	}
	if err := tty.Close(); err != nil {
		return "", err
	}
	return path + " opens in raw mode", nil
}

func checkCatalog(dir string, preset schema.PresetName) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.New(dir + " is not a directory")
	}
	cat, err := catalog.Load(dir)
	if err != nil {
		return "", err
	}
	if preset != "" {
		if _, ok := cat.Preset(preset); !ok {
			return "", fmt.Errorf("%w: %s", schema.ErrUnknownPreset, preset)
		}
	}
	return fmt.Sprintf("%d presets, %d kb entries, system prompt %d chars", len(cat.Presets), len(cat.KB), len(cat.SystemPrompt)), nil
}
