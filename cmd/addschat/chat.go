package main

import (
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/addschat/console"
	"pkt.systems/addschat/internal/appconfig"
	"pkt.systems/addschat/internal/catalog"
	"pkt.systems/addschat/internal/llm"
	"pkt.systems/addschat/internal/rawtty"
	"pkt.systems/addschat/internal/version"
	"pkt.systems/pslog"
)

func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := pslog.Ctx(ctx)

	cfg, err := appconfig.Load(appconfig.Options{Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		return err
	}
	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:    os.Getenv("OPENAI_API_KEY"),
		BaseURL:   cfg.OpenAI.BaseURL,
		UserAgent: version.UserAgent(),
	})
	if err != nil {
		return err
	}

	tty, err := rawtty.Open(cfg.TTY)
	if err != nil {
		return err
	}
	defer func() { _ = tty.Close() }()

	var opts []console.Option
	if cfg.Watch {
		watcher, err := catalog.NewWatcher(cfg.DataDir)
		if err != nil {
			logger.Warn("catalog watch disabled", "dir", cfg.DataDir, "err", err)
		} else {
			defer func() { _ = watcher.Close() }()
			opts = append(opts, console.WithWatcher(watcher))
		}
	}

	logger.Info("addschat start",
		"version", version.Current(),
		"tty", tty.Path(),
		"model", cfg.Model,
		"data_dir", cfg.DataDir,
		"presets", len(cat.Presets),
		"kb", len(cat.KB),
		"ansi", !cfg.NoANSI,
	)
	session := console.New(console.ConfigFromApp(cfg), tty, client, cat, opts...)
	return session.Run(ctx)
}
