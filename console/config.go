package console

import (
	"time"

	"pkt.systems/addschat/internal/appconfig"
	"pkt.systems/addschat/schema"
)

// Config configures a session.
type Config struct {
	Cols            int
	Rows            int
	ANSI            bool
	Model           schema.ModelID
	Models          []schema.ModelID
	Preset          schema.PresetName
	Name            string
	DataDir         string
	HistoryMax      int
	RefreshInterval time.Duration
	PollInterval    time.Duration
}

// ConfigFromApp maps the application config onto session settings.
func ConfigFromApp(cfg appconfig.Config) Config {
	return Config{
		Cols:            cfg.Cols,
		Rows:            cfg.Rows,
		ANSI:            !cfg.NoANSI,
		Model:           schema.ModelID(cfg.Model),
		Models:          cfg.KnownModels(),
		Preset:          schema.PresetName(cfg.Preset),
		Name:            cfg.Name,
		DataDir:         cfg.DataDir,
		HistoryMax:      cfg.HistoryMax,
		RefreshInterval: cfg.RefreshInterval(),
		PollInterval:    cfg.PollInterval(),
	}
}

func (c Config) withDefaults() Config {
	if c.Cols <= 0 {
		c.Cols = schema.DefaultCols
	}
	if c.Rows <= 0 {
		c.Rows = schema.DefaultRows
	}
	if c.Model == "" {
		c.Model = schema.DefaultModel
	}
	if c.HistoryMax <= 0 {
		c.HistoryMax = schema.DefaultHistoryMax
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
	if c.PollInterval <= 0 {
		c.PollInterval = schema.DefaultPollInterval
	}
	return c
}
