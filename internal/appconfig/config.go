package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pkt.systems/addschat/schema"
)

// Config is the top-level configuration for addschat.
type Config struct {
	TTY        string       `mapstructure:"tty" yaml:"tty"`
	Cols       int          `mapstructure:"cols" yaml:"cols"`
	Rows       int          `mapstructure:"rows" yaml:"rows"`
	Model      string       `mapstructure:"model" yaml:"model"`
	RefreshMS  int          `mapstructure:"refresh_ms" yaml:"refresh_ms"`
	NoANSI     bool         `mapstructure:"no_ansi" yaml:"no_ansi"`
	Preset     string       `mapstructure:"preset" yaml:"preset"`
	Name       string       `mapstructure:"name" yaml:"name"`
	DataDir    string       `mapstructure:"data_dir" yaml:"data_dir"`
	HistoryMax int          `mapstructure:"history_max" yaml:"history_max"`
	Models     []string     `mapstructure:"models" yaml:"models"`
	Watch      bool         `mapstructure:"watch" yaml:"watch"`
	PollMS     int          `mapstructure:"poll_ms" yaml:"poll_ms"`
	OpenAI     OpenAIConfig `mapstructure:"openai" yaml:"openai"`
}

// OpenAIConfig configures the model endpoint. The API key is read from
// OPENAI_API_KEY only and never stored in a config file.
type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Cols:       schema.DefaultCols,
		Rows:       schema.DefaultRows,
		Model:      string(schema.DefaultModel),
		RefreshMS:  int(schema.DefaultRefreshInterval / time.Millisecond),
		DataDir:    "data",
		HistoryMax: schema.DefaultHistoryMax,
		Models:     []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
		Watch:      true,
		PollMS:     int(schema.DefaultPollInterval / time.Millisecond),
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".addschat", "config.yaml"), nil
}

// RefreshInterval is the redraw throttle while streaming.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMS) * time.Millisecond
}

// PollInterval bounds each idle wait on the channel.
func (c Config) PollInterval() time.Duration {
	if c.PollMS <= 0 {
		return schema.DefaultPollInterval
	}
	return time.Duration(c.PollMS) * time.Millisecond
}

// KnownModels returns the configured models with the active model first,
// without duplicates.
func (c Config) KnownModels() []schema.ModelID {
	seen := make(map[string]struct{}, len(c.Models)+1)
	out := make([]schema.ModelID, 0, len(c.Models)+1)
	for _, name := range append([]string{c.Model}, c.Models...) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, schema.ModelID(name))
	}
	return out
}

// Validate checks the settings needed to start a session.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TTY) == "" {
		return schema.ErrMissingDevice
	}
	if c.Cols < schema.MinCols {
		return fmt.Errorf("cols must be at least %d, got %d", schema.MinCols, c.Cols)
	}
	if c.Rows < schema.MinRows {
		return fmt.Errorf("rows must be at least %d, got %d", schema.MinRows, c.Rows)
	}
	if c.RefreshMS < 0 {
		return fmt.Errorf("refresh_ms must not be negative, got %d", c.RefreshMS)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if c.HistoryMax < 0 {
		return fmt.Errorf("history_max must not be negative, got %d", c.HistoryMax)
	}
	return nil
}
