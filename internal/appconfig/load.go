package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override (ADDS_COLS, ADDS_TTY, ...).
const EnvPrefix = "ADDS"

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"tty":         "tty",
	"cols":        "cols",
	"rows":        "rows",
	"model":       "model",
	"refresh-ms":  "refresh_ms",
	"no-ansi":     "no_ansi",
	"preset":      "preset",
	"name":        "name",
	"data-dir":    "data_dir",
	"history-max": "history_max",
	"watch":       "watch",
	"poll-ms":     "poll_ms",
}

// BindFlags registers the startup flags on fs. Their defaults mirror
// DefaultConfig; Load only honours flags the user actually set.
func BindFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()
	fs.StringP("config", "c", "", "path to config file")
	fs.String("tty", "", "TTY device path (e.g. /dev/ttyUSB0)")
	fs.Int("cols", def.Cols, "terminal columns")
	fs.Int("rows", def.Rows, "terminal rows")
	fs.String("model", def.Model, "model identifier")
	fs.Int("refresh-ms", def.RefreshMS, "redraw interval while streaming in milliseconds")
	fs.Bool("no-ansi", def.NoANSI, "plain line output without cursor control")
	fs.String("preset", def.Preset, "prompt preset name")
	fs.String("name", def.Name, "user name (skips the splash screen)")
	fs.String("data-dir", def.DataDir, "directory holding system_prompt.txt, presets.yaml and kb.yaml")
	fs.Int("history-max", def.HistoryMax, "conversation turns kept as context")
	fs.Bool("watch", def.Watch, "reload catalog files when they change")
	fs.Int("poll-ms", def.PollMS, "channel poll interval in milliseconds")
}

// Options controls where Load reads from.
type Options struct {
	// Path is an explicit config file; it must exist. When empty the default
	// path is used if present.
	Path  string
	Flags *pflag.FlagSet
}

// Load layers defaults, the config file, environment and flags, in
// increasing precedence, and returns the merged config. It does not
// validate; callers that start a session call Validate.
func Load(opts Options) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("tty", cfg.TTY)
	v.SetDefault("cols", cfg.Cols)
	v.SetDefault("rows", cfg.Rows)
	v.SetDefault("model", cfg.Model)
	v.SetDefault("refresh_ms", cfg.RefreshMS)
	v.SetDefault("no_ansi", cfg.NoANSI)
	v.SetDefault("preset", cfg.Preset)
	v.SetDefault("name", cfg.Name)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("history_max", cfg.HistoryMax)
	v.SetDefault("models", cfg.Models)
	v.SetDefault("watch", cfg.Watch)
	v.SetDefault("poll_ms", cfg.PollMS)
	v.SetDefault("openai.base_url", cfg.OpenAI.BaseURL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("model", EnvPrefix+"_MODEL", "OPENAI_MODEL"); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv("openai.base_url", EnvPrefix+"_OPENAI_BASE_URL", "OPENAI_BASE_URL"); err != nil {
		return Config{}, err
	}

	path, explicit, err := resolveConfigPath(opts)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if explicit || !errors.Is(statErr, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s: %w", path, statErr)
		}
	}

	if opts.Flags != nil {
		for flagName, key := range flagKeys {
			flag := opts.Flags.Lookup(flagName)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.DataDir = expandEnv(cfg.DataDir)
	cfg.TTY = expandEnv(cfg.TTY)
	return cfg, nil
}

func resolveConfigPath(opts Options) (string, bool, error) {
	if opts.Path != "" {
		return opts.Path, true, nil
	}
	if opts.Flags != nil {
		if flag := opts.Flags.Lookup("config"); flag != nil && flag.Value.String() != "" {
			return flag.Value.String(), true, nil
		}
	}
	if env := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")); env != "" {
		return env, true, nil
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return "", false, nil
	}
	return path, false, nil
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// DefaultYAML renders the default config.
func DefaultYAML() ([]byte, error) {
	return yaml.Marshal(DefaultConfig())
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := DefaultYAML()
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
