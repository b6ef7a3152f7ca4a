// Package bootstrap writes a starter config and sample catalog files.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pkt.systems/addschat/internal/appconfig"
	"pkt.systems/addschat/internal/catalog"
)

const (
	configName  = "config.yaml"
	dataDirName = "data"
)

// Paths reports where bootstrap wrote its outputs.
type Paths struct {
	ConfigPath       string
	DataDir          string
	SystemPromptPath string
	PresetsPath      string
	KBPath           string
}

// Files holds the rendered bootstrap artifacts.
type Files struct {
	ConfigYAML   []byte
	SystemPrompt []byte
	Presets      []byte
	KB           []byte
}

// DefaultFiles renders the config for dataDir plus the sample catalogs.
func DefaultFiles(dataDir string) (Files, error) {
	cfg := appconfig.DefaultConfig()
	cfg.DataDir = dataDir
	configYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return Files{}, fmt.Errorf("render config: %w", err)
	}
	files := Files{ConfigYAML: configYAML}
	if files.SystemPrompt, err = readEmbeddedFile("files/" + catalog.SystemPromptFile); err != nil {
		return Files{}, err
	}
	if files.Presets, err = readEmbeddedFile("files/" + catalog.PresetsFile); err != nil {
		return Files{}, err
	}
	if files.KB, err = readEmbeddedFile("files/" + catalog.KBFile); err != nil {
		return Files{}, err
	}
	return files, nil
}

// WriteBootstrap writes config.yaml and data/ under outputDir. Existing
// files are left alone unless overwrite is set.
func WriteBootstrap(outputDir string, overwrite bool) (Paths, error) {
	rootDir, err := filepath.Abs(outputDir)
	if err != nil {
		rootDir = outputDir
	}
	dataDir := filepath.Join(rootDir, dataDirName)
	paths := Paths{
		ConfigPath:       filepath.Join(rootDir, configName),
		DataDir:          dataDir,
		SystemPromptPath: filepath.Join(dataDir, catalog.SystemPromptFile),
		PresetsPath:      filepath.Join(dataDir, catalog.PresetsFile),
		KBPath:           filepath.Join(dataDir, catalog.KBFile),
	}
	if !overwrite {
		for _, path := range []string{paths.ConfigPath, paths.SystemPromptPath, paths.PresetsPath, paths.KBPath} {
			if _, err := os.Stat(path); err == nil {
				return Paths{}, fmt.Errorf("file already exists: %s", path)
			}
		}
	}
	files, err := DefaultFiles(dataDir)
	if err != nil {
		return Paths{}, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create data dir: %w", err)
	}
	writes := []struct {
		path string
		data []byte
		mode os.FileMode
	}{
		{paths.ConfigPath, files.ConfigYAML, 0o600},
		{paths.SystemPromptPath, files.SystemPrompt, 0o644},
		{paths.PresetsPath, files.Presets, 0o644},
		{paths.KBPath, files.KB, 0o644},
	}
	for _, w := range writes {
		if err := os.WriteFile(w.path, w.data, w.mode); err != nil {
			return Paths{}, fmt.Errorf("write %s: %w", w.path, err)
		}
	}
	return paths, nil
}
