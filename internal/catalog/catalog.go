// Package catalog loads the system prompt, prompt presets and knowledge base
// from a data directory.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pkt.systems/addschat/schema"
)

const (
	// SystemPromptFile holds the base system instructions.
	SystemPromptFile = "system_prompt.txt"
	// PresetsFile maps preset names to {prompt: ...}.
	PresetsFile = "presets.yaml"
	// KBFile maps knowledge base keys to {blurb: ...}.
	KBFile = "kb.yaml"
)

// Preset is a named block of additional system instructions.
type Preset struct {
	Name   schema.PresetName
	Prompt string
}

// Catalog is the static prompt material loaded at startup.
type Catalog struct {
	SystemPrompt string
	Presets      []Preset
	KB           map[string]string
}

// Load reads all catalog files from dir. Missing files yield empty values.
func Load(dir string) (*Catalog, error) {
	system, err := LoadSystemPrompt(filepath.Join(dir, SystemPromptFile))
	if err != nil {
		return nil, err
	}
	presets, err := LoadPresets(filepath.Join(dir, PresetsFile))
	if err != nil {
		return nil, err
	}
	kb, err := LoadKB(filepath.Join(dir, KBFile))
	if err != nil {
		return nil, err
	}
	return &Catalog{SystemPrompt: system, Presets: presets, KB: kb}, nil
}

// LoadSystemPrompt returns the trimmed file contents or "" when missing.
func LoadSystemPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// LoadPresets returns presets in file order. Entries without a prompt field
// are skipped.
func LoadPresets(path string) ([]Preset, error) {
	var presets []Preset
	err := eachEntry(path, func(key string, node *yaml.Node) {
		var entry struct {
			Prompt *string `yaml:"prompt"`
		}
		if err := node.Decode(&entry); err != nil || entry.Prompt == nil {
			return
		}
		presets = append(presets, Preset{
			Name:   schema.PresetName(key),
			Prompt: strings.TrimSpace(*entry.Prompt),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	return presets, nil
}

// LoadKB returns knowledge base blurbs keyed by entry name. Entries without a
// blurb field are skipped.
func LoadKB(path string) (map[string]string, error) {
	kb := map[string]string{}
	err := eachEntry(path, func(key string, node *yaml.Node) {
		var entry struct {
			Blurb *string `yaml:"blurb"`
		}
		if err := node.Decode(&entry); err != nil || entry.Blurb == nil {
			return
		}
		kb[key] = strings.TrimSpace(*entry.Blurb)
	})
	if err != nil {
		return nil, fmt.Errorf("load kb: %w", err)
	}
	return kb, nil
}

func eachEntry(path string, fn func(key string, node *yaml.Node)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(root.Content) == 0 {
		return nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		value := mapping.Content[i+1]
		if value.Kind != yaml.MappingNode {
			continue
		}
		fn(mapping.Content[i].Value, value)
	}
	return nil
}

// PresetNames lists preset names in file order.
func (c *Catalog) PresetNames() []schema.PresetName {
	if c == nil {
		return nil
	}
	names := make([]schema.PresetName, 0, len(c.Presets))
	for _, preset := range c.Presets {
		names = append(names, preset.Name)
	}
	return names
}

// Preset looks up a preset by name.
func (c *Catalog) Preset(name schema.PresetName) (Preset, bool) {
	if c == nil {
		return Preset{}, false
	}
	for _, preset := range c.Presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}

// SelectPreset resolves name to a preset. Unknown or empty names fall back to
// "default", then to the first preset. found reports whether name itself
// matched. An empty catalog yields a zero Preset.
func (c *Catalog) SelectPreset(name schema.PresetName) (preset Preset, found bool) {
	if c == nil || len(c.Presets) == 0 {
		return Preset{}, false
	}
	if name != "" {
		if p, ok := c.Preset(name); ok {
			return p, true
		}
	}
	if p, ok := c.Preset(schema.DefaultPresetName); ok {
		return p, false
	}
	return c.Presets[0], false
}
