package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable analytical question.
type Preset struct {
	Name     string `yaml:"name" json:"name"`
	Question string `yaml:"question" json:"question"`
}

// PresetFile is the on-disk format for saved question presets.
type PresetFile struct {
	Presets []Preset `yaml:"presets" json:"presets"`
}

// LoadPresets reads question presets from a YAML file.
func LoadPresets(path string) (*PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("preset file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read preset file %s: %w", path, err)
	}
	return ParsePresets(data)
}

// ParsePresets parses presets from YAML bytes.
func ParsePresets(data []byte) (*PresetFile, error) {
	var pf PresetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("invalid preset YAML: %w", err)
	}
	for i, p := range pf.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i+1)
		}
		if p.Question == "" {
			return nil, fmt.Errorf("preset %q has no question", p.Name)
		}
	}
	return &pf, nil
}

// Find returns the preset with the given name.
func (pf *PresetFile) Find(name string) (*Preset, error) {
	for i := range pf.Presets {
		if pf.Presets[i].Name == name {
			return &pf.Presets[i], nil
		}
	}
	available := make([]string, len(pf.Presets))
	for i, p := range pf.Presets {
		available[i] = p.Name
	}
	return nil, fmt.Errorf("preset %q not found — available presets: %v", name, available)
}
