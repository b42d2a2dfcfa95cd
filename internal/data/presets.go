package data

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"discount-leverage/internal/config"
)

// Preset is a named parameter set stored as YAML in the preset directory.
type Preset struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	File   string              `json:"file"`
	Params config.ParamsConfig `json:"-"`
}

// LoadPresets reads every *.yaml file in dir. Files that fail to parse are
// returned in skipped rather than aborting the listing.
func LoadPresets(dir string) (presets []Preset, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	skipped = map[string]error{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		p, err := LoadPreset(path)
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}

// LoadPreset reads one preset; its ID is the file name without extension.
func LoadPreset(path string) (Preset, error) {
	params, err := config.LoadPresetFile(path)
	if err != nil {
		return Preset{}, err
	}
	id := strings.TrimSuffix(filepath.Base(path), ".yaml")
	name := params.Name
	if name == "" {
		name = id
	}
	return Preset{ID: id, Name: name, File: path, Params: params}, nil
}

// PresetPath resolves a preset ID inside dir, rejecting path traversal.
func PresetPath(dir, id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", false
	}
	return filepath.Join(dir, id+".yaml"), true
}
