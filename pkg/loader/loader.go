// Package loader reads and writes viewfinder presets.
//
// Presets live in .viewfinder/presets.yaml relative to the working
// directory. When no presets file exists the built-in presets are used, so
// the viewfinder always starts with something to show.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
)

// PresetsDir is the per-project directory holding viewfinder state.
const PresetsDir = ".viewfinder"

// PresetsFile is the presets file name inside PresetsDir.
const PresetsFile = "presets.yaml"

// presetsDocument is the on-disk shape of the presets file.
type presetsDocument struct {
	Presets []model.Preset `yaml:"presets"`
}

// PresetsPath returns the presets file path for the given project root.
// An empty root means the current working directory.
func PresetsPath(root string) (string, error) {
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
	}
	return filepath.Join(root, PresetsDir, PresetsFile), nil
}

// LoadPresets reads presets for the given project root, falling back to the
// built-in presets when no file exists.
func LoadPresets(root string) ([]model.Preset, error) {
	path, err := PresetsPath(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return BuiltinPresets(), nil
	}
	return LoadPresetsFromFile(path)
}

// LoadPresetsFromFile reads presets directly from a specific YAML file.
// Every preset in the file must validate; a bad preset is a configuration
// error the user should fix, not something to silently drop.
func LoadPresetsFromFile(path string) ([]model.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	var doc presetsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse presets file %s: %w", path, err)
	}

	for i := range doc.Presets {
		if err := doc.Presets[i].Validate(); err != nil {
			return nil, fmt.Errorf("presets file %s: %w", path, err)
		}
	}

	if len(doc.Presets) == 0 {
		return nil, fmt.Errorf("presets file %s contains no presets", path)
	}
	return doc.Presets, nil
}

// SavePresets writes presets for the given project root, creating the
// .viewfinder directory if needed.
func SavePresets(root string, presets []model.Preset) error {
	path, err := PresetsPath(root)
	if err != nil {
		return err
	}
	return SavePresetsToFile(path, presets)
}

// SavePresetsToFile writes presets to a specific YAML file.
func SavePresetsToFile(path string, presets []model.Preset) error {
	for i := range presets {
		if err := presets[i].Validate(); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(presetsDocument{Presets: presets})
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create presets directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write presets file: %w", err)
	}
	return nil
}

// BuiltinPresets returns the presets shipped with the viewfinder. They are
// starting points for common coverage, not a style guide.
func BuiltinPresets() []model.Preset {
	return []model.Preset{
		{
			Name:        "Close-up",
			Description: "Tight single with melted background",
			Camera: optics.CameraSettings{
				FocalLengthMm:  85,
				Aperture:       1.8,
				FocusDistanceM: 1.5,
				SensorType:     optics.SensorFullFrame,
			},
			Layers: []model.Layer{
				{Name: "Subject", DistanceM: 1.5},
				{Name: "Background", DistanceM: 6},
			},
		},
		{
			Name:        "Interview",
			Description: "Seated two-layer setup, soft bookshelf behind",
			Camera: optics.CameraSettings{
				FocalLengthMm:  50,
				Aperture:       2.8,
				FocusDistanceM: 2,
				SensorType:     optics.SensorFullFrame,
			},
			Layers: []model.Layer{
				{Name: "Subject", DistanceM: 2},
				{Name: "Bookshelf", DistanceM: 4.5},
				{Name: "Window", DistanceM: 9},
			},
		},
		{
			Name:        "Wide master",
			Description: "Deep-focus coverage of the whole set",
			Camera: optics.CameraSettings{
				FocalLengthMm:  24,
				Aperture:       8,
				FocusDistanceM: 5,
				SensorType:     optics.SensorFullFrame,
			},
			Layers: []model.Layer{
				{Name: "Foreground", DistanceM: 2},
				{Name: "Action", DistanceM: 5},
				{Name: "Set wall", DistanceM: 12},
			},
		},
		{
			Name:        "Long lens compression",
			Description: "Telephoto stack-up across a street",
			Camera: optics.CameraSettings{
				FocalLengthMm:  200,
				Aperture:       4,
				FocusDistanceM: 20,
				SensorType:     optics.SensorFullFrame,
			},
			Layers: []model.Layer{
				{Name: "Subject", DistanceM: 20},
				{Name: "Traffic", DistanceM: 35},
				{Name: "Skyline", DistanceM: 300},
			},
		},
	}
}

// FindPreset returns a clone of the preset with the given name.
func FindPreset(presets []model.Preset, name string) (model.Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p.Clone(), nil
		}
	}
	return model.Preset{}, fmt.Errorf("no preset named %q", name)
}
