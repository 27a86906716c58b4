// Package model defines the preset and shot types shared by the loader,
// the store, and the viewfinder UI.
package model

import (
	"fmt"
	"time"

	"github.com/finderworks/viewfinder/pkg/optics"
)

// Layer is one depth plane of a scene: a named element at a fixed distance
// from the camera.
type Layer struct {
	Name      string  `json:"name" yaml:"name"`
	DistanceM float64 `json:"distance_m" yaml:"distance_m"`
}

// Validate checks that the layer is usable for blur calculations.
func (l Layer) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("layer name cannot be empty")
	}
	if l.DistanceM <= 0 {
		return fmt.Errorf("layer %q: distance must be positive, got %v", l.Name, l.DistanceM)
	}
	return nil
}

// Preset is a saved viewfinder setup: camera settings plus the scene's
// depth layers.
type Preset struct {
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Camera      optics.CameraSettings `json:"camera" yaml:"camera"`
	Layers      []Layer               `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// Validate checks that the preset is logically valid.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if p.Camera.FocalLengthMm <= 0 {
		return fmt.Errorf("preset %q: focal length must be positive", p.Name)
	}
	if p.Camera.Aperture <= 0 {
		return fmt.Errorf("preset %q: aperture must be positive", p.Name)
	}
	if p.Camera.FocusDistanceM <= 0 {
		return fmt.Errorf("preset %q: focus distance must be positive", p.Name)
	}
	if !p.Camera.SensorType.IsValid() {
		return fmt.Errorf("preset %q: unknown sensor type %q", p.Name, p.Camera.SensorType)
	}
	for _, layer := range p.Layers {
		if err := layer.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return nil
}

// Clone creates a deep copy of the preset.
func (p Preset) Clone() Preset {
	clone := p
	if p.Layers != nil {
		clone.Layers = make([]Layer, len(p.Layers))
		copy(clone.Layers, p.Layers)
	}
	return clone
}

// Shot is a viewfinder state captured to the shot log, together with the
// depth-of-field numbers it produced at the time.
type Shot struct {
	ID        int64                 `json:"id"`
	Label     string                `json:"label"`
	Camera    optics.CameraSettings `json:"camera"`
	DOF       optics.DOFResult      `json:"dof"`
	Notes     string                `json:"notes,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// Validate checks that the shot can be persisted.
func (s *Shot) Validate() error {
	if s.Label == "" {
		return fmt.Errorf("shot label cannot be empty")
	}
	if s.Camera.FocalLengthMm <= 0 || s.Camera.Aperture <= 0 || s.Camera.FocusDistanceM <= 0 {
		return fmt.Errorf("shot %q: camera settings are incomplete", s.Label)
	}
	return nil
}
