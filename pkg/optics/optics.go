// Package optics computes depth-of-field, defocus blur, and field-of-view
// from camera parameters using thin-lens approximations.
//
// All functions are pure: results depend only on the explicit inputs, there
// is no hidden state, and every call may run concurrently with any other.
// Distances are meters, focal lengths and sensor dimensions are millimeters;
// callers must convert to these units before calling, the package never
// guesses.
package optics

// SensorType identifies a sensor format in the Config registry.
type SensorType string

const (
	SensorFullFrame       SensorType = "full-frame"
	SensorAPSC            SensorType = "aps-c"
	SensorMicroFourThirds SensorType = "micro-four-thirds"
)

// IsValid returns true if the sensor type is a recognized value.
func (s SensorType) IsValid() bool {
	switch s {
	case SensorFullFrame, SensorAPSC, SensorMicroFourThirds:
		return true
	}
	return false
}

// Sensor describes the physical format a calculation is performed against.
// The circle-of-confusion constant encodes an acceptable-sharpness criterion
// and is a calibration choice, not a physical property of the sensor.
type Sensor struct {
	Name       string  `json:"name" yaml:"name"`
	WidthMm    float64 `json:"width_mm" yaml:"width_mm"`
	HeightMm   float64 `json:"height_mm" yaml:"height_mm"`
	CoCMm      float64 `json:"coc_mm" yaml:"coc_mm"`
	CropFactor float64 `json:"crop_factor" yaml:"crop_factor"`
}

// CameraSettings is the immutable input to every calculation.
type CameraSettings struct {
	FocalLengthMm  float64    `json:"focal_length_mm" yaml:"focal_length_mm"`
	Aperture       float64    `json:"aperture" yaml:"aperture"`
	FocusDistanceM float64    `json:"focus_distance_m" yaml:"focus_distance_m"`
	SensorType     SensorType `json:"sensor_type" yaml:"sensor_type"`
}

// Display-tuning constants. These are empirical values calibrated for the
// viewfinder preview and carry no physical derivation; they live here as
// named configuration defaults so they can be tuned without touching the
// physics.
const (
	// DefaultDisplayScaleDivisor maps sensor-plane blur to on-screen pixels.
	DefaultDisplayScaleDivisor = 4.0

	// DefaultMaxBlurPx bounds the preview blur. A presentation safety bound
	// against runaway blur on extreme inputs, not a physical limit.
	DefaultMaxBlurPx = 100.0

	// DefaultNeutralFocalLengthMm is the focal length treated as having no
	// perspective distortion by the layer-scale heuristic.
	DefaultNeutralFocalLengthMm = 50.0

	// DefaultDiffractionOnsetFullFrame is the full-frame f-number at which
	// diffraction starts to visibly soften the image. Scaled inversely by
	// crop factor for smaller sensors.
	DefaultDiffractionOnsetFullFrame = 11.0

	// DefaultFocusEpsilonM is the distance tolerance inside which an element
	// counts as exactly at focus.
	DefaultFocusEpsilonM = 0.001

	// DefaultSyntheticFarReferenceM stands in for an unbounded far limit when
	// reporting the front/back split. Display-only heuristic so a ratio can
	// still be shown; not physically exact.
	DefaultSyntheticFarReferenceM = 1000.0

	// DefaultInfiniteDistanceM is the subject distance beyond which the
	// at-infinity defocus formula is used.
	DefaultInfiniteDistanceM = 10000.0
)

// Config holds the sensor registry and the tuning constants. All calibrated
// values are configurable; nothing in the calculator is hard-coded.
type Config struct {
	Sensors map[SensorType]Sensor

	MaxBlurPx                 float64
	DisplayScaleDivisor       float64
	NeutralFocalLengthMm      float64
	DiffractionOnsetFullFrame float64
	FocusEpsilonM             float64
	SyntheticFarReferenceM    float64
	InfiniteDistanceM         float64
}

// DefaultSensors returns the built-in sensor registry. Circle-of-confusion
// values follow the common d/1500 acceptable-sharpness criterion.
func DefaultSensors() map[SensorType]Sensor {
	return map[SensorType]Sensor{
		SensorFullFrame: {
			Name:       "Full Frame",
			WidthMm:    36.0,
			HeightMm:   24.0,
			CoCMm:      0.030,
			CropFactor: 1.0,
		},
		SensorAPSC: {
			Name:       "APS-C",
			WidthMm:    23.6,
			HeightMm:   15.7,
			CoCMm:      0.019,
			CropFactor: 1.53,
		},
		SensorMicroFourThirds: {
			Name:       "Micro Four Thirds",
			WidthMm:    17.3,
			HeightMm:   13.0,
			CoCMm:      0.015,
			CropFactor: 2.0,
		},
	}
}

// DefaultConfig returns the configuration used by the package-level
// convenience functions.
func DefaultConfig() Config {
	return Config{
		Sensors:                   DefaultSensors(),
		MaxBlurPx:                 DefaultMaxBlurPx,
		DisplayScaleDivisor:       DefaultDisplayScaleDivisor,
		NeutralFocalLengthMm:      DefaultNeutralFocalLengthMm,
		DiffractionOnsetFullFrame: DefaultDiffractionOnsetFullFrame,
		FocusEpsilonM:             DefaultFocusEpsilonM,
		SyntheticFarReferenceM:    DefaultSyntheticFarReferenceM,
		InfiniteDistanceM:         DefaultInfiniteDistanceM,
	}
}

// Calculator performs optics calculations against a fixed Config.
// The zero value is not usable; construct with New.
type Calculator struct {
	cfg Config
}

// New creates a Calculator. Zero-valued tuning fields are filled from
// DefaultConfig, and a nil sensor registry gets the built-in sensors, so a
// partially populated Config overrides only what it sets.
func New(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.Sensors == nil {
		cfg.Sensors = def.Sensors
	}
	if cfg.MaxBlurPx == 0 {
		cfg.MaxBlurPx = def.MaxBlurPx
	}
	if cfg.DisplayScaleDivisor == 0 {
		cfg.DisplayScaleDivisor = def.DisplayScaleDivisor
	}
	if cfg.NeutralFocalLengthMm == 0 {
		cfg.NeutralFocalLengthMm = def.NeutralFocalLengthMm
	}
	if cfg.DiffractionOnsetFullFrame == 0 {
		cfg.DiffractionOnsetFullFrame = def.DiffractionOnsetFullFrame
	}
	if cfg.FocusEpsilonM == 0 {
		cfg.FocusEpsilonM = def.FocusEpsilonM
	}
	if cfg.SyntheticFarReferenceM == 0 {
		cfg.SyntheticFarReferenceM = def.SyntheticFarReferenceM
	}
	if cfg.InfiniteDistanceM == 0 {
		cfg.InfiniteDistanceM = def.InfiniteDistanceM
	}
	return &Calculator{cfg: cfg}
}

// Config returns a copy of the calculator's configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Sensor resolves a sensor type against the registry.
func (c *Calculator) Sensor(t SensorType) (Sensor, error) {
	s, ok := c.cfg.Sensors[t]
	if !ok {
		return Sensor{}, &InvalidParameterError{
			Field:  "SensorType",
			Reason: "unknown sensor type " + string(t),
		}
	}
	return s, nil
}

// validateSettings rejects non-positive camera parameters and unknown
// sensor types. Invalid inputs must fail loudly, never be clamped to a
// plausible-looking value.
func (c *Calculator) validateSettings(s CameraSettings) (Sensor, error) {
	if s.FocalLengthMm <= 0 {
		return Sensor{}, &InvalidParameterError{
			Field:  "FocalLengthMm",
			Value:  s.FocalLengthMm,
			Reason: "focal length must be positive",
		}
	}
	if s.Aperture <= 0 {
		return Sensor{}, &InvalidParameterError{
			Field:  "Aperture",
			Value:  s.Aperture,
			Reason: "aperture f-number must be positive",
		}
	}
	if s.FocusDistanceM <= 0 {
		return Sensor{}, &InvalidParameterError{
			Field:  "FocusDistanceM",
			Value:  s.FocusDistanceM,
			Reason: "focus distance must be positive",
		}
	}
	return c.Sensor(s.SensorType)
}

var defaultCalculator = New(DefaultConfig())

// Default returns the shared calculator backed by DefaultConfig.
func Default() *Calculator {
	return defaultCalculator
}
