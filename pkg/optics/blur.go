package optics

import "math"

// BlurRadius computes the preview blur, in pixels, for an object at
// elementDistanceM when the camera focuses at settings.FocusDistanceM and
// the rendered image is imageWidthPx wide.
//
// The sensor-plane blur spot follows the thin-lens defocus form
// (f/N)·|s/(s−f)·(d−f)/d − 1| with every length in millimeters, switching
// to the at-infinity form (f/N)·|s/(s−f) − 1| beyond
// Config.InfiniteDistanceM. The spot size is mapped to pixels through the
// sensor width and Config.DisplayScaleDivisor, then clamped to
// [0, Config.MaxBlurPx]. The clamp is a presentation safety bound against
// runaway blur on extreme inputs, not a physical limit.
//
// Returns exactly 0 when the element sits within Config.FocusEpsilonM of
// the focus plane.
func (c *Calculator) BlurRadius(settings CameraSettings, elementDistanceM, imageWidthPx float64) (float64, error) {
	sensor, err := c.validateSettings(settings)
	if err != nil {
		return 0, err
	}
	if elementDistanceM <= 0 {
		return 0, &InvalidParameterError{
			Field:  "ElementDistanceM",
			Value:  elementDistanceM,
			Reason: "element distance must be positive",
		}
	}
	if imageWidthPx <= 0 {
		return 0, &InvalidParameterError{
			Field:  "ImageWidthPx",
			Value:  imageWidthPx,
			Reason: "image width must be positive",
		}
	}

	f := settings.FocalLengthMm
	sMm := settings.FocusDistanceM * 1000
	if sMm <= f {
		return 0, &InvalidParameterError{
			Field:  "FocusDistanceM",
			Value:  settings.FocusDistanceM,
			Reason: "focus distance must exceed the focal length",
		}
	}

	if math.Abs(settings.FocusDistanceM-elementDistanceM) < c.cfg.FocusEpsilonM {
		return 0, nil
	}

	magnification := sMm / (sMm - f)

	var blurMm float64
	if elementDistanceM >= c.cfg.InfiniteDistanceM || math.IsInf(elementDistanceM, 1) {
		blurMm = (f / settings.Aperture) * math.Abs(magnification-1)
	} else {
		dMm := elementDistanceM * 1000
		blurMm = (f / settings.Aperture) * math.Abs(magnification*(dMm-f)/dMm-1)
	}

	blurPx := blurMm / sensor.WidthMm * imageWidthPx / c.cfg.DisplayScaleDivisor
	if blurPx < 0 {
		blurPx = 0
	}
	if blurPx > c.cfg.MaxBlurPx {
		blurPx = c.cfg.MaxBlurPx
	}
	return blurPx, nil
}

// LayerParams describes one visual layer of the preview.
type LayerParams struct {
	// ElementDistanceM is the layer's distance from the camera.
	ElementDistanceM float64

	// ImageWidthPx is the rendered width the blur is scaled against.
	ImageWidthPx float64

	// BaseScale is the layer's scale before the perspective adjustment.
	// Zero means 1.0.
	BaseScale float64
}

// LayerTransform is the per-layer compositing result.
type LayerTransform struct {
	// BlurPx is the clamped preview blur radius.
	BlurPx float64 `json:"blur_px"`

	// Scale simulates perspective compression: longer lenses render the
	// layer smaller relative to the neutral focal length. This is a flat
	// preview heuristic, not a ray-traced 3D projection.
	Scale float64 `json:"scale"`
}

// LayerTransform combines BlurRadius with the perspective-scale heuristic
// baseScale × (neutralFocalLength / focalLength).
func (c *Calculator) LayerTransform(settings CameraSettings, params LayerParams) (LayerTransform, error) {
	blur, err := c.BlurRadius(settings, params.ElementDistanceM, params.ImageWidthPx)
	if err != nil {
		return LayerTransform{}, err
	}

	base := params.BaseScale
	if base == 0 {
		base = 1.0
	}

	return LayerTransform{
		BlurPx: blur,
		Scale:  base * c.cfg.NeutralFocalLengthMm / settings.FocalLengthMm,
	}, nil
}

// BlurRadius computes a preview blur using the default configuration.
func BlurRadius(settings CameraSettings, elementDistanceM, imageWidthPx float64) (float64, error) {
	return Default().BlurRadius(settings, elementDistanceM, imageWidthPx)
}

// CalculateLayerTransform computes a layer transform using the default
// configuration.
func CalculateLayerTransform(settings CameraSettings, params LayerParams) (LayerTransform, error) {
	return Default().LayerTransform(settings, params)
}
