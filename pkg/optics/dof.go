package optics

import "math"

// DOFResult is the derived depth-of-field report for one CameraSettings.
// It has no persisted identity; recompute it whenever a parameter changes.
type DOFResult struct {
	// NearLimitM and FarLimitM bracket the acceptably sharp range.
	// FarLimitM is +Inf when focus is at or beyond the hyperfocal distance.
	NearLimitM float64 `json:"near_limit_m"`
	FarLimitM  float64 `json:"far_limit_m"`

	// TotalDOFM is FarLimitM - NearLimitM, +Inf when the far limit is.
	TotalDOFM float64 `json:"total_dof_m"`

	HyperfocalDistanceM float64 `json:"hyperfocal_distance_m"`

	// FrontDOFM/BackDOFM split the sharp range around the focus plane.
	// When the far limit is unbounded the back share (and the percentages)
	// are computed against a synthetic far reference so a ratio can still
	// be displayed; see Config.SyntheticFarReferenceM.
	FrontDOFM    float64 `json:"front_dof_m"`
	BackDOFM     float64 `json:"back_dof_m"`
	FrontPercent float64 `json:"front_percent"`
	BackPercent  float64 `json:"back_percent"`

	EquivalentFocalLengthMm float64 `json:"equivalent_focal_length_mm"`
	IsDiffractionLimited    bool    `json:"is_diffraction_limited"`
}

// FarIsInfinite returns true when everything beyond the near limit is
// acceptably sharp.
func (r DOFResult) FarIsInfinite() bool {
	return math.IsInf(r.FarLimitM, 1)
}

// DOF computes the depth-of-field report for the given settings.
//
// Hyperfocal distance is H = f²/(N·c) + f with f and the circle of
// confusion c in millimeters. Near and far limits follow the standard
// thin-lens forms Dn = H·s/(H+(s−f)) and Df = H·s/(H−(s−f)); when the far
// denominator is not positive the far limit is unbounded, which is a valid
// result, not an error.
//
// Fails with *InvalidParameterError when focal length, aperture, or focus
// distance is non-positive, when the sensor type is unknown, or when the
// focus distance does not exceed the focal length (the lens cannot form a
// focused image there and the limit formulas degenerate).
func (c *Calculator) DOF(settings CameraSettings) (DOFResult, error) {
	sensor, err := c.validateSettings(settings)
	if err != nil {
		return DOFResult{}, err
	}

	f := settings.FocalLengthMm
	n := settings.Aperture
	sMm := settings.FocusDistanceM * 1000

	if sMm <= f {
		return DOFResult{}, &InvalidParameterError{
			Field:  "FocusDistanceM",
			Value:  settings.FocusDistanceM,
			Reason: "focus distance must exceed the focal length",
		}
	}

	hMm := f*f/(n*sensor.CoCMm) + f

	nearMm := hMm * sMm / (hMm + (sMm - f))
	farMm := math.Inf(1)
	if denom := hMm - (sMm - f); denom > 0 {
		farMm = hMm * sMm / denom
	}

	nearM := nearMm / 1000
	farM := farMm / 1000
	focusM := settings.FocusDistanceM

	front := focusM - nearM
	var back, total float64
	if math.IsInf(farM, 1) {
		back = math.Inf(1)
		total = math.Inf(1)
	} else {
		back = farM - focusM
		total = farM - nearM
	}

	frontPct, backPct := splitPercentages(front, back, focusM, c.cfg.SyntheticFarReferenceM)

	onset := c.cfg.DiffractionOnsetFullFrame / sensor.CropFactor

	return DOFResult{
		NearLimitM:              nearM,
		FarLimitM:               farM,
		TotalDOFM:               total,
		HyperfocalDistanceM:     hMm / 1000,
		FrontDOFM:               front,
		BackDOFM:                back,
		FrontPercent:            frontPct,
		BackPercent:             backPct,
		EquivalentFocalLengthMm: f * sensor.CropFactor,
		IsDiffractionLimited:    n >= onset,
	}, nil
}

// splitPercentages reports how the sharp range is distributed in front of
// and behind the focus plane. For an unbounded far limit the back share is
// measured to farReferenceM (stretched past a very distant focus plane so
// the share stays positive). Display-only heuristic, not physically exact.
func splitPercentages(front, back, focusM, farReferenceM float64) (frontPct, backPct float64) {
	if math.IsInf(back, 1) {
		ref := farReferenceM
		if ref < 2*focusM {
			ref = 2 * focusM
		}
		back = ref - focusM
	}
	total := front + back
	if total <= 0 {
		return 0, 0
	}
	return front / total * 100, back / total * 100
}

// DOF computes a depth-of-field report using the default configuration.
func DOF(settings CameraSettings) (DOFResult, error) {
	return Default().DOF(settings)
}
