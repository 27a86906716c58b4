// Package rack plans rack-focus moves: given focus-distance keyframes at
// frame numbers, it interpolates a per-frame focus schedule and reports the
// depth-of-field limits and subject blur along the pull.
package rack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/finderworks/viewfinder/pkg/optics"
)

// Keyframe pins the focus distance at a frame number.
type Keyframe struct {
	Frame          int     `json:"frame" yaml:"frame"`
	FocusDistanceM float64 `json:"focus_distance_m" yaml:"focus_distance_m"`
}

// Sample is the planned state for a single frame of the pull.
type Sample struct {
	Frame          int     `json:"frame"`
	FocusDistanceM float64 `json:"focus_distance_m"`
	NearLimitM     float64 `json:"near_limit_m"`
	FarLimitM      float64 `json:"far_limit_m"` // +Inf when unbounded
	TargetBlurPx   float64 `json:"target_blur_px"`
}

// Plan is a fully sampled focus pull.
type Plan struct {
	Camera optics.CameraSettings `json:"camera"`

	// TargetDistanceM is the distance whose blur is tracked per frame:
	// the focus distance of the final keyframe, i.e. where the pull lands.
	TargetDistanceM float64 `json:"target_distance_m"`

	Samples []Sample `json:"samples"`
}

// Options tune plan generation.
type Options struct {
	// ImageWidthPx scales the per-frame blur readout. Zero means 1920.
	ImageWidthPx float64
}

// DefaultImageWidthPx is the preview width blur is scaled against when
// Options does not set one.
const DefaultImageWidthPx = 1920.0

// PlanPull samples a focus pull frame by frame. Keyframes must be in
// strictly increasing frame order with positive distances; at least two are
// required. Three or more keyframes are eased with an Akima spline, two
// fall back to a linear ramp.
//
// The camera's FocusDistanceM field is ignored; the keyframes drive focus.
func PlanPull(calc *optics.Calculator, camera optics.CameraSettings, keys []Keyframe, opts Options) (Plan, error) {
	if len(keys) < 2 {
		return Plan{}, fmt.Errorf("focus pull needs at least 2 keyframes, got %d", len(keys))
	}

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		if i > 0 && k.Frame <= keys[i-1].Frame {
			return Plan{}, fmt.Errorf("keyframe %d: frame %d must follow frame %d", i, k.Frame, keys[i-1].Frame)
		}
		if k.FocusDistanceM <= 0 {
			return Plan{}, fmt.Errorf("keyframe %d: focus distance must be positive, got %v", i, k.FocusDistanceM)
		}
		xs[i] = float64(k.Frame)
		ys[i] = k.FocusDistanceM
	}

	var predictor interp.FittablePredictor
	if len(keys) >= 3 {
		predictor = &interp.AkimaSpline{}
	} else {
		predictor = &interp.PiecewiseLinear{}
	}
	if err := predictor.Fit(xs, ys); err != nil {
		return Plan{}, fmt.Errorf("fit focus curve: %w", err)
	}

	imageWidth := opts.ImageWidthPx
	if imageWidth == 0 {
		imageWidth = DefaultImageWidthPx
	}

	// Splines can overshoot below the physically focusable range between
	// keyframes; clamp the schedule to just past the focal length.
	minFocusM := camera.FocalLengthMm/1000 + 0.001

	target := keys[len(keys)-1].FocusDistanceM
	first, last := keys[0].Frame, keys[len(keys)-1].Frame

	plan := Plan{
		Camera:          camera,
		TargetDistanceM: target,
		Samples:         make([]Sample, 0, last-first+1),
	}

	for frame := first; frame <= last; frame++ {
		focus := predictor.Predict(float64(frame))
		if focus < minFocusM {
			focus = minFocusM
		}

		settings := camera
		settings.FocusDistanceM = focus

		dof, err := calc.DOF(settings)
		if err != nil {
			return Plan{}, fmt.Errorf("frame %d: %w", frame, err)
		}
		blur, err := calc.BlurRadius(settings, target, imageWidth)
		if err != nil {
			return Plan{}, fmt.Errorf("frame %d: %w", frame, err)
		}

		plan.Samples = append(plan.Samples, Sample{
			Frame:          frame,
			FocusDistanceM: focus,
			NearLimitM:     dof.NearLimitM,
			FarLimitM:      dof.FarLimitM,
			TargetBlurPx:   blur,
		})
	}

	return plan, nil
}

// Duration returns the pull length in frames.
func (p Plan) Duration() int {
	return len(p.Samples)
}

// MaxTargetBlurPx returns the worst-case target blur across the pull.
func (p Plan) MaxTargetBlurPx() float64 {
	max := 0.0
	for _, s := range p.Samples {
		max = math.Max(max, s.TargetBlurPx)
	}
	return max
}
