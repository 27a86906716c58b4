package optics

import (
	"errors"
	"math"
	"testing"
)

const testImageWidthPx = 1920

func TestBlurZeroAtFocus(t *testing.T) {
	settings := CameraSettings{50, 2.8, 2, SensorFullFrame}

	blur, err := BlurRadius(settings, 2, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blur != 0 {
		t.Errorf("blur at focus = %f, want exactly 0", blur)
	}

	// Inside the epsilon window still counts as at focus.
	blur, err = BlurRadius(settings, 2.0005, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blur != 0 {
		t.Errorf("blur inside epsilon window = %f, want exactly 0", blur)
	}
}

func TestBlurMonotonicWithDistanceFromFocus(t *testing.T) {
	settings := CameraSettings{50, 2.8, 2, SensorFullFrame}

	// Behind the focus plane.
	behind := []float64{2.5, 3, 5, 10, 50}
	prev := 0.0
	for _, d := range behind {
		blur, err := BlurRadius(settings, d, testImageWidthPx)
		if err != nil {
			t.Fatalf("distance %f: unexpected error: %v", d, err)
		}
		if blur < prev {
			t.Errorf("blur at %fm (%f) decreased from previous (%f)", d, blur, prev)
		}
		prev = blur
	}

	// In front of the focus plane, moving toward the camera.
	front := []float64{1.8, 1.5, 1.0, 0.5}
	prev = 0.0
	for _, d := range front {
		blur, err := BlurRadius(settings, d, testImageWidthPx)
		if err != nil {
			t.Fatalf("distance %f: unexpected error: %v", d, err)
		}
		if blur < prev {
			t.Errorf("blur at %fm (%f) decreased while moving away from focus (%f)", d, blur, prev)
		}
		prev = blur
	}
}

func TestBlurIncreasesWithWiderAperture(t *testing.T) {
	apertures := []float64{8, 4, 2.8, 1.4} // narrowing f-number = opening up
	prev := 0.0
	for _, n := range apertures {
		settings := CameraSettings{50, n, 2, SensorFullFrame}
		blur, err := BlurRadius(settings, 5, testImageWidthPx)
		if err != nil {
			t.Fatalf("f/%.1f: unexpected error: %v", n, err)
		}
		if blur <= prev {
			t.Errorf("f/%.1f: blur %f should exceed blur at the previous narrower aperture (%f)",
				n, blur, prev)
		}
		prev = blur
	}
}

func TestBlurScenarioFarElementBlursMore(t *testing.T) {
	settings := CameraSettings{50, 2.8, 2, SensorFullFrame}

	at10, err := BlurRadius(settings, 10, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	at50, err := BlurRadius(settings, 50, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if at50 <= at10 {
		t.Errorf("blur at 50m (%f) should exceed blur at 10m (%f)", at50, at10)
	}
}

func TestBlurClampedToMax(t *testing.T) {
	// A fast long lens focused close throws far elements into extreme
	// defocus; the preview bound must hold.
	settings := CameraSettings{200, 1.0, 1, SensorMicroFourThirds}

	blur, err := BlurRadius(settings, 500, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blur != DefaultMaxBlurPx {
		t.Errorf("extreme blur = %f, want clamp at %f", blur, DefaultMaxBlurPx)
	}
}

func TestBlurAtInfinity(t *testing.T) {
	settings := CameraSettings{50, 2.8, 2, SensorFullFrame}

	atInf, err := BlurRadius(settings, math.Inf(1), testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atInf <= 0 {
		t.Errorf("blur at infinity = %f, want positive", atInf)
	}

	// A finite distance past the threshold uses the same formula.
	atFar, err := BlurRadius(settings, DefaultInfiniteDistanceM, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atFar != atInf {
		t.Errorf("blur at threshold distance = %f, want %f", atFar, atInf)
	}
}

func TestBlurInvalidInputs(t *testing.T) {
	valid := CameraSettings{50, 2.8, 2, SensorFullFrame}

	tests := []struct {
		name      string
		settings  CameraSettings
		distance  float64
		width     float64
		wantField string
	}{
		{"zero element distance", valid, 0, testImageWidthPx, "ElementDistanceM"},
		{"negative element distance", valid, -1, testImageWidthPx, "ElementDistanceM"},
		{"zero image width", valid, 5, 0, "ImageWidthPx"},
		{"zero focal length", CameraSettings{0, 2.8, 2, SensorFullFrame}, 5, testImageWidthPx, "FocalLengthMm"},
	}

	for _, tt := range tests {
		_, err := BlurRadius(tt.settings, tt.distance, tt.width)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var invalid *InvalidParameterError
		if !errors.As(err, &invalid) {
			t.Errorf("%s: error is %T, want *InvalidParameterError", tt.name, err)
			continue
		}
		if invalid.Field != tt.wantField {
			t.Errorf("%s: error field = %s, want %s", tt.name, invalid.Field, tt.wantField)
		}
	}
}

func TestLayerTransformScale(t *testing.T) {
	tests := []struct {
		name      string
		focal     float64
		baseScale float64
		wantScale float64
	}{
		{"wide doubles", 25, 1.0, 2.0},
		{"neutral is identity", 50, 1.0, 1.0},
		{"tele halves", 100, 1.0, 0.5},
		{"base scale carries through", 50, 2.0, 2.0},
		{"zero base defaults to one", 100, 0, 0.5},
	}

	for _, tt := range tests {
		settings := CameraSettings{tt.focal, 2.8, 2, SensorFullFrame}
		transform, err := CalculateLayerTransform(settings, LayerParams{
			ElementDistanceM: 5,
			ImageWidthPx:     testImageWidthPx,
			BaseScale:        tt.baseScale,
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if math.Abs(transform.Scale-tt.wantScale) > 1e-9 {
			t.Errorf("%s: scale = %f, want %f", tt.name, transform.Scale, tt.wantScale)
		}
	}
}

func TestLayerTransformBlurMatchesBlurRadius(t *testing.T) {
	settings := CameraSettings{85, 1.8, 3, SensorFullFrame}

	transform, err := CalculateLayerTransform(settings, LayerParams{
		ElementDistanceM: 8,
		ImageWidthPx:     testImageWidthPx,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blur, err := BlurRadius(settings, 8, testImageWidthPx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transform.BlurPx != blur {
		t.Errorf("layer blur = %f, BlurRadius = %f, want identical", transform.BlurPx, blur)
	}
}
