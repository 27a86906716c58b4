package optics

import (
	"errors"
	"math"
	"testing"
)

func TestDOFBracketsFocusDistance(t *testing.T) {
	tests := []struct {
		name     string
		settings CameraSettings
	}{
		{"portrait 85mm", CameraSettings{85, 1.8, 3, SensorFullFrame}},
		{"standard 50mm", CameraSettings{50, 2.8, 2, SensorFullFrame}},
		{"wide 24mm", CameraSettings{24, 8, 5, SensorAPSC}},
		{"tele 200mm", CameraSettings{200, 4, 25, SensorMicroFourThirds}},
		{"landscape near hyperfocal", CameraSettings{24, 16, 50, SensorFullFrame}},
	}

	for _, tt := range tests {
		result, err := DOF(tt.settings)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if result.NearLimitM <= 0 {
			t.Errorf("%s: near limit %f should be positive", tt.name, result.NearLimitM)
		}
		if result.NearLimitM > tt.settings.FocusDistanceM {
			t.Errorf("%s: near limit %f exceeds focus distance %f",
				tt.name, result.NearLimitM, tt.settings.FocusDistanceM)
		}
		if !result.FarIsInfinite() && result.FarLimitM < tt.settings.FocusDistanceM {
			t.Errorf("%s: far limit %f is before focus distance %f",
				tt.name, result.FarLimitM, tt.settings.FocusDistanceM)
		}
	}
}

func TestDOFStandardScenario(t *testing.T) {
	// 50mm f/2.8 focused at 2m on full frame: H ≈ 29.8m, so the sharp zone
	// is a narrow band around 2m.
	result, err := DOF(CameraSettings{
		FocalLengthMm:  50,
		Aperture:       2.8,
		FocusDistanceM: 2,
		SensorType:     SensorFullFrame,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NearLimitM < 1.8 || result.NearLimitM > 1.95 {
		t.Errorf("near limit = %f, want ~1.88", result.NearLimitM)
	}
	if result.FarLimitM < 2.05 || result.FarLimitM > 2.25 {
		t.Errorf("far limit = %f, want ~2.14", result.FarLimitM)
	}
	if result.FarIsInfinite() {
		t.Error("far limit should be finite well below hyperfocal")
	}

	wantH := (50.0*50.0/(2.8*0.030) + 50.0) / 1000
	if math.Abs(result.HyperfocalDistanceM-wantH) > 0.01 {
		t.Errorf("hyperfocal = %f, want %f", result.HyperfocalDistanceM, wantH)
	}

	wantTotal := result.FarLimitM - result.NearLimitM
	if math.Abs(result.TotalDOFM-wantTotal) > 1e-9 {
		t.Errorf("total DOF = %f, want far-near = %f", result.TotalDOFM, wantTotal)
	}
}

func TestDOFUnboundedFar(t *testing.T) {
	// Focused beyond the hyperfocal distance: everything to infinity is
	// acceptably sharp.
	result, err := DOF(CameraSettings{
		FocalLengthMm:  50,
		Aperture:       2.8,
		FocusDistanceM: 40,
		SensorType:     SensorFullFrame,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.FarIsInfinite() {
		t.Fatalf("far limit = %f, want +Inf", result.FarLimitM)
	}
	if !math.IsInf(result.TotalDOFM, 1) {
		t.Errorf("total DOF = %f, want +Inf", result.TotalDOFM)
	}
	if math.IsInf(result.FrontPercent, 0) || math.IsNaN(result.FrontPercent) {
		t.Errorf("front percent should stay finite, got %f", result.FrontPercent)
	}
	if result.BackPercent <= result.FrontPercent {
		t.Errorf("unbounded back share (%f%%) should dominate front (%f%%)",
			result.BackPercent, result.FrontPercent)
	}
}

func TestDOFSplitPercentagesSum(t *testing.T) {
	settings := []CameraSettings{
		{50, 2.8, 2, SensorFullFrame},
		{35, 5.6, 4, SensorAPSC},
		{24, 11, 100, SensorFullFrame}, // unbounded far
	}
	for _, s := range settings {
		result, err := DOF(s)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", s, err)
		}
		sum := result.FrontPercent + result.BackPercent
		if math.Abs(sum-100) > 1e-6 {
			t.Errorf("%+v: percentages sum to %f, want 100", s, sum)
		}
	}
}

func TestDiffractionLimited(t *testing.T) {
	tests := []struct {
		name     string
		settings CameraSettings
		want     bool
	}{
		{"full frame f/11", CameraSettings{24, 11, 5, SensorFullFrame}, true},
		{"full frame f/2.8", CameraSettings{24, 2.8, 5, SensorFullFrame}, false},
		{"full frame f/16", CameraSettings{24, 16, 5, SensorFullFrame}, true},
		{"mft f/8 (onset f/5.5)", CameraSettings{24, 8, 5, SensorMicroFourThirds}, true},
		{"mft f/4", CameraSettings{24, 4, 5, SensorMicroFourThirds}, false},
	}

	for _, tt := range tests {
		result, err := DOF(tt.settings)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if result.IsDiffractionLimited != tt.want {
			t.Errorf("%s: IsDiffractionLimited = %v, want %v",
				tt.name, result.IsDiffractionLimited, tt.want)
		}
	}
}

func TestEquivalentFocalLength(t *testing.T) {
	sensors := DefaultSensors()
	for sensorType, sensor := range sensors {
		result, err := DOF(CameraSettings{50, 2.8, 3, sensorType})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", sensorType, err)
		}
		want := 50 * sensor.CropFactor
		if math.Abs(result.EquivalentFocalLengthMm-want) > 1e-9 {
			t.Errorf("%s: equivalent focal = %f, want %f",
				sensorType, result.EquivalentFocalLengthMm, want)
		}
	}
}

func TestDOFInvalidInputs(t *testing.T) {
	tests := []struct {
		name      string
		settings  CameraSettings
		wantField string
	}{
		{"zero focal", CameraSettings{0, 2.8, 2, SensorFullFrame}, "FocalLengthMm"},
		{"negative focal", CameraSettings{-50, 2.8, 2, SensorFullFrame}, "FocalLengthMm"},
		{"zero aperture", CameraSettings{50, 0, 2, SensorFullFrame}, "Aperture"},
		{"negative aperture", CameraSettings{50, -2.8, 2, SensorFullFrame}, "Aperture"},
		{"zero focus", CameraSettings{50, 2.8, 0, SensorFullFrame}, "FocusDistanceM"},
		{"focus inside focal length", CameraSettings{50, 2.8, 0.04, SensorFullFrame}, "FocusDistanceM"},
		{"unknown sensor", CameraSettings{50, 2.8, 2, "medium-format"}, "SensorType"},
	}

	for _, tt := range tests {
		result, err := DOF(tt.settings)
		if err == nil {
			t.Errorf("%s: expected error, got result %+v", tt.name, result)
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

func TestDOFCustomCoCNarrowsWithStricterCriterion(t *testing.T) {
	strict := DefaultSensors()
	s := strict[SensorFullFrame]
	s.CoCMm = 0.015 // half the default acceptable blur spot
	strict[SensorFullFrame] = s

	calc := New(Config{Sensors: strict})
	settings := CameraSettings{50, 2.8, 2, SensorFullFrame}

	strictResult, err := calc.DOF(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defaultResult, err := DOF(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strictResult.TotalDOFM >= defaultResult.TotalDOFM {
		t.Errorf("stricter CoC should shrink DOF: %f >= %f",
			strictResult.TotalDOFM, defaultResult.TotalDOFM)
	}
	if strictResult.HyperfocalDistanceM <= defaultResult.HyperfocalDistanceM {
		t.Errorf("stricter CoC should push hyperfocal out: %f <= %f",
			strictResult.HyperfocalDistanceM, defaultResult.HyperfocalDistanceM)
	}
}
