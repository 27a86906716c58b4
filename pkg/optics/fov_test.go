package optics

import (
	"errors"
	"math"
	"testing"
)

func TestFOVNarrowsWithFocalLength(t *testing.T) {
	focals := []float64{12, 24, 50, 85, 200, 600}

	prev := FOV{HorizontalDeg: 181, VerticalDeg: 181, DiagonalDeg: 181}
	for _, f := range focals {
		fov, err := CalculateFOV(f, SensorFullFrame)
		if err != nil {
			t.Fatalf("%vmm: unexpected error: %v", f, err)
		}
		if fov.HorizontalDeg >= prev.HorizontalDeg {
			t.Errorf("%vmm: horizontal %f did not narrow from %f", f, fov.HorizontalDeg, prev.HorizontalDeg)
		}
		if fov.VerticalDeg >= prev.VerticalDeg {
			t.Errorf("%vmm: vertical %f did not narrow from %f", f, fov.VerticalDeg, prev.VerticalDeg)
		}
		prev = fov
	}
}

func TestFOVKnownValues(t *testing.T) {
	// 50mm on full frame is the textbook normal lens: ~39.6° × 27.0°, 46.8° diagonal.
	fov, err := CalculateFOV(50, SensorFullFrame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(fov.HorizontalDeg-39.6) > 0.1 {
		t.Errorf("horizontal = %f, want ~39.6", fov.HorizontalDeg)
	}
	if math.Abs(fov.VerticalDeg-26.99) > 0.1 {
		t.Errorf("vertical = %f, want ~27.0", fov.VerticalDeg)
	}
	if math.Abs(fov.DiagonalDeg-46.79) > 0.1 {
		t.Errorf("diagonal = %f, want ~46.8", fov.DiagonalDeg)
	}
}

func TestFOVDiagonalIsWidest(t *testing.T) {
	for sensorType := range DefaultSensors() {
		fov, err := CalculateFOV(35, sensorType)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", sensorType, err)
		}
		if fov.DiagonalDeg <= fov.HorizontalDeg || fov.DiagonalDeg <= fov.VerticalDeg {
			t.Errorf("%s: diagonal %f should exceed horizontal %f and vertical %f",
				sensorType, fov.DiagonalDeg, fov.HorizontalDeg, fov.VerticalDeg)
		}
	}
}

func TestFOVSmallerSensorNarrower(t *testing.T) {
	ff, err := CalculateFOV(50, SensorFullFrame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mft, err := CalculateFOV(50, SensorMicroFourThirds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mft.HorizontalDeg >= ff.HorizontalDeg {
		t.Errorf("MFT horizontal %f should be narrower than full frame %f",
			mft.HorizontalDeg, ff.HorizontalDeg)
	}
}

func TestFOVInvalidInputs(t *testing.T) {
	_, err := CalculateFOV(0, SensorFullFrame)
	var invalid *InvalidParameterError
	if !errors.As(err, &invalid) || invalid.Field != "FocalLengthMm" {
		t.Errorf("zero focal length: got %v, want InvalidParameter on FocalLengthMm", err)
	}

	_, err = CalculateFOV(50, "large-format")
	if !errors.As(err, &invalid) || invalid.Field != "SensorType" {
		t.Errorf("unknown sensor: got %v, want InvalidParameter on SensorType", err)
	}
}
