package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finderworks/viewfinder/pkg/loader"
	"github.com/finderworks/viewfinder/pkg/optics"
	"github.com/finderworks/viewfinder/pkg/rack"
)

func TestWriteSweepCSV(t *testing.T) {
	var buf bytes.Buffer
	settings := optics.CameraSettings{
		FocalLengthMm:  50,
		Aperture:       2.8,
		FocusDistanceM: 2,
		SensorType:     optics.SensorFullFrame,
	}

	if err := WriteSweepCSV(&buf, optics.Default(), settings); err != nil {
		t.Fatalf("WriteSweepCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != len(StandardApertures)+1 {
		t.Fatalf("got %d rows, want header + %d", len(records), len(StandardApertures))
	}
	if records[0][0] != "aperture" {
		t.Errorf("header = %v", records[0])
	}

	// f/22 on full frame is past the diffraction onset.
	last := records[len(records)-1]
	if last[5] != "true" {
		t.Errorf("f/22 diffraction_limited = %s, want true", last[5])
	}
	// f/1.4 is not.
	if records[1][5] != "false" {
		t.Errorf("f/1.4 diffraction_limited = %s, want false", records[1][5])
	}
}

func TestApertureSweepDOFWidensWhenStoppingDown(t *testing.T) {
	settings := optics.CameraSettings{
		FocalLengthMm:  50,
		Aperture:       2.8,
		FocusDistanceM: 2,
		SensorType:     optics.SensorFullFrame,
	}
	rows, err := ApertureSweep(optics.Default(), settings)
	if err != nil {
		t.Fatalf("ApertureSweep: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].TotalDOFM <= rows[i-1].TotalDOFM {
			t.Errorf("f/%.1f: total DOF %f did not widen from f/%.1f (%f)",
				rows[i].Aperture, rows[i].TotalDOFM, rows[i-1].Aperture, rows[i-1].TotalDOFM)
		}
	}
}

func TestWriteDepthDiagram(t *testing.T) {
	presets := loader.BuiltinPresets()

	var buf bytes.Buffer
	if err := WriteDepthDiagram(&buf, optics.Default(), presets[1]); err != nil {
		t.Fatalf("WriteDepthDiagram: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Error("output is not an SVG document")
	}
	for _, layer := range presets[1].Layers {
		if !strings.Contains(out, layer.Name) {
			t.Errorf("diagram missing layer %q", layer.Name)
		}
	}
}

func TestWritePullCSV(t *testing.T) {
	camera := optics.CameraSettings{
		FocalLengthMm: 85,
		Aperture:      1.8,
		SensorType:    optics.SensorFullFrame,
	}
	plan, err := rack.PlanPull(optics.Default(), camera, []rack.Keyframe{
		{Frame: 0, FocusDistanceM: 2},
		{Frame: 10, FocusDistanceM: 4},
	}, rack.Options{})
	if err != nil {
		t.Fatalf("PlanPull: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePullCSV(&buf, plan); err != nil {
		t.Fatalf("WritePullCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != plan.Duration()+1 {
		t.Errorf("got %d rows, want header + %d samples", len(records), plan.Duration())
	}
}

func TestExportBundle(t *testing.T) {
	dir := t.TempDir()
	presets := loader.BuiltinPresets()

	if err := ExportBundle(dir, optics.Default(), presets[0], nil); err != nil {
		t.Fatalf("ExportBundle: %v", err)
	}

	for _, name := range []string{ChartFile, DiagramFile, SweepFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	// No plan means no pull CSV.
	if _, err := os.Stat(filepath.Join(dir, PullFile)); !os.IsNotExist(err) {
		t.Errorf("pull.csv should not exist without a plan")
	}
}

func TestRenderBlurChartInvalidCamera(t *testing.T) {
	presets := loader.BuiltinPresets()
	bad := presets[0].Clone()
	bad.Camera.Aperture = -1

	err := RenderBlurChart(optics.Default(), bad, DefaultChartConfig(), filepath.Join(t.TempDir(), "x.png"))
	if err == nil {
		t.Error("expected error for invalid camera settings")
	}
}
