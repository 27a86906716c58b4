package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
)

// Depth diagram dimensions.
const (
	diagramWidth  = 1000
	diagramHeight = 360
	diagramMargin = 70
)

// WriteDepthDiagram writes a top-down SVG depth diagram for the preset:
// a distance ruler from the camera, the acceptably-sharp band, the focus
// plane, and one dot per layer sized by its preview blur.
func WriteDepthDiagram(w io.Writer, calc *optics.Calculator, preset model.Preset) error {
	settings := preset.Camera
	dof, err := calc.DOF(settings)
	if err != nil {
		return fmt.Errorf("depth diagram for %q: %w", preset.Name, err)
	}

	maxDist := autoRangeM(dof, preset.Layers)
	axisW := diagramWidth - 2*diagramMargin
	axisY := diagramHeight - diagramMargin

	xAt := func(distM float64) int {
		return diagramMargin + int(distM/maxDist*float64(axisW))
	}

	canvas := svg.New(w)
	canvas.Start(diagramWidth, diagramHeight)
	canvas.Rect(0, 0, diagramWidth, diagramHeight, "fill:#1c1c21")

	// Title.
	title := fmt.Sprintf("%s — %.0fmm f/%.1f @ %.2gm (%s)",
		preset.Name, settings.FocalLengthMm, settings.Aperture,
		settings.FocusDistanceM, settings.SensorType)
	canvas.Text(diagramWidth/2, diagramMargin/2, title,
		"fill:#f8f8f2;font-size:16px;font-family:sans-serif;text-anchor:middle")

	// Acceptably sharp band.
	bandLeft := xAt(dof.NearLimitM)
	bandRight := xAt(maxDist)
	farLabel := "∞"
	if !dof.FarIsInfinite() {
		farLabel = fmt.Sprintf("%.2fm", dof.FarLimitM)
		if dof.FarLimitM < maxDist {
			bandRight = xAt(dof.FarLimitM)
		}
	}
	canvas.Rect(bandLeft, diagramMargin, bandRight-bandLeft, axisY-diagramMargin,
		"fill:#50fa7b;fill-opacity:0.15")
	canvas.Text(bandLeft, axisY+34, fmt.Sprintf("near %.2fm", dof.NearLimitM),
		"fill:#50fa7b;font-size:12px;font-family:sans-serif")
	canvas.Text(bandRight, axisY+34, "far "+farLabel,
		"fill:#50fa7b;font-size:12px;font-family:sans-serif;text-anchor:end")

	// Distance axis with camera at the origin.
	canvas.Line(diagramMargin, axisY, diagramWidth-diagramMargin, axisY,
		"stroke:#6272a4;stroke-width:1")
	canvas.Text(diagramMargin, axisY+18, "camera",
		"fill:#8b8da0;font-size:12px;font-family:sans-serif")
	canvas.Text(diagramWidth-diagramMargin, axisY+18, fmt.Sprintf("%.3gm", maxDist),
		"fill:#8b8da0;font-size:12px;font-family:sans-serif;text-anchor:end")

	// Focus plane.
	fx := xAt(settings.FocusDistanceM)
	canvas.Line(fx, diagramMargin, fx, axisY, "stroke:#8be9fd;stroke-width:2")
	canvas.Text(fx, diagramMargin-8, fmt.Sprintf("focus %.2gm", settings.FocusDistanceM),
		"fill:#8be9fd;font-size:12px;font-family:sans-serif;text-anchor:middle")

	// Layers, dot radius scaled by preview blur.
	layerY := diagramMargin + (axisY-diagramMargin)/2
	for _, layer := range preset.Layers {
		if layer.DistanceM > maxDist {
			continue
		}
		blur, err := calc.BlurRadius(settings, layer.DistanceM, diagramWidth)
		if err != nil {
			continue
		}
		r := 4 + int(blur/4)
		if r > 26 {
			r = 26
		}
		lx := xAt(layer.DistanceM)
		canvas.Circle(lx, layerY, r, "fill:#bd93f9;fill-opacity:0.8")
		canvas.Text(lx, layerY-r-8,
			fmt.Sprintf("%s %.2gm (%.1fpx)", layer.Name, layer.DistanceM, blur),
			"fill:#f8f8f2;font-size:12px;font-family:sans-serif;text-anchor:middle")
	}

	canvas.End()
	return nil
}
