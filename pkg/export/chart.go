// Package export renders depth-of-field previews and tables: PNG charts,
// SVG depth diagrams, and CSV sweeps a crew can print.
package export

import (
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
)

// ChartConfig controls blur chart rendering.
type ChartConfig struct {
	WidthPx  int
	HeightPx int

	// MaxDistanceM is the right edge of the distance axis. Zero picks a
	// range that comfortably covers the DOF band and the layers.
	MaxDistanceM float64
}

// DefaultChartConfig returns the dimensions used by the CLI exporter.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{WidthPx: 1200, HeightPx: 675}
}

const chartMargin = 60.0

// RenderBlurChart draws blur-versus-distance for the preset's camera and
// writes a PNG: the defocus curve, the acceptably-sharp band, the focus and
// hyperfocal markers, and one marker per scene layer.
func RenderBlurChart(calc *optics.Calculator, preset model.Preset, cfg ChartConfig, path string) error {
	if cfg.WidthPx <= 0 || cfg.HeightPx <= 0 {
		def := DefaultChartConfig()
		cfg.WidthPx, cfg.HeightPx = def.WidthPx, def.HeightPx
	}

	settings := preset.Camera
	dof, err := calc.DOF(settings)
	if err != nil {
		return fmt.Errorf("chart for %q: %w", preset.Name, err)
	}

	maxDist := cfg.MaxDistanceM
	if maxDist == 0 {
		maxDist = autoRangeM(dof, preset.Layers)
	}

	imageWidth := float64(cfg.WidthPx)
	maxBlur := calc.Config().MaxBlurPx

	dc := gg.NewContext(cfg.WidthPx, cfg.HeightPx)

	face, err := chartFace(13)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	// Background.
	dc.SetRGB(0.11, 0.11, 0.13)
	dc.Clear()

	plotW := float64(cfg.WidthPx) - 2*chartMargin
	plotH := float64(cfg.HeightPx) - 2*chartMargin

	xAt := func(distM float64) float64 {
		return chartMargin + distM/maxDist*plotW
	}
	yAt := func(blurPx float64) float64 {
		return chartMargin + (1-blurPx/maxBlur)*plotH
	}

	// Acceptably sharp band.
	bandLeft := xAt(dof.NearLimitM)
	bandRight := xAt(maxDist)
	if !dof.FarIsInfinite() && dof.FarLimitM < maxDist {
		bandRight = xAt(dof.FarLimitM)
	}
	dc.SetRGBA(0.31, 0.98, 0.48, 0.12)
	dc.DrawRectangle(bandLeft, chartMargin, bandRight-bandLeft, plotH)
	dc.Fill()

	// Axes.
	dc.SetRGB(0.55, 0.56, 0.67)
	dc.SetLineWidth(1)
	dc.DrawLine(chartMargin, chartMargin+plotH, chartMargin+plotW, chartMargin+plotH)
	dc.DrawLine(chartMargin, chartMargin, chartMargin, chartMargin+plotH)
	dc.Stroke()
	dc.DrawStringAnchored("distance (m)", chartMargin+plotW/2, float64(cfg.HeightPx)-chartMargin/3, 0.5, 0.5)
	dc.DrawStringAnchored("blur (px)", chartMargin/3, chartMargin/2, 0, 0.5)

	// Defocus curve, sampled across the axis.
	dc.SetRGB(0.74, 0.58, 0.98)
	dc.SetLineWidth(2)
	const samples = 400
	started := false
	for i := 0; i <= samples; i++ {
		dist := maxDist * float64(i) / samples
		if dist <= 0 {
			continue
		}
		blur, err := calc.BlurRadius(settings, dist, imageWidth)
		if err != nil {
			continue // distances inside the focal length are not focusable
		}
		x, y := xAt(dist), yAt(blur)
		if !started {
			dc.MoveTo(x, y)
			started = true
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	// Focus plane marker.
	dc.SetRGB(0.55, 0.91, 0.99)
	dc.SetLineWidth(1.5)
	fx := xAt(settings.FocusDistanceM)
	dc.DrawLine(fx, chartMargin, fx, chartMargin+plotH)
	dc.Stroke()
	dc.DrawStringAnchored(fmt.Sprintf("focus %.2gm", settings.FocusDistanceM), fx, chartMargin-12, 0.5, 0.5)

	// Hyperfocal marker, when on axis.
	if dof.HyperfocalDistanceM < maxDist {
		dc.SetRGB(1.0, 0.72, 0.42)
		hx := xAt(dof.HyperfocalDistanceM)
		dc.DrawLine(hx, chartMargin, hx, chartMargin+plotH)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("hyperfocal %.3gm", dof.HyperfocalDistanceM), hx, chartMargin-12, 0.5, 0.5)
	}

	// Layer markers on the curve.
	dc.SetRGB(0.97, 0.97, 0.95)
	for _, layer := range preset.Layers {
		if layer.DistanceM > maxDist {
			continue
		}
		blur, err := calc.BlurRadius(settings, layer.DistanceM, imageWidth)
		if err != nil {
			continue
		}
		x, y := xAt(layer.DistanceM), yAt(blur)
		dc.DrawCircle(x, y, 4)
		dc.Fill()
		dc.DrawStringAnchored(layer.Name, x, y-14, 0.5, 0.5)
	}

	// Title.
	title := fmt.Sprintf("%s — %.0fmm f/%.1f @ %.2gm (%s)",
		preset.Name, settings.FocalLengthMm, settings.Aperture,
		settings.FocusDistanceM, settings.SensorType)
	dc.DrawStringAnchored(title, float64(cfg.WidthPx)/2, chartMargin/2, 0.5, 0.5)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	return nil
}

// autoRangeM picks a distance axis covering the focus plane, the finite far
// limit, and every layer, with some headroom.
func autoRangeM(dof optics.DOFResult, layers []model.Layer) float64 {
	max := dof.NearLimitM * 4
	if !dof.FarIsInfinite() {
		max = math.Max(max, dof.FarLimitM*1.5)
	}
	max = math.Max(max, dof.HyperfocalDistanceM*0.5)
	for _, l := range layers {
		max = math.Max(max, l.DistanceM*1.2)
	}
	if max < 1 {
		max = 1
	}
	return max
}

func chartFace(size float64) (font.Face, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse chart font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build chart font face: %w", err)
	}
	return face, nil
}
