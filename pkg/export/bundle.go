package export

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
	"github.com/finderworks/viewfinder/pkg/rack"
)

// Bundle file names inside the export directory.
const (
	ChartFile   = "chart.png"
	DiagramFile = "depth.svg"
	SweepFile   = "sweep.csv"
	PullFile    = "pull.csv"
)

// ExportBundle writes the full export set for a preset into dir: the PNG
// blur chart, the SVG depth diagram, and the aperture-sweep CSV, plus the
// per-frame pull CSV when a plan is given. The writers are independent and
// run concurrently.
func ExportBundle(dir string, calc *optics.Calculator, preset model.Preset, plan *rack.Plan) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	var g errgroup.Group

	g.Go(func() error {
		return RenderBlurChart(calc, preset, DefaultChartConfig(), filepath.Join(dir, ChartFile))
	})

	g.Go(func() error {
		return writeFile(filepath.Join(dir, DiagramFile), func(f *os.File) error {
			return WriteDepthDiagram(f, calc, preset)
		})
	})

	g.Go(func() error {
		return writeFile(filepath.Join(dir, SweepFile), func(f *os.File) error {
			return WriteSweepCSV(f, calc, preset.Camera)
		})
	})

	if plan != nil {
		g.Go(func() error {
			return writeFile(filepath.Join(dir, PullFile), func(f *os.File) error {
				return WritePullCSV(f, *plan)
			})
		})
	}

	return g.Wait()
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
