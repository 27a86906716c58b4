package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/finderworks/viewfinder/pkg/optics"
	"github.com/finderworks/viewfinder/pkg/rack"
)

// StandardApertures is the full-stop series swept by WriteSweepCSV.
var StandardApertures = []float64{1.4, 2, 2.8, 4, 5.6, 8, 11, 16, 22}

// SweepRow is one aperture's depth-of-field summary at fixed focal length
// and focus distance.
type SweepRow struct {
	Aperture             float64
	NearLimitM           float64
	FarLimitM            float64
	TotalDOFM            float64
	HyperfocalDistanceM  float64
	IsDiffractionLimited bool
}

// ApertureSweep computes the DOF summary across StandardApertures with the
// other camera parameters held fixed.
func ApertureSweep(calc *optics.Calculator, settings optics.CameraSettings) ([]SweepRow, error) {
	rows := make([]SweepRow, 0, len(StandardApertures))
	for _, n := range StandardApertures {
		s := settings
		s.Aperture = n
		dof, err := calc.DOF(s)
		if err != nil {
			return nil, fmt.Errorf("sweep f/%.1f: %w", n, err)
		}
		rows = append(rows, SweepRow{
			Aperture:             n,
			NearLimitM:           dof.NearLimitM,
			FarLimitM:            dof.FarLimitM,
			TotalDOFM:            dof.TotalDOFM,
			HyperfocalDistanceM:  dof.HyperfocalDistanceM,
			IsDiffractionLimited: dof.IsDiffractionLimited,
		})
	}
	return rows, nil
}

// WriteSweepCSV writes the aperture sweep as CSV. Unbounded limits are
// written as "inf".
func WriteSweepCSV(w io.Writer, calc *optics.Calculator, settings optics.CameraSettings) error {
	rows, err := ApertureSweep(calc, settings)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"aperture", "near_limit_m", "far_limit_m", "total_dof_m", "hyperfocal_m", "diffraction_limited"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			formatFloat(r.Aperture),
			formatFloat(r.NearLimitM),
			formatFloat(r.FarLimitM),
			formatFloat(r.TotalDOFM),
			formatFloat(r.HyperfocalDistanceM),
			strconv.FormatBool(r.IsDiffractionLimited),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePullCSV writes a rack-focus plan as a per-frame CSV for the focus
// puller.
func WritePullCSV(w io.Writer, plan rack.Plan) error {
	cw := csv.NewWriter(w)
	header := []string{"frame", "focus_distance_m", "near_limit_m", "far_limit_m", "target_blur_px"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range plan.Samples {
		record := []string{
			strconv.Itoa(s.Frame),
			formatFloat(s.FocusDistanceM),
			formatFloat(s.NearLimitM),
			formatFloat(s.FarLimitM),
			formatFloat(s.TargetBlurPx),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
