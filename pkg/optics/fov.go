package optics

import "math"

// FOV is the angle of view along each axis, in degrees.
type FOV struct {
	HorizontalDeg float64 `json:"horizontal_deg"`
	VerticalDeg   float64 `json:"vertical_deg"`
	DiagonalDeg   float64 `json:"diagonal_deg"`
}

// FOV computes the angle of view 2·atan(dimension/(2·focal)) per axis for
// the sensor's physical dimensions.
func (c *Calculator) FOV(focalLengthMm float64, sensorType SensorType) (FOV, error) {
	if focalLengthMm <= 0 {
		return FOV{}, &InvalidParameterError{
			Field:  "FocalLengthMm",
			Value:  focalLengthMm,
			Reason: "focal length must be positive",
		}
	}
	sensor, err := c.Sensor(sensorType)
	if err != nil {
		return FOV{}, err
	}

	diagMm := math.Hypot(sensor.WidthMm, sensor.HeightMm)

	return FOV{
		HorizontalDeg: angleOfViewDeg(sensor.WidthMm, focalLengthMm),
		VerticalDeg:   angleOfViewDeg(sensor.HeightMm, focalLengthMm),
		DiagonalDeg:   angleOfViewDeg(diagMm, focalLengthMm),
	}, nil
}

func angleOfViewDeg(dimensionMm, focalLengthMm float64) float64 {
	return 2 * math.Atan(dimensionMm/(2*focalLengthMm)) * 180 / math.Pi
}

// CalculateFOV computes the angle of view using the default configuration.
func CalculateFOV(focalLengthMm float64, sensorType SensorType) (FOV, error) {
	return Default().FOV(focalLengthMm, sensorType)
}
