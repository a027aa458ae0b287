package solar

import "renewable_simulator/internal/numeric"

// Orientation is a parabolic penalty around the optimal tilt and azimuth.
// Azimuth is a signed offset from due south.
type Orientation struct {
	OptimalTiltDeg    float64
	OptimalAzimuthDeg float64
	TiltPenalty       float64
	AzimuthPenalty    float64
	MinFactor         float64
}

// DefaultOrientation is tuned for a mid-latitude site with a 35° optimum.
func DefaultOrientation() Orientation {
	return Orientation{
		OptimalTiltDeg:    35,
		OptimalAzimuthDeg: 0,
		TiltPenalty:       1.4e-4,
		AzimuthPenalty:    2e-5,
		MinFactor:         0.6,
	}
}

// Factor returns the orientation multiplier in [MinFactor, 1].
func (o Orientation) Factor(tiltDeg, azimuthDeg float64) float64 {
	dt := tiltDeg - o.OptimalTiltDeg
	da := azimuthDeg - o.OptimalAzimuthDeg
	return numeric.Clamp(1-o.TiltPenalty*dt*dt-o.AzimuthPenalty*da*da, o.MinFactor, 1)
}

// OrientationFactor applies DefaultOrientation.
func OrientationFactor(tiltDeg, azimuthDeg float64) float64 {
	return DefaultOrientation().Factor(tiltDeg, azimuthDeg)
}
