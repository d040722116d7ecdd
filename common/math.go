package common

import "math"

// TPS is the fixed simulation rate.
const TPS = 60

// TickSeconds is the duration of one simulation tick.
const TickSeconds = 1.0 / TPS

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Distance(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}

// Heading returns the yaw from (x0,y0) towards (x1,y1). ok is false when the
// points coincide and no direction exists.
func Heading(x0, y0, x1, y1 float64) (yaw float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	if math.Abs(dx) < 1e-9 && math.Abs(dy) < 1e-9 {
		return 0, false
	}
	return math.Atan2(dy, dx), true
}

// AngleBetween returns the absolute angle in radians between two yaws,
// in [0, pi].
func AngleBetween(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d < -math.Pi {
		d += 2 * math.Pi
	} else if d > math.Pi {
		d -= 2 * math.Pi
	}
	return math.Abs(d)
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Viewer resolution.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)
