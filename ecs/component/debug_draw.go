package component

import "image/color"

var (
	DebugPurple = color.RGBA{R: 0x80, G: 0x00, B: 0x80, A: 0xff}
	DebugRed    = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

type DebugSphere struct {
	X      float64
	Y      float64
	Radius float64
	Color  color.RGBA
	TTL    float64
}

// DebugDraw is a singleton; when absent, debug drawing is disabled.
type DebugDraw struct {
	Spheres []DebugSphere
}

var DebugDrawComponent = NewComponent[DebugDraw]()
