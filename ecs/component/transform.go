package component

// Transform is a top-down position. Rotation is the yaw in radians, 0 facing
// +X, growing towards +Y.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()

// Velocity is the commanded movement in units per second. The physics system
// feeds it into the body (or integrates it directly for body-less entities).
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()
