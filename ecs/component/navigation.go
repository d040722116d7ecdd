package component

// PathNode represents a world-space point along a path.
type PathNode struct {
	X float64
	Y float64
}

// Navigation is an entity's current move-to request and the path followed
// to satisfy it.
type Navigation struct {
	Active           bool
	Target           EntityRef
	AcceptanceRadius float64
	Speed            float64

	GridSize     float64
	RepathFrames int
	FrameCounter int

	Path      []PathNode
	PathIndex int
}

var NavigationComponent = NewComponent[Navigation]()
