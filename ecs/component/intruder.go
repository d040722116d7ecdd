package component

// Intruder drives a non-guard pawn along an authored route, optionally
// making noise at a fixed interval.
type Intruder struct {
	Route     []PathNode
	Index     int
	Loop      bool
	MoveSpeed float64

	NoiseInterval float64
	NoiseLoudness float64
	NoiseTimer    float64
}

var IntruderComponent = NewComponent[Intruder]()
