package component

// PawnSensing gives an entity sight and hearing. Defaults mirror a stock
// engine pawn sensing component.
type PawnSensing struct {
	SightRadius float64
	// PeripheralVisionAngle is the half angle of the sight cone, in degrees.
	PeripheralVisionAngle float64
	HearingThreshold      float64
	LOSHearingThreshold   float64
	SensingInterval       float64

	SeePawns         bool
	HearNoises       bool
	OnlySensePlayers bool

	Countdown     float64
	NextNoiseTick uint64
}

var PawnSensingComponent = NewComponent[PawnSensing]()

func DefaultPawnSensing() PawnSensing {
	return PawnSensing{
		SightRadius:           5000,
		PeripheralVisionAngle: 90,
		HearingThreshold:      1400,
		LOSHearingThreshold:   2800,
		SensingInterval:       0.5,
		SeePawns:              true,
		HearNoises:            true,
		OnlySensePlayers:      true,
	}
}

// NoiseEvent is a short-lived entity describing a sound made in the world.
type NoiseEvent struct {
	Instigator EntityRef
	X          float64
	Y          float64
	Loudness   float64
	Tick       uint64
}

var NoiseEventComponent = NewComponent[NoiseEvent]()
