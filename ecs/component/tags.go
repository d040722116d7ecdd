package component

// PlayerTag marks the player-controlled pawn (the intruder).
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// PawnTag marks actors the sensing system can see.
type PawnTag struct{}

var PawnTagComponent = NewComponent[PawnTag]()

type PatrolPointTag struct{}

var PatrolPointTagComponent = NewComponent[PatrolPointTag]()

type WallTag struct{}

var WallTagComponent = NewComponent[WallTag]()

// Name is the authored level name of an entity.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
