package component

// Mission is the singleton outcome of the level.
type Mission struct {
	Complete   bool
	Success    bool
	Instigator EntityRef
	Tick       uint64
}

var MissionComponent = NewComponent[Mission]()
