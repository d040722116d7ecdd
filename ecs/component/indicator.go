package component

// Indicator is presentation state (the "?" / "!" over a guard's head) set
// by state-change listeners.
type Indicator struct {
	Text  string
	Color string
}

var IndicatorComponent = NewComponent[Indicator]()
