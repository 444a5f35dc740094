package pipeline

// State is a step of a pipeline run.
type State int

const (
	AwaitingConfig State = iota
	Extracting
	Transforming
	Loading
	Done
	Failed
)

var stateNames = map[State]string{
	AwaitingConfig: "AwaitingConfig",
	Extracting:     "Extracting",
	Transforming:   "Transforming",
	Loading:        "Loading",
	Done:           "Done",
	Failed:         "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
