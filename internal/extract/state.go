package extract

import "encoding/json"

// State is a step of an extraction job's lifecycle.
type State int

const (
	StateIdle State = iota
	StateOpening
	StatePlanning
	StateExtracting
	StateFinalizing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateOpening:    "opening",
	StatePlanning:   "planning",
	StateExtracting: "extracting",
	StateFinalizing: "finalizing",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
