package fingerprint

import "fmt"

// State is a stage of the fingerprint pipeline.
type State int

const (
	StateIdle State = iota
	StateConsentCheck
	StateCollecting
	StateCanonicalizing
	StateDigesting
	StateDone
	StateAborted
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateConsentCheck:   "consent-check",
	StateCollecting:     "collecting",
	StateCanonicalizing: "canonicalizing",
	StateDigesting:      "digesting",
	StateDone:           "done",
	StateAborted:        "aborted",
}

// String returns the lowercase name of the state.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether s ends the pipeline.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
