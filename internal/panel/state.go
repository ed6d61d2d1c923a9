package panel

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
)

// State is the observable panel state.
type State int

const (
	// Hidden shows the last abort reason, if any.
	Hidden State = iota
	// Shown mounts the players list.
	Shown
)

func (s State) String() string {
	switch s {
	case Shown:
		return "shown"
	default:
		return "hidden"
	}
}

// MarshalJSON renders the state by name.
func (s State) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(s.String())
}

// View is a snapshot of what the panel displays.
type View struct {
	State   State                   `json:"state"`
	Players []players.DisplayPlayer `json:"players"`
	Reason  string                  `json:"reason,omitempty"`
}

// Fallback returns the text shown in place of the list, or "".
func (v View) Fallback() string {
	if v.State == Hidden {
		return v.Reason
	}
	return ""
}
