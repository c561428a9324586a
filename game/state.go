package game

import "fmt"

// State is the top-level game state.
type State uint8

const (
	// StateStart is the running game.
	StateStart State = iota
	// StatePause freezes the game; only confirm is accepted.
	StatePause
	// StateGameOver is terminal until confirm starts a fresh session.
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StatePause:
		return "PAUSE"
	case StateGameOver:
		return "GAME_OVER"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}
