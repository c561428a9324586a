// Package input turns press and release events into game commands, with
// timed auto-repeat for the movement actions.
package input

import "fmt"

// Action is one of the named commands the game accepts.
type Action uint8

const (
	RotateCW Action = iota
	RotateCCW
	Left
	Right
	Down
	HardDrop
	Hold
	Confirm
)

// Actions lists every action in declaration order.
var Actions = [...]Action{RotateCW, RotateCCW, Left, Right, Down, HardDrop, Hold, Confirm}

var actionNames = [...]string{
	RotateCW:  "rotate-cw",
	RotateCCW: "rotate-ccw",
	Left:      "left",
	Right:     "right",
	Down:      "down",
	HardDrop:  "hard-drop",
	Hold:      "hold",
	Confirm:   "confirm",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Repeatable reports whether holding the action fires it repeatedly.
func (a Action) Repeatable() bool {
	return a == Left || a == Right || a == Down
}

// ParseAction resolves an action by its String name.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions {
		if actionNames[a] == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}
