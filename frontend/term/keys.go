package term

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/input"
)

// Keymap maps terminal keys to game actions.
type Keymap struct {
	Keys  map[tcell.Key]input.Action
	Runes map[rune]input.Action
}

// DefaultKeymap binds the arrows, space, z/x/c and enter/p.
func DefaultKeymap() Keymap {
	return Keymap{
		Keys: map[tcell.Key]input.Action{
			tcell.KeyLeft:  input.Left,
			tcell.KeyRight: input.Right,
			tcell.KeyDown:  input.Down,
			tcell.KeyUp:    input.RotateCW,
			tcell.KeyEnter: input.Confirm,
		},
		Runes: map[rune]input.Action{
			' ': input.HardDrop,
			'x': input.RotateCW,
			'z': input.RotateCCW,
			'c': input.Hold,
			'p': input.Confirm,
			'h': input.Left,
			'l': input.Right,
			'j': input.Down,
		},
	}
}

// ParseKeymap starts from DefaultKeymap and replaces the keys of every action
// named in bindings. A key is a single character, "Space", or a tcell key
// name such as "Left" or "Enter", matched without regard to case.
func ParseKeymap(bindings map[string][]string) (Keymap, error) {
	km := DefaultKeymap()
	for name := range bindings {
		if _, err := input.ParseAction(name); err != nil {
			return Keymap{}, err
		}
	}

	for _, a := range input.Actions {
		names, ok := bindings[a.String()]
		if !ok {
			continue
		}
		km.unbind(a)
		for _, name := range names {
			if err := km.bind(name, a); err != nil {
				return Keymap{}, fmt.Errorf("%s: %w", a, err)
			}
		}
	}
	return km, nil
}

func (k Keymap) unbind(a input.Action) {
	for key, bound := range k.Keys {
		if bound == a {
			delete(k.Keys, key)
		}
	}
	for r, bound := range k.Runes {
		if bound == a {
			delete(k.Runes, r)
		}
	}
}

func (k Keymap) bind(name string, a input.Action) error {
	if r := []rune(name); len(r) == 1 {
		k.Runes[unicode.ToLower(r[0])] = a
		return nil
	}
	if strings.EqualFold(name, "space") {
		k.Runes[' '] = a
		return nil
	}
	for key, keyName := range tcell.KeyNames {
		if strings.EqualFold(keyName, name) {
			k.Keys[key] = a
			return nil
		}
	}
	return fmt.Errorf("unknown key %q", name)
}

// Lookup resolves a key event. Letters match regardless of case.
func (k Keymap) Lookup(ev *tcell.EventKey) (input.Action, bool) {
	if ev.Key() == tcell.KeyRune {
		a, ok := k.Runes[unicode.ToLower(ev.Rune())]
		return a, ok
	}
	a, ok := k.Keys[ev.Key()]
	return a, ok
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
