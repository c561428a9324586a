package game

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/piece"
)

// Source produces the stream of upcoming piece types.
type Source interface {
	Draw() piece.Type
}

type randomSource struct {
	rng *rand.Rand
}

// RandomSource draws uniformly from the playable types.
func RandomSource(rng *rand.Rand) Source {
	return randomSource{rng: rng}
}

func (s randomSource) Draw() piece.Type {
	return piece.Random(s.rng)
}

type cycleSource struct {
	types []piece.Type
	next  int
}

// Cycle replays the given types in order, wrapping around. Useful for
// scripted sessions and replays.
func Cycle(types ...piece.Type) Source {
	if len(types) == 0 {
		panic("game: Cycle needs at least one type")
	}
	for _, t := range types {
		piece.ShapeOf(t)
	}
	return &cycleSource{types: types}
}

func (s *cycleSource) Draw() piece.Type {
	t := s.types[s.next]
	s.next = (s.next + 1) % len(s.types)
	return t
}

// Sequencer holds the preview slot and the hold slot.
type Sequencer struct {
	src        Source
	next       piece.Type
	hold       piece.Type
	holdLocked bool
}

// NewSequencer fills the preview slot from src.
func NewSequencer(src Source) Sequencer {
	return Sequencer{src: src, next: src.Draw()}
}

// Next returns the queued type.
func (s *Sequencer) Next() piece.Type { return s.next }

// Held returns the held type, or piece.None.
func (s *Sequencer) Held() piece.Type { return s.hold }

// HoldLocked reports whether hold is disabled until the next lock.
func (s *Sequencer) HoldLocked() bool { return s.holdLocked }

// Take consumes the queued type and refills the preview slot.
func (s *Sequencer) Take() piece.Type {
	t := s.next
	s.next = s.src.Draw()
	return t
}

// Unlock re-enables hold. Called once per lock.
func (s *Sequencer) Unlock() {
	s.holdLocked = false
}

// SwapHold stores current in the hold slot and returns the type to spawn in
// its place: the previously held type, or the queued one when the slot was
// empty. Nothing changes, and it returns false, while hold is locked or when
// accept rejects the incoming type.
func (s *Sequencer) SwapHold(current piece.Type, accept func(piece.Type) bool) (piece.Type, bool) {
	if s.holdLocked {
		return piece.None, false
	}

	incoming, queued := s.hold, false
	if incoming == piece.None {
		incoming, queued = s.next, true
	}
	if accept != nil && !accept(incoming) {
		return piece.None, false
	}

	if queued {
		s.Take()
	}
	s.hold = current
	s.holdLocked = true
	return incoming, true
}
