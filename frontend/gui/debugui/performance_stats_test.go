package debugui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameHistory(t *testing.T) {
	h := NewFrameHistory(4)
	assert.Zero(t, h.Average())

	h.Push(10 * time.Millisecond)
	h.Push(20 * time.Millisecond)
	assert.InDelta(t, 7.5, h.Average(), 1e-4)

	// the ring wraps and overwrites the oldest entries
	for range 4 {
		h.Push(4 * time.Millisecond)
	}
	assert.InDelta(t, 4, h.Average(), 1e-4)
	assert.Equal(t, 0, h.index)
}
