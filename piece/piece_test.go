package piece_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/blockfall/piece"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPivots(t *testing.T) {
	for _, typ := range piece.Playable {
		t.Run(typ.String(), func(t *testing.T) {
			shape := piece.ShapeOf(typ)

			pivots := 0
			filled := 0
			for r, c := range shape.Cells() {
				filled++
				if shape.At(r, c) == piece.Pivot {
					pivots++
				}
			}

			assert.Equal(t, 4, filled)
			if typ == piece.O {
				assert.Zero(t, pivots)
			} else {
				assert.Equal(t, 1, pivots)
			}
		})
	}
}

func TestShapeOfUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { piece.ShapeOf(piece.Ghost) })
	assert.Panics(t, func() { piece.ShapeOf(piece.None) })
	assert.Panics(t, func() { piece.ShapeOf(piece.Type(42)) })
}

func TestRotation(t *testing.T) {
	t.Run("four clockwise turns are the identity", func(t *testing.T) {
		for _, typ := range piece.Playable {
			shape := piece.ShapeOf(typ)
			assert.Equal(t, shape, shape.RotateCW().RotateCW().RotateCW().RotateCW(), typ.String())
		}
	})

	t.Run("counter-clockwise undoes clockwise", func(t *testing.T) {
		for _, typ := range piece.Playable {
			shape := piece.ShapeOf(typ)
			assert.Equal(t, shape, shape.RotateCW().RotateCCW(), typ.String())
		}
	})

	t.Run("clockwise transpose", func(t *testing.T) {
		rotated := piece.ShapeOf(piece.T).RotateCW()
		require.Equal(t, 3, rotated.Rows())
		require.Equal(t, 2, rotated.Cols())
		assert.Equal(t, "#.\n@#\n#.\n", rotated.String())

		r, c, ok := rotated.Pivot()
		assert.True(t, ok)
		assert.Equal(t, 1, r)
		assert.Equal(t, 0, c)
	})

	t.Run("square has no pivot", func(t *testing.T) {
		_, _, ok := piece.ShapeOf(piece.O).Pivot()
		assert.False(t, ok)
	})
}

func TestRandomIsUniformOverPlayable(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	counts := make(map[piece.Type]int)

	const draws = 7000
	for range draws {
		typ := piece.Random(rng)
		require.True(t, typ.IsPlayable(), "drew %v", typ)
		counts[typ]++
	}

	assert.Len(t, counts, len(piece.Playable))
	for typ, n := range counts {
		assert.InDelta(t, draws/len(piece.Playable), n, 150, typ.String())
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "I", piece.I.String())
	assert.Equal(t, "Ghost", piece.Ghost.String())
	assert.Equal(t, "Type(200)", piece.Type(200).String())
}
