package palette_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silevilence/picto-mino/internal/palette"
	"github.com/silevilence/picto-mino/internal/shape"
)

func mustShape(t *testing.T, m [][]bool) *shape.Shape {
	t.Helper()
	s, err := shape.New(m)
	require.NoError(t, err)
	return s
}

func sample(t *testing.T) *palette.Palette {
	t.Helper()
	dot := mustShape(t, [][]bool{{true}})
	bar := mustShape(t, [][]bool{{true, true}})
	p, err := palette.New([]string{"dot", "bar"}, []*shape.Shape{dot, bar}, []int{3, 1})
	require.NoError(t, err)
	return p
}

func TestNewRejectsMismatchedLengths(t *testing.T) {
	_, err := palette.New([]string{"a"}, nil, nil)
	require.Error(t, err)
}

func TestNewRejectsDuplicateID(t *testing.T) {
	dot := mustShape(t, [][]bool{{true}})
	_, err := palette.New([]string{"dot", "dot"}, []*shape.Shape{dot, dot}, []int{1, 1})
	require.Error(t, err)
}

func TestTakeDecrementsAndReturnIncrements(t *testing.T) {
	p := sample(t)
	require.NoError(t, p.Take("dot"))
	assert.Equal(t, 2, p.Remaining("dot"))

	require.NoError(t, p.Return("dot"))
	assert.Equal(t, 3, p.Remaining("dot"))
}

func TestTakeFailsWhenExhausted(t *testing.T) {
	p := sample(t)
	require.NoError(t, p.Take("bar"))
	assert.Equal(t, 0, p.Remaining("bar"))
	require.Error(t, p.Take("bar"))
}

func TestTakeUnknownIDFails(t *testing.T) {
	p := sample(t)
	require.Error(t, p.Take("ghost"))
}

func TestSelectRoundTrip(t *testing.T) {
	p := sample(t)
	require.NoError(t, p.Select("bar"))
	assert.Equal(t, "bar", p.Selected())

	require.NoError(t, p.Select(""))
	assert.Equal(t, "", p.Selected())

	require.Error(t, p.Select("ghost"))
}

func TestOrderedSortsByRemainingThenRotationsThenCells(t *testing.T) {
	p := sample(t)
	// bar has 1 remaining, dot has 3 remaining; ascending remaining
	// puts bar first.
	ordered := p.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "bar", ordered[0].ID)
	assert.Equal(t, "dot", ordered[1].ID)

	require.NoError(t, p.Take("dot"))
	require.NoError(t, p.Take("dot"))
	require.NoError(t, p.Take("dot"))
	// dot now at 0 remaining, ties with nothing but moves to front.
	ordered = p.Ordered()
	assert.Equal(t, "dot", ordered[0].ID)
}
