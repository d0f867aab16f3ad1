package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/shape"
)

func bar1x2(t *testing.T) *shape.Shape {
	t.Helper()
	s, err := shape.New([][]bool{{true, true}}, [2]int{0, 0})
	require.NoError(t, err)
	return s
}

func lShape(t *testing.T) *shape.Shape {
	t.Helper()
	s, err := shape.New([][]bool{
		{true, true},
		{true, false},
	}, [2]int{0, 0})
	require.NoError(t, err)
	return s
}

func TestSetIsNoopWhenUnchanged(t *testing.T) {
	b, err := board.New(3, 3)
	require.NoError(t, err)

	var events []board.ChangeEvent
	b.OnChange(func(e board.ChangeEvent) { events = append(events, e) })

	require.NoError(t, b.Set(1, 1, 0))
	assert.Empty(t, events)
}

func TestSetEmitsOnChange(t *testing.T) {
	b, err := board.New(2, 2)
	require.NoError(t, err)

	var events []board.ChangeEvent
	b.OnChange(func(e board.ChangeEvent) { events = append(events, e) })

	require.NoError(t, b.Set(0, 1, 7))
	require.Len(t, events, 1)
	assert.Equal(t, board.ChangeEvent{Row: 0, Col: 1, NewValue: 7}, events[0])
}

func TestCheckPlacementOutOfBoundsDominatesOverlap(t *testing.T) {
	b, err := board.New(2, 2)
	require.NoError(t, err)
	s := bar1x2(t)

	// (0,1) is occupied and (0,2) is off the grid: both conditions hold
	require.NoError(t, b.Set(0, 1, 9))
	assert.Equal(t, board.OutOfBounds, b.CheckPlacement(s, 0, 1))
}

func TestTryPlaceAtomicOnFailure(t *testing.T) {
	b, err := board.New(2, 2)
	require.NoError(t, err)
	s := bar1x2(t)

	ok, err := b.TryPlace(s, 0, 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _ := b.Get(0, 1)
	assert.Equal(t, 0, v)
}

func TestForcePlaceEvictsCompletely(t *testing.T) {
	b, err := board.New(1, 4)
	require.NoError(t, err)

	dot, err := shape.New([][]bool{{true}}, [2]int{0, 0})
	require.NoError(t, err)

	ok, err := b.TryPlace(dot, 0, 0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = b.TryPlace(dot, 0, 1, 1)
	require.NoError(t, err)
	require.True(t, ok)

	bar := bar1x2(t)
	evicted, ok, err := b.ForcePlace(bar, 0, 0, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1}, evicted)

	for c := 0; c < 4; c++ {
		v, _ := b.Get(0, c)
		assert.NotEqual(t, 1, v)
	}
}

func TestRemovePlaceRoundTrip(t *testing.T) {
	b, err := board.New(2, 2)
	require.NoError(t, err)
	s := lShape(t)

	var events []board.ChangeEvent
	b.OnChange(func(e board.ChangeEvent) { events = append(events, e) })

	ok, err := b.TryPlace(s, 0, 0, 5)
	require.NoError(t, err)
	require.True(t, ok)
	placeEvents := len(events)
	assert.Equal(t, s.CellCount(), placeEvents)

	n, err := b.Remove(5)
	require.NoError(t, err)
	assert.Equal(t, s.CellCount(), n)
	assert.Equal(t, 2*placeEvents, len(events))

	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			v, _ := b.Get(r, c)
			assert.Equal(t, 0, v)
		}
	}
}

func TestWinConditionWithTarget(t *testing.T) {
	b, err := board.NewWithTarget(3, 3, [][]bool{
		{true, true, false},
		{true, false, false},
		{false, false, false},
	})
	require.NoError(t, err)
	s := lShape(t)

	assert.False(t, b.CheckWinCondition())

	ok, err := b.TryPlace(s, 0, 0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, b.CheckWinCondition())
}

func TestHintsEmptyLineIsZero(t *testing.T) {
	b, err := board.New(3, 3)
	require.NoError(t, err)

	for _, row := range b.CurrentRowHints() {
		assert.Equal(t, []int{0}, row)
	}
}

func TestHintsMatchRuns(t *testing.T) {
	b, err := board.NewWithTarget(1, 7, [][]bool{
		{true, true, false, true, false, true, true},
	})
	require.NoError(t, err)

	assert.Equal(t, [][]int{{2, 1, 2}}, b.TargetRowHints())
}

func TestPlacementUsesAnchorPosition(t *testing.T) {
	b, err := board.New(3, 3)
	require.NoError(t, err)

	// 1x3 bar anchored at its middle cell: placing the anchor at the
	// board's center covers the full middle row.
	bar, err := shape.New([][]bool{{true, true, true}}, [2]int{0, 1})
	require.NoError(t, err)

	ok, err := b.TryPlace(bar, 1, 1, 1)
	require.NoError(t, err)
	require.True(t, ok)

	for c := 0; c < 3; c++ {
		v, _ := b.Get(1, c)
		assert.Equal(t, 1, v)
	}

	// anchored at a border column, one filled cell falls off the grid
	fresh, err := board.New(3, 3)
	require.NoError(t, err)
	assert.Equal(t, board.OutOfBounds, fresh.CheckPlacement(bar, 1, 0))
}

func TestForcePlaceEvictionOrderIsFirstSeen(t *testing.T) {
	b, err := board.New(1, 4)
	require.NoError(t, err)

	dot, err := shape.New([][]bool{{true}}, [2]int{0, 0})
	require.NoError(t, err)

	for c, id := range []int{3, 7} {
		ok, err := b.TryPlace(dot, 0, c, id)
		require.NoError(t, err)
		require.True(t, ok)
	}

	bar := bar1x2(t)
	evicted, ok, err := b.ForcePlace(bar, 0, 0, 9)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{3, 7}, evicted)
}
