package selector_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/selector"
	"github.com/silevilence/picto-mino/internal/shape"
)

func mustShape(t *testing.T, m [][]bool) *shape.Shape {
	t.Helper()
	s, err := shape.New(m)
	require.NoError(t, err)
	return s
}

func fullTarget(t *testing.T, rows, cols int) *board.Board {
	t.Helper()
	mask := make([][]bool, rows)
	for r := range mask {
		row := make([]bool, cols)
		for c := range row {
			row[c] = true
		}
		mask[r] = row
	}
	b, err := board.NewWithTarget(rows, cols, mask)
	require.NoError(t, err)
	return b
}

func TestSelectRejectsEmptyCatalog(t *testing.T) {
	b, err := board.New(2, 2)
	require.NoError(t, err)

	_, _, res := selector.Select(b, nil, 4, time.Time{})
	assert.Equal(t, selector.NoShapes, res)
}

func TestSelectDropsShapesBiggerThanTarget(t *testing.T) {
	b, err := board.New(1, 1)
	require.NoError(t, err)

	// the 1x2 bar can never fit a one-cell target, so the pre-pass
	// leaves nothing to search with
	bar := mustShape(t, [][]bool{{true, true}})
	_, _, res := selector.Select(b, []*shape.Shape{bar}, 4, time.Time{})
	assert.Equal(t, selector.NoValidPlacements, res)
}

func TestSelectTargetTooLargeForDepthBudget(t *testing.T) {
	b := fullTarget(t, 3, 3)

	dot := mustShape(t, [][]bool{{true}})
	_, _, res := selector.Select(b, []*shape.Shape{dot}, 4, time.Time{})
	assert.Equal(t, selector.TargetTooLarge, res)
}

func TestSelectFindsTwoDotsForATwoCellTarget(t *testing.T) {
	b := fullTarget(t, 1, 2)

	dot := mustShape(t, [][]bool{{true}})
	sel, stats, res := selector.Select(b, []*shape.Shape{dot}, 4, time.Time{})
	require.Equal(t, selector.Found, res)
	assert.Equal(t, []int{0, 0}, sel.Indices)
	assert.Len(t, sel.Shapes, 2)
	assert.GreaterOrEqual(t, stats.Combinations, 1)
}

func TestSelectPrefersFewerShapes(t *testing.T) {
	b := fullTarget(t, 1, 2)

	dot := mustShape(t, [][]bool{{true}})
	bar := mustShape(t, [][]bool{{true, true}})
	sel, _, res := selector.Select(b, []*shape.Shape{bar, dot}, 4, time.Time{})
	require.Equal(t, selector.Found, res)
	assert.Equal(t, []int{0}, sel.Indices)
}

func TestSelectDeadlineInThePastTimesOutImmediately(t *testing.T) {
	b := fullTarget(t, 4, 4)

	dot := mustShape(t, [][]bool{{true}})
	_, _, res := selector.Select(b, []*shape.Shape{dot}, 20, time.Now().Add(-time.Hour))
	assert.Equal(t, selector.Timeout, res)
}

func TestSelectNoUniqueSolutionWhenManyTilingsExist(t *testing.T) {
	// three dominoes tile a 2x3 board in three distinguishable ways, so
	// no multiset drawn from this catalog is uniquely solvable
	b := fullTarget(t, 2, 3)

	bar := mustShape(t, [][]bool{{true, true}})
	_, stats, res := selector.Select(b, []*shape.Shape{bar}, 4, time.Time{})
	assert.Equal(t, selector.NoUniqueSolution, res)
	assert.GreaterOrEqual(t, stats.Combinations, 1)
}

func TestSelectNineCellsNeverTiledByDominoes(t *testing.T) {
	b := fullTarget(t, 3, 3)

	bar := mustShape(t, [][]bool{{true, true}})
	_, _, res := selector.Select(b, []*shape.Shape{bar}, 6, time.Time{})
	assert.NotEqual(t, selector.Found, res)
}

func TestSelectTwoByThreeWithBars(t *testing.T) {
	b := fullTarget(t, 2, 3)

	bar2 := mustShape(t, [][]bool{{true, true}})
	bar3 := mustShape(t, [][]bool{{true, true, true}})
	sel, _, res := selector.Select(b, []*shape.Shape{bar2, bar3}, 6, time.Now().Add(5*time.Second))
	require.Equal(t, selector.Found, res)
	assert.Equal(t, []int{1, 1}, sel.Indices)
}

func TestSelectSingleSquareCoversTwoByTwo(t *testing.T) {
	b := fullTarget(t, 2, 2)

	square := mustShape(t, [][]bool{
		{true, true},
		{true, true},
	})
	sel, _, res := selector.Select(b, []*shape.Shape{square}, 4, time.Time{})
	require.Equal(t, selector.Found, res)
	assert.Equal(t, []int{0}, sel.Indices)
}

func TestSelectDiagonalDotsUniqueModuloSymmetry(t *testing.T) {
	// two target cells on the diagonal, two interchangeable dots: DLX
	// sees 2 solutions, the duplicate factor 2! divides them back to 1
	b, err := board.NewWithTarget(2, 2, [][]bool{
		{true, false},
		{false, true},
	})
	require.NoError(t, err)

	dot := mustShape(t, [][]bool{{true}})
	sel, _, res := selector.Select(b, []*shape.Shape{dot}, 4, time.Time{})
	require.Equal(t, selector.Found, res)
	assert.Equal(t, []int{0, 0}, sel.Indices)
}

func TestSelectSingleBarOnOneByTwoBoard(t *testing.T) {
	// a single 1x2 bar covers the 1x2 board in exactly one way
	b := fullTarget(t, 1, 2)

	bar := mustShape(t, [][]bool{{true, true}})
	sel, _, res := selector.Select(b, []*shape.Shape{bar}, 2, time.Time{})
	require.Equal(t, selector.Found, res)
	assert.Equal(t, []int{0}, sel.Indices)
}

func TestSelectReportsElapsed(t *testing.T) {
	b := fullTarget(t, 1, 2)
	dot := mustShape(t, [][]bool{{true}})

	_, stats, _ := selector.Select(b, []*shape.Shape{dot}, 4, time.Time{})
	assert.GreaterOrEqual(t, stats.Elapsed, time.Duration(0))
}
