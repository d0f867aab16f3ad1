package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedLevelsResolve(t *testing.T) {
	seeds, order, err := SeedLevels()
	require.NoError(t, err)
	require.Equal(t, []string{"square-dot", "parallel-lines"}, order)

	square := seeds["square-dot"]
	require.NotNil(t, square)
	assert.Equal(t, "First Steps", square.Name)
	assert.Equal(t, 4, square.Shapes["block"].Shape.CellCount())

	lines := seeds["parallel-lines"]
	require.NotNil(t, lines)
	assert.Equal(t, []string{"bar", "bar"}, lines.ShapeIDs)
	require.Len(t, lines.Catalog(), 2)
	assert.True(t, lines.Catalog()[0].Equal(lines.Catalog()[1]))
}

func TestSeedLevelDetailDTOIsStable(t *testing.T) {
	seeds, _, err := SeedLevels()
	require.NoError(t, err)

	lvl := seeds["parallel-lines"]
	dto := newLevelDetailDTO("parallel-lines", lvl)
	assert.Equal(t, "Parallel Lines", dto.Name)
	assert.Equal(t, 2, dto.Rows)
	assert.Equal(t, 3, dto.Cols)
	require.Len(t, dto.Palette, 1)
	assert.Equal(t, "bar", dto.Palette[0].ShapeID)
	assert.Equal(t, 2, dto.Palette[0].Count)
	assert.Equal(t, []string{"###"}, dto.Palette[0].Matrix)
	assert.Equal(t, [][]int{{3}, {3}}, dto.RowHints)
	assert.Equal(t, [][]int{{2}, {2}, {2}}, dto.ColHints)
}
