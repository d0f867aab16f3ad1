package dlx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silevilence/picto-mino/internal/dlx"
)

// The classic Knuth exact-cover example (TAOCP 4A, "Dancing Links"):
// 6 rows over 7 columns, with exactly one exact cover.
func knuthMatrix() (numCols int, rows [][]int) {
	return 7, [][]int{
		{2, 4, 5},
		{0, 3, 6},
		{1, 2, 5},
		{0, 3},
		{1, 6},
		{3, 4, 6},
	}
}

func TestNewRejectsDegenerateMatrix(t *testing.T) {
	_, err := dlx.New(0, [][]int{{0}})
	require.Error(t, err)

	_, err = dlx.New(3, nil)
	require.Error(t, err)
}

func TestSolveOneFindsTheKnuthSolution(t *testing.T) {
	numCols, rows := knuthMatrix()
	d, err := dlx.New(numCols, rows)
	require.NoError(t, err)

	sol, timedOut := d.SolveOne(time.Time{})
	require.False(t, timedOut)
	require.NotNil(t, sol)

	covered := make(map[int]bool)
	for _, r := range sol {
		for _, c := range rows[r] {
			require.False(t, covered[c], "column %d covered twice", c)
			covered[c] = true
		}
	}
	assert.Len(t, covered, numCols)
}

func TestSolveAllFindsExactlyOneSolutionForKnuthMatrix(t *testing.T) {
	numCols, rows := knuthMatrix()
	d, err := dlx.New(numCols, rows)
	require.NoError(t, err)

	sols, timedOut := d.SolveAll(10, time.Time{})
	require.False(t, timedOut)
	assert.Len(t, sols, 1)
	assert.ElementsMatch(t, []int{0, 3, 4}, sols[0])
}

func TestNoSolutionWhenAColumnIsUncoverable(t *testing.T) {
	// column 2 never appears in any row, so no exact cover exists.
	d, err := dlx.New(3, [][]int{{0}, {1}})
	require.NoError(t, err)

	sol, timedOut := d.SolveOne(time.Time{})
	require.False(t, timedOut)
	assert.Nil(t, sol)
}

func TestSolveAllRespectsMaxCount(t *testing.T) {
	// Four identical rows over a single column, so every row alone is a
	// full exact cover: four solutions exist, but we only want two.
	d, err := dlx.New(1, [][]int{{0}, {0}, {0}, {0}})
	require.NoError(t, err)

	sols, timedOut := d.SolveAll(2, time.Time{})
	require.False(t, timedOut)
	assert.Len(t, sols, 2)
}

func TestDeadlineInThePastTimesOutImmediately(t *testing.T) {
	numCols, rows := knuthMatrix()
	d, err := dlx.New(numCols, rows)
	require.NoError(t, err)

	_, timedOut := d.SolveAll(10, time.Now().Add(-time.Hour))
	assert.True(t, timedOut)
}

func TestZeroDeadlineMeansNoDeadline(t *testing.T) {
	numCols, rows := knuthMatrix()
	d, err := dlx.New(numCols, rows)
	require.NoError(t, err)

	_, timedOut := d.SolveAll(10, time.Time{})
	assert.False(t, timedOut)
}

func TestStructureIsReusableAcrossRepeatedSolves(t *testing.T) {
	numCols, rows := knuthMatrix()
	d, err := dlx.New(numCols, rows)
	require.NoError(t, err)

	first, _ := d.SolveAll(10, time.Time{})
	second, _ := d.SolveAll(10, time.Time{})
	assert.Equal(t, first, second)
}

// bruteForceCovers enumerates every subset of rows and counts the
// exact covers directly, as a reference for the linked search.
func bruteForceCovers(numCols int, rows [][]int) int {
	count := 0
	for mask := 0; mask < 1<<len(rows); mask++ {
		colHits := make([]int, numCols)
		for r := range rows {
			if mask&(1<<r) == 0 {
				continue
			}
			for _, c := range rows[r] {
				colHits[c]++
			}
		}
		exact := true
		for _, n := range colHits {
			if n != 1 {
				exact = false
				break
			}
		}
		if exact {
			count++
		}
	}
	return count
}

func TestEnumerationMatchesBruteForce(t *testing.T) {
	cases := []struct {
		name    string
		numCols int
		rows    [][]int
	}{
		{"knuth", 7, [][]int{
			{2, 4, 5}, {0, 3, 6}, {1, 2, 5}, {0, 3}, {1, 6}, {3, 4, 6},
		}},
		{"dominoes on 1x4", 5, [][]int{
			// columns 0-3 are cells, column 4 a shared slot: every row
			// claims it, so no two rows combine and no cover exists
			{0, 1, 4}, {1, 2, 4}, {2, 3, 4},
		}},
		{"many small covers", 4, [][]int{
			{0}, {1}, {2}, {3}, {0, 1}, {2, 3}, {0, 1, 2, 3},
		}},
		{"no cover", 3, [][]int{
			{0, 1}, {1, 2},
		}},
		{"duplicate rows", 2, [][]int{
			{0, 1}, {0, 1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := dlx.New(tc.numCols, tc.rows)
			require.NoError(t, err)

			sols, timedOut := d.SolveAll(1<<len(tc.rows), time.Time{})
			require.False(t, timedOut)
			assert.Equal(t, bruteForceCovers(tc.numCols, tc.rows), len(sols))

			for _, sol := range sols {
				colHits := make([]int, tc.numCols)
				for _, r := range sol {
					for _, c := range tc.rows[r] {
						colHits[c]++
					}
				}
				for c, n := range colHits {
					assert.Equal(t, 1, n, "column %d", c)
				}
			}
		})
	}
}

func TestBuildDeadlineAbortsLargeConstruction(t *testing.T) {
	rows := make([][]int, 150)
	for i := range rows {
		rows[i] = []int{0}
	}

	d, timedOut, err := dlx.NewWithDeadline(1, rows, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, timedOut)
	assert.Nil(t, d)
}
