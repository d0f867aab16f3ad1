// Package cover builds the exact-cover matrix from a board and an
// ordered shape multiset: every valid (shape-index, orientation,
// top-left position) placement becomes a row; target cells and
// shape-instance slots become columns.
package cover

import (
	"time"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/shape"
	"github.com/silevilence/picto-mino/internal/tree234"
)

// Placement is one valid (shape-index, orientation, top-left position)
// triple discovered during enumeration. Row and Col are the top-left
// corner of Oriented's bounding box on the board, not Oriented's own
// anchor cell; Algorithm X only needs the exact footprint.
type Placement struct {
	ShapeIndex int
	Row, Col   int
	Oriented   *shape.Shape
}

type targetCol struct {
	row, col, index int
}

func cmpTargetCol(a, b *targetCol) int {
	if a.row != b.row {
		return a.row - b.row
	}
	return a.col - b.col
}

// Matrix is the 0/1 cover matrix: rows are placements, columns are
// target cells followed by shape-slot columns.
type Matrix struct {
	NumTargetCols int
	NumSlotCols   int
	Placements    []Placement
	// Rows[p] lists, in ascending order, the column indices with a 1 in
	// placement row p.
	Rows [][]int

	targetIndex *tree234.Tree234[targetCol]
	targetCells []targetCol // colIndex -> (row,col), index == colIndex
}

// NumCols is the matrix's total column count.
func (m *Matrix) NumCols() int { return m.NumTargetCols + m.NumSlotCols }

// ColumnCell returns the (row,col) a target column represents. Panics if
// colIndex is not a target column.
func (m *Matrix) ColumnCell(colIndex int) (row, col int) {
	tc := m.targetCells[colIndex]
	return tc.row, tc.col
}

// ColumnOf returns the target-column index for board cell (row,col), or
// -1 if it is not a target cell.
func (m *Matrix) ColumnOf(row, col int) int {
	found, _ := m.targetIndex.FindRelPos(&targetCol{row: row, col: col}, tree234.Eq)
	if found == nil {
		return -1
	}
	return found.index
}

// Build enumerates every valid placement of shapes (in order) on b and
// emits the cover matrix. deadline, if non-zero, aborts the enumeration
// at the next 100-placement checkpoint and sets timedOut.
func Build(b *board.Board, shapes []*shape.Shape, deadline time.Time) (m *Matrix, timedOut bool) {
	m = &Matrix{targetIndex: tree234.NewTree234(cmpTargetCol)}

	// 1. target column assignment, row-major.
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if !b.IsTarget(r, c) {
				continue
			}
			tc := targetCol{row: r, col: c, index: len(m.targetCells)}
			m.targetCells = append(m.targetCells, tc)
			m.targetIndex.Add(&tc)
		}
	}
	m.NumTargetCols = len(m.targetCells)
	m.NumSlotCols = len(shapes)

	checkEvery := 100
	checked := 0
	hasDeadline := !deadline.IsZero()

	for i, s := range shapes {
		for _, oriented := range s.Rotations() {
			for top := 0; top <= b.Rows()-oriented.Rows(); top++ {
				for left := 0; left <= b.Cols()-oriented.Cols(); left++ {
					checked++
					if hasDeadline && checked%checkEvery == 0 && time.Now().After(deadline) {
						return m, true
					}

					cols, ok := placementColumns(m, oriented, top, left)
					if !ok {
						continue
					}
					cols = append(cols, m.NumTargetCols+i)
					m.Placements = append(m.Placements, Placement{
						ShapeIndex: i, Row: top, Col: left, Oriented: oriented,
					})
					m.Rows = append(m.Rows, cols)
				}
			}
		}
	}

	return m, false
}

// placementColumns reports the target-column indices covered by
// oriented anchored with its top-left corner at (top,left), or ok=false
// if any filled cell is out of bounds or not a target cell.
func placementColumns(m *Matrix, oriented *shape.Shape, top, left int) (cols []int, ok bool) {
	for dr := 0; dr < oriented.Rows(); dr++ {
		for dc := 0; dc < oriented.Cols(); dc++ {
			filled, _ := oriented.At(dr, dc)
			if !filled {
				continue
			}
			col := m.ColumnOf(top+dr, left+dc)
			if col < 0 {
				return nil, false
			}
			cols = append(cols, col)
		}
	}
	return cols, true
}

// DuplicateFactor is the product of k! over groups of rotation-equivalent
// shapes in shapes: the number of DLX solutions that correspond to one
// distinguishable tiling.
func DuplicateFactor(shapes []*shape.Shape) int {
	used := make([]bool, len(shapes))
	factor := 1
	for i := range shapes {
		if used[i] {
			continue
		}
		classSize := 1
		used[i] = true
		for j := i + 1; j < len(shapes); j++ {
			if used[j] {
				continue
			}
			if shapes[i].RotationEquivalent(shapes[j]) {
				used[j] = true
				classSize++
			}
		}
		factor *= factorial(classSize)
	}
	return factor
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
