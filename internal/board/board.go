// Package board implements the row-major integer grid the puzzle is
// played on: cell occupancy, an optional target mask, placement
// queries, and the Nonogram-style hint vectors derived from either.
package board

import (
	"fmt"

	"github.com/silevilence/picto-mino/internal/shape"
)

// FaultError is a typed programmer-error fault, after shape.FaultError.
type FaultError struct {
	Op    string
	Value any
}

func (e FaultError) Error() string {
	return fmt.Sprintf("board: %s: invalid value %v", e.Op, e.Value)
}

// PlacementStatus reports whether a shape can legally be placed at a
// given anchor position. OutOfBounds dominates Overlapping: if any
// filled cell falls outside the grid, overlap is not evaluated.
type PlacementStatus int

const (
	Valid PlacementStatus = iota
	OutOfBounds
	Overlapping
)

func (s PlacementStatus) String() string {
	switch s {
	case Valid:
		return "Valid"
	case OutOfBounds:
		return "OutOfBounds"
	case Overlapping:
		return "Overlapping"
	default:
		return "Unknown"
	}
}

// ChangeEvent is delivered synchronously, exactly once per actual value
// change, after the board state has been updated.
type ChangeEvent struct {
	Row, Col, NewValue int
}

// Board is a mutable rows×cols grid of shape-instance ids (0 = empty)
// with an optional immutable target mask.
type Board struct {
	rows, cols int
	grid       []int
	target     []bool // nil means "all true"
	onChange   func(ChangeEvent)
}

// New creates an empty rows×cols board with no target mask (every cell
// is a target cell).
func New(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, FaultError{"New", [2]int{rows, cols}}
	}
	return &Board{rows: rows, cols: cols, grid: make([]int, rows*cols)}, nil
}

// NewWithTarget creates a board with an explicit target mask. target
// must have exactly rows rows of exactly cols columns; it is cloned so
// the caller's slice can't alias the board's.
func NewWithTarget(rows, cols int, target [][]bool) (*Board, error) {
	b, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(target) != rows {
		return nil, FaultError{"NewWithTarget: row count", len(target)}
	}
	flat := make([]bool, rows*cols)
	for r, row := range target {
		if len(row) != cols {
			return nil, FaultError{"NewWithTarget: ragged row", r}
		}
		copy(flat[r*cols:(r+1)*cols], row)
	}
	b.target = flat
	return b, nil
}

func (b *Board) idx(r, c int) int { return r*b.cols + c }

// Rows reports the grid height.
func (b *Board) Rows() int { return b.rows }

// Cols reports the grid width.
func (b *Board) Cols() int { return b.cols }

func (b *Board) inBounds(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

// OnChange registers the single subscriber for cell-change events,
// replacing any previously registered callback. Pass nil to unsubscribe.
func (b *Board) OnChange(fn func(ChangeEvent)) {
	b.onChange = fn
}

func (b *Board) emit(r, c, v int) {
	if b.onChange != nil {
		b.onChange(ChangeEvent{r, c, v})
	}
}

// Get reads a single cell.
func (b *Board) Get(r, c int) (int, error) {
	if !b.inBounds(r, c) {
		return 0, FaultError{"Get", [2]int{r, c}}
	}
	return b.grid[b.idx(r, c)], nil
}

// Set writes a single cell. It is a no-op (and emits no event) when the
// value is unchanged; otherwise it emits one ChangeEvent after the
// write.
func (b *Board) Set(r, c, v int) error {
	if !b.inBounds(r, c) {
		return FaultError{"Set", [2]int{r, c}}
	}
	i := b.idx(r, c)
	if b.grid[i] == v {
		return nil
	}
	b.grid[i] = v
	b.emit(r, c, v)
	return nil
}

// IsTarget reports whether (r,c) is a target cell. An absent target
// mask means every in-bounds cell is a target cell.
func (b *Board) IsTarget(r, c int) bool {
	if !b.inBounds(r, c) {
		return false
	}
	if b.target == nil {
		return true
	}
	return b.target[b.idx(r, c)]
}

// CheckPlacement scans every filled cell of shape s anchored at
// (row,col) and reports the resulting status. OutOfBounds dominates
// Overlapping.
func (b *Board) CheckPlacement(s *shape.Shape, row, col int) PlacementStatus {
	oob := false
	overlap := false
	for _, off := range s.Offsets() {
		r, c := row+off.DR, col+off.DC
		if !b.inBounds(r, c) {
			oob = true
			continue
		}
		if b.grid[b.idx(r, c)] != 0 {
			overlap = true
		}
	}
	switch {
	case oob:
		return OutOfBounds
	case overlap:
		return Overlapping
	default:
		return Valid
	}
}

// TryPlace writes id into every cell covered by s anchored at (row,col)
// iff CheckPlacement reports Valid; otherwise the board is left
// untouched. Fails if id <= 0 or s is nil.
func (b *Board) TryPlace(s *shape.Shape, row, col, id int) (bool, error) {
	if s == nil {
		return false, FaultError{"TryPlace: nil shape", nil}
	}
	if id <= 0 {
		return false, FaultError{"TryPlace: id", id}
	}
	if b.CheckPlacement(s, row, col) != Valid {
		return false, nil
	}
	for _, off := range s.Offsets() {
		r, c := row+off.DR, col+off.DC
		b.Set(r, c, id)
	}
	return true, nil
}

// ForcePlace writes id into every cell covered by s anchored at
// (row,col), first evicting (in its entirety, not just the overlapped
// portion) every distinct nonzero id currently underlying the shape's
// filled cells. It is a no-op returning ok=false iff the placement is
// OutOfBounds. Fails if id <= 0 or s is nil.
func (b *Board) ForcePlace(s *shape.Shape, row, col, id int) (evicted []int, ok bool, err error) {
	if s == nil {
		return nil, false, FaultError{"ForcePlace: nil shape", nil}
	}
	if id <= 0 {
		return nil, false, FaultError{"ForcePlace: id", id}
	}
	if b.CheckPlacement(s, row, col) == OutOfBounds {
		return nil, false, nil
	}

	// First-seen order keeps eviction (and its change events)
	// deterministic for identical inputs.
	seen := make(map[int]bool)
	for _, off := range s.Offsets() {
		r, c := row+off.DR, col+off.DC
		if v := b.grid[b.idx(r, c)]; v != 0 && !seen[v] {
			seen[v] = true
			evicted = append(evicted, v)
		}
	}
	for _, victim := range evicted {
		b.Remove(victim)
	}
	for _, off := range s.Offsets() {
		r, c := row+off.DR, col+off.DC
		b.Set(r, c, id)
	}
	return evicted, true, nil
}

// Remove clears every cell currently holding id, emitting one change
// event per cleared cell in row-major order, and returns the count
// cleared. Fails if id <= 0.
func (b *Board) Remove(id int) (int, error) {
	if id <= 0 {
		return 0, FaultError{"Remove: id", id}
	}
	n := 0
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if b.grid[b.idx(r, c)] == id {
				b.Set(r, c, 0)
				n++
			}
		}
	}
	return n, nil
}

// CheckWinCondition reports whether the board's fill exactly matches
// its target: every cell is filled iff it is a target cell.
func (b *Board) CheckWinCondition() bool {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			filled := b.grid[b.idx(r, c)] != 0
			if filled != b.IsTarget(r, c) {
				return false
			}
		}
	}
	return true
}

func runsOf(line []bool) []int {
	var runs []int
	cur := 0
	for _, v := range line {
		if v {
			cur++
		} else if cur > 0 {
			runs = append(runs, cur)
			cur = 0
		}
	}
	if cur > 0 {
		runs = append(runs, cur)
	}
	if len(runs) == 0 {
		return []int{0}
	}
	return runs
}

func (b *Board) row(r int, fromTarget bool) []bool {
	line := make([]bool, b.cols)
	for c := 0; c < b.cols; c++ {
		if fromTarget {
			line[c] = b.IsTarget(r, c)
		} else {
			line[c] = b.grid[b.idx(r, c)] != 0
		}
	}
	return line
}

func (b *Board) col(c int, fromTarget bool) []bool {
	line := make([]bool, b.rows)
	for r := 0; r < b.rows; r++ {
		if fromTarget {
			line[r] = b.IsTarget(r, c)
		} else {
			line[r] = b.grid[b.idx(r, c)] != 0
		}
	}
	return line
}

// TargetRowHints returns, for each row, the maximal runs of target
// cells in order. An all-empty row yields [0].
func (b *Board) TargetRowHints() [][]int {
	out := make([][]int, b.rows)
	for r := range out {
		out[r] = runsOf(b.row(r, true))
	}
	return out
}

// TargetColHints is the column analogue of TargetRowHints.
func (b *Board) TargetColHints() [][]int {
	out := make([][]int, b.cols)
	for c := range out {
		out[c] = runsOf(b.col(c, true))
	}
	return out
}

// CurrentRowHints is the live-fill analogue of TargetRowHints.
func (b *Board) CurrentRowHints() [][]int {
	out := make([][]int, b.rows)
	for r := range out {
		out[r] = runsOf(b.row(r, false))
	}
	return out
}

// CurrentColHints is the live-fill analogue of TargetColHints.
func (b *Board) CurrentColHints() [][]int {
	out := make([][]int, b.cols)
	for c := range out {
		out[c] = runsOf(b.col(c, false))
	}
	return out
}
