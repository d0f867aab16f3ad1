// Package selector searches a shape catalog for a multiset of
// instances that tiles a board's target mask with exactly one
// distinguishable solution, using iterative deepening over
// non-decreasing catalog-index sequences with arithmetic pruning.
package selector

import (
	"sort"
	"time"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/cover"
	"github.com/silevilence/picto-mino/internal/dlx"
	"github.com/silevilence/picto-mino/internal/shape"
)

// Result is the outcome sum type for Select.
type Result int

const (
	Found Result = iota
	Timeout
	TargetTooLarge
	NoShapes
	NoValidPlacements
	NoUniqueSolution
)

func (r Result) String() string {
	switch r {
	case Found:
		return "Found"
	case Timeout:
		return "Timeout"
	case TargetTooLarge:
		return "TargetTooLarge"
	case NoShapes:
		return "NoShapes"
	case NoValidPlacements:
		return "NoValidPlacements"
	case NoUniqueSolution:
		return "NoUniqueSolution"
	default:
		return "Unknown"
	}
}

// Stats reports how much work a Select call did before returning.
type Stats struct {
	// Combinations is the number of complete multisets that went
	// through uniqueness verification.
	Combinations int
	// Prunes is the number of branches cut off arithmetically before
	// any cover matrix was built.
	Prunes int
	// Elapsed is the wall-clock duration of the whole call.
	Elapsed time.Duration
}

// Selection is a chosen multiset of catalog instances: Indices is a
// sequence into the caller's catalog (duplicates meaning "use this
// prototype more than once"), Shapes its expansion.
type Selection struct {
	Indices []int
	Shapes  []*shape.Shape
}

// candidate is one surviving catalog shape after the pre-pass, with
// the counts the search orders and prunes by.
type candidate struct {
	catalogIndex int
	shape        *shape.Shape
	cells        int
	rotations    int
	placements   int
}

// Select finds a shape multiset drawn from catalog whose cover matrix
// has exactly one distinguishable exact cover of b's target mask,
// trying smaller multisets first. maxDepth bounds the multiset size;
// deadline, if non-zero, aborts cooperatively and returns Timeout.
func Select(b *board.Board, catalog []*shape.Shape, maxDepth int, deadline time.Time) (Selection, Stats, Result) {
	started := time.Now()
	stats := Stats{}
	finish := func(sel Selection, res Result) (Selection, Stats, Result) {
		stats.Elapsed = time.Since(started)
		return sel, stats, res
	}

	if len(catalog) == 0 {
		return finish(Selection{}, NoShapes)
	}

	targetCells := 0
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if b.IsTarget(r, c) {
				targetCells++
			}
		}
	}

	hasDeadline := !deadline.IsZero()

	// Pre-pass: drop shapes too big for the target or with no valid
	// placement on it, and record the counts the ordering needs.
	cands := make([]candidate, 0, len(catalog))
	maxCells := 0
	for i, s := range catalog {
		if hasDeadline && time.Now().After(deadline) {
			return finish(Selection{}, Timeout)
		}
		cells := s.CellCount()
		if cells == 0 || cells > targetCells {
			continue
		}
		rotations := s.Rotations()
		placements := 0
		for _, o := range rotations {
			placements += countPlacements(b, o)
		}
		if placements == 0 {
			continue
		}
		cands = append(cands, candidate{
			catalogIndex: i, shape: s,
			cells: cells, rotations: len(rotations), placements: placements,
		})
		if cells > maxCells {
			maxCells = cells
		}
	}
	if len(cands) == 0 {
		return finish(Selection{}, NoValidPlacements)
	}
	if maxCells*maxDepth < targetCells {
		return finish(Selection{}, TargetTooLarge)
	}

	// Most-constrained shapes first: ascending placement count, then
	// descending distinct-rotation count, then descending cell count.
	// The ordering is fixed for the whole search.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].placements != cands[j].placements {
			return cands[i].placements < cands[j].placements
		}
		if cands[i].rotations != cands[j].rotations {
			return cands[i].rotations > cands[j].rotations
		}
		return cands[i].cells > cands[j].cells
	})

	d := &dfs{
		b: b, cands: cands, stats: &stats,
		deadline: deadline, hasDeadline: hasDeadline,
		targetCells: targetCells, maxCells: maxCells,
	}

	startDepth := (targetCells + maxCells - 1) / maxCells
	if startDepth < 1 {
		startDepth = 1
	}
	for depth := startDepth; depth <= maxDepth; depth++ {
		d.indices = d.indices[:0]
		if sel, res, stop := d.search(0, 0, depth); stop {
			return finish(sel, res)
		}
	}

	return finish(Selection{}, NoUniqueSolution)
}

// countPlacements counts the top-left anchors at which every filled
// cell of oriented lands on a target cell of b.
func countPlacements(b *board.Board, oriented *shape.Shape) int {
	n := 0
	for top := 0; top <= b.Rows()-oriented.Rows(); top++ {
	next:
		for left := 0; left <= b.Cols()-oriented.Cols(); left++ {
			for dr := 0; dr < oriented.Rows(); dr++ {
				for dc := 0; dc < oriented.Cols(); dc++ {
					if filled, _ := oriented.At(dr, dc); filled && !b.IsTarget(top+dr, left+dc) {
						continue next
					}
				}
			}
			n++
		}
	}
	return n
}

type dfs struct {
	b           *board.Board
	cands       []candidate
	stats       *Stats
	deadline    time.Time
	hasDeadline bool
	steps       int
	indices     []int
	targetCells int
	maxCells    int
}

func (d *dfs) expired() bool {
	return d.hasDeadline && time.Now().After(d.deadline)
}

// search explores non-decreasing candidate-index sequences so each
// multiset is enumerated exactly once. remaining is the number of
// slots left at the current deepening level.
func (d *dfs) search(start, covered, remaining int) (Selection, Result, bool) {
	d.steps++
	if d.steps%100 == 0 && d.expired() {
		return Selection{}, Timeout, true
	}

	if remaining == 0 {
		if covered != d.targetCells {
			return Selection{}, 0, false
		}
		return d.verify()
	}

	// Even filling every remaining slot with the biggest surviving
	// shape cannot reach the target from here.
	if covered+remaining*d.maxCells < d.targetCells {
		d.stats.Prunes++
		return Selection{}, 0, false
	}

	for ci := start; ci < len(d.cands); ci++ {
		cells := d.cands[ci].cells
		if cells > d.targetCells-covered {
			d.stats.Prunes++
			continue
		}
		if covered+cells+(remaining-1)*d.maxCells < d.targetCells {
			d.stats.Prunes++
			continue
		}
		d.indices = append(d.indices, ci)
		if sel, res, stop := d.search(ci, covered+cells, remaining-1); stop {
			return sel, res, true
		}
		d.indices = d.indices[:len(d.indices)-1]
	}
	return Selection{}, 0, false
}

// verify builds the cover matrix for the current multiset and checks
// for a unique exact cover: the DLX enumeration is bounded at
// duplicateFactor+1 solutions, and the multiset is unique iff exactly
// duplicateFactor are found.
func (d *dfs) verify() (Selection, Result, bool) {
	d.stats.Combinations++

	shapes := make([]*shape.Shape, len(d.indices))
	for i, ci := range d.indices {
		shapes[i] = d.cands[ci].shape
	}

	m, timedOut := cover.Build(d.b, shapes, d.deadline)
	if timedOut {
		return Selection{}, Timeout, true
	}
	if len(m.Rows) == 0 {
		return Selection{}, 0, false
	}

	factor := cover.DuplicateFactor(shapes)
	solver, timedOut, err := dlx.NewWithDeadline(m.NumCols(), m.Rows, d.deadline)
	if timedOut {
		return Selection{}, Timeout, true
	}
	if err != nil {
		return Selection{}, 0, false
	}
	count, timedOut := solver.CountSolutions(factor+1, d.deadline)
	if timedOut {
		return Selection{}, Timeout, true
	}
	if count != factor {
		return Selection{}, 0, false
	}

	indices := make([]int, len(d.indices))
	for i, ci := range d.indices {
		indices[i] = d.cands[ci].catalogIndex
	}
	return Selection{Indices: indices, Shapes: shapes}, Found, true
}
