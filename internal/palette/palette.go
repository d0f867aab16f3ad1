// Package palette tracks, for one play session, which catalog shapes
// still have unplaced instances and which one is currently selected,
// exposed to a UI collaborator in sorted order: ascending remaining
// count, then descending rotation count, then descending cell count,
// then id.
package palette

import (
	"fmt"

	"github.com/silevilence/picto-mino/internal/shape"
	"github.com/silevilence/picto-mino/internal/tree234"
)

// FaultError is a typed programmer-error fault.
type FaultError struct {
	Op    string
	Value any
}

func (e FaultError) Error() string {
	return fmt.Sprintf("palette: %s: invalid value %v", e.Op, e.Value)
}

// entry is one catalog slot's live remaining-count state.
type entry struct {
	id        string
	shape     *shape.Shape
	rotations int
	cells     int
	remaining int
}

func cmpEntry(a, b *entry) int {
	if a.remaining != b.remaining {
		return a.remaining - b.remaining
	}
	if a.rotations != b.rotations {
		return b.rotations - a.rotations
	}
	if a.cells != b.cells {
		return b.cells - a.cells
	}
	if a.id != b.id {
		if a.id < b.id {
			return -1
		}
		return 1
	}
	return 0
}

// Entry is the read-only view of one catalog slot's state.
type Entry struct {
	ID        string
	Shape     *shape.Shape
	Remaining int
}

// Palette is the mutable per-session view over a fixed catalog: how
// many instances of each shape remain to be placed, and which one (if
// any) is currently selected.
type Palette struct {
	byID     map[string]*entry
	ordered  *tree234.Tree234[entry]
	selected string
}

// New builds a palette from a catalog and the starting instance count
// for each entry, keyed by shape id. Fails if ids and shapes have
// different lengths, or ids has a duplicate.
func New(ids []string, shapes []*shape.Shape, counts []int) (*Palette, error) {
	if len(ids) != len(shapes) || len(ids) != len(counts) {
		return nil, FaultError{"New: mismatched lengths", [3]int{len(ids), len(shapes), len(counts)}}
	}

	p := &Palette{
		byID:    make(map[string]*entry, len(ids)),
		ordered: tree234.NewTree234(cmpEntry),
	}
	for i, id := range ids {
		if _, dup := p.byID[id]; dup {
			return nil, FaultError{"New: duplicate id", id}
		}
		e := &entry{
			id: id, shape: shapes[i],
			rotations: len(shapes[i].Rotations()),
			cells:     shapes[i].CellCount(),
			remaining: counts[i],
		}
		p.byID[id] = e
		p.ordered.Add(e)
	}
	return p, nil
}

// adjust mutates e's remaining count by delta, keeping the ordered
// index consistent: Delete must run against e's pre-mutation sort key
// (Delete's lookup is comparator-based, not pointer-identity-based),
// so the snapshot is taken and removed before the mutation is applied.
func (p *Palette) adjust(e *entry, delta int) {
	old := *e
	p.ordered.Delete(&old)
	e.remaining += delta
	p.ordered.Add(e)
}

// Remaining reports how many unplaced instances of id remain, or -1 if
// id is not in the catalog.
func (p *Palette) Remaining(id string) int {
	e, ok := p.byID[id]
	if !ok {
		return -1
	}
	return e.remaining
}

// Take decrements id's remaining count by one. Fails if id is unknown
// or already at zero.
func (p *Palette) Take(id string) error {
	e, ok := p.byID[id]
	if !ok {
		return FaultError{"Take: unknown id", id}
	}
	if e.remaining <= 0 {
		return FaultError{"Take: none remaining", id}
	}
	p.adjust(e, -1)
	return nil
}

// Return increments id's remaining count by one (an undo or a removal
// from the board). Fails if id is unknown.
func (p *Palette) Return(id string) error {
	e, ok := p.byID[id]
	if !ok {
		return FaultError{"Return: unknown id", id}
	}
	p.adjust(e, 1)
	return nil
}

// Select marks id as the currently active catalog entry for placement.
// Pass "" to clear the selection. Fails if id is non-empty and unknown.
func (p *Palette) Select(id string) error {
	if id != "" {
		if _, ok := p.byID[id]; !ok {
			return FaultError{"Select: unknown id", id}
		}
	}
	p.selected = id
	return nil
}

// Selected reports the currently active catalog entry id, or "" if
// none is selected.
func (p *Palette) Selected() string { return p.selected }

// Ordered returns every catalog entry in the palette's canonical
// ordering: ascending remaining count, then descending rotation
// count, then descending cell count, then id.
func (p *Palette) Ordered() []Entry {
	n := p.ordered.Count()
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		e := p.ordered.Index(i)
		out[i] = Entry{ID: e.id, Shape: e.shape, Remaining: e.remaining}
	}
	return out
}
