// Package levelpkg reads and writes the .level container format: a ZIP
// archive holding metadata.json, level.json, and zero or more
// *.shape.json members for custom shapes. A .level file either parses
// and resolves completely or is rejected outright; unknown members are
// ignored.
package levelpkg

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/shape"
)

// ParseError reports a fatal structural defect in a .level archive: a
// missing required member or malformed JSON.
type ParseError struct {
	Member string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("levelpkg: %s: %s", e.Member, e.Reason)
}

// ResolutionError reports a shapeIds entry whose declared source could
// not be resolved: an unknown builtin name or an absent custom member.
type ResolutionError struct {
	ShapeID string
	Source  string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("levelpkg: shape %q: cannot resolve source %q", e.ShapeID, e.Source)
}

// SourceKind discriminates where a shape definition comes from.
type SourceKind int

const (
	SourceBuiltin SourceKind = iota
	SourceCustom
)

// Source is a parsed shapeIndex entry: "builtin:<name>" names a shape
// from the built-in registry, "custom:<filename>" names a *.shape.json
// member of the same archive.
type Source struct {
	Kind SourceKind
	Name string
}

func (s Source) String() string {
	if s.Kind == SourceBuiltin {
		return "builtin:" + s.Name
	}
	return "custom:" + s.Name
}

// ParseSource splits a shapeIndex value into its discriminant and name.
func ParseSource(raw string) (Source, error) {
	kind, name, ok := strings.Cut(raw, ":")
	if !ok || name == "" {
		return Source{}, fmt.Errorf("malformed source %q", raw)
	}
	switch kind {
	case "builtin":
		return Source{Kind: SourceBuiltin, Name: name}, nil
	case "custom":
		return Source{Kind: SourceCustom, Name: name}, nil
	default:
		return Source{}, fmt.Errorf("unknown source kind %q", kind)
	}
}

// Metadata is metadata.json's schema. ShapeIndex maps shape ids to
// their source strings; ColorIndex maps shape ids to "#RRGGBB" display
// colors.
type Metadata struct {
	Version     int               `json:"version"`
	ShapeIndex  map[string]string `json:"shapeIndex"`
	ColorIndex  map[string]string `json:"colorIndex"`
	Author      string            `json:"author,omitempty"`
	Description string            `json:"description,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
}

// levelDoc is level.json's schema. Target rows use '#' for filled and
// '.' for empty; an absent target means every cell is filled.
type levelDoc struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Difficulty int      `json:"difficulty"`
	Rows       int      `json:"rows"`
	Cols       int      `json:"cols"`
	Target     []string `json:"target,omitempty"`
	ShapeIDs   []string `json:"shapeIds"`
}

// shapeDoc is one *.shape.json member's schema. AnchorRow/AnchorCol of
// -1 request the auto-centered default anchor.
type shapeDoc struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Matrix    []string `json:"matrix"`
	AnchorRow int      `json:"anchorRow"`
	AnchorCol int      `json:"anchorCol"`
}

// ShapeDef is one fully resolved catalog entry.
type ShapeDef struct {
	ID     string
	Name   string
	Source Source
	Shape  *shape.Shape
}

// Level is the decoded, resolved contents of a .level file.
type Level struct {
	ID         string
	Name       string
	Difficulty int
	Metadata   Metadata
	Board      *board.Board
	// ShapeIDs is the level's shape multiset in declared order; an id
	// appearing twice means two instances of that shape.
	ShapeIDs []string
	// Shapes holds the distinct resolved definitions, keyed by id.
	Shapes map[string]ShapeDef
}

// Catalog expands ShapeIDs into the ordered shape multiset the solver
// consumes, one entry per instance.
func (l *Level) Catalog() []*shape.Shape {
	out := make([]*shape.Shape, len(l.ShapeIDs))
	for i, id := range l.ShapeIDs {
		out[i] = l.Shapes[id].Shape
	}
	return out
}

// decodeMask parses a '#'/'.' row list into a boolean matrix, checking
// every row against wantCols (pass 0 to take the first row's width).
func decodeMask(rows []string, wantCols int) ([][]bool, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	if wantCols == 0 {
		wantCols = len(rows[0])
	}
	out := make([][]bool, len(rows))
	for r, line := range rows {
		if len(line) != wantCols {
			return nil, fmt.Errorf("row %d is %d characters, want %d", r, len(line), wantCols)
		}
		row := make([]bool, wantCols)
		for c, ch := range line {
			switch ch {
			case '#':
				row[c] = true
			case '.':
			default:
				return nil, fmt.Errorf("row %d: invalid character %q", r, string(ch))
			}
		}
		out[r] = row
	}
	return out, nil
}

// encodeMask is decodeMask's inverse.
func encodeMask(mask [][]bool) []string {
	out := make([]string, len(mask))
	for r, row := range mask {
		var sb strings.Builder
		for _, v := range row {
			if v {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		out[r] = sb.String()
	}
	return out
}

// shapeFromDoc validates and builds the shape a *.shape.json member
// describes.
func shapeFromDoc(doc shapeDoc) (*shape.Shape, error) {
	matrix, err := decodeMask(doc.Matrix, 0)
	if err != nil {
		return nil, err
	}
	if doc.AnchorRow == -1 && doc.AnchorCol == -1 {
		return shape.New(matrix)
	}
	return shape.New(matrix, [2]int{doc.AnchorRow, doc.AnchorCol})
}

// Read decodes and resolves a .level archive of size `size` from r.
func Read(r io.ReaderAt, size int64) (*Level, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, ParseError{"<archive>", err.Error()}
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var meta Metadata
	if err := decodeMember(files, "metadata.json", &meta); err != nil {
		return nil, err
	}
	if meta.Version < 1 {
		return nil, ParseError{"metadata.json", fmt.Sprintf("version %d, want >= 1", meta.Version)}
	}

	var doc levelDoc
	if err := decodeMember(files, "level.json", &doc); err != nil {
		return nil, err
	}
	if doc.Rows <= 0 || doc.Cols <= 0 {
		return nil, ParseError{"level.json", "rows/cols must be positive"}
	}
	if doc.Difficulty < 1 || doc.Difficulty > 5 {
		return nil, ParseError{"level.json", fmt.Sprintf("difficulty %d, want 1-5", doc.Difficulty)}
	}

	b, err := boardFromDoc(doc)
	if err != nil {
		return nil, err
	}

	lvl := &Level{
		ID: doc.ID, Name: doc.Name, Difficulty: doc.Difficulty,
		Metadata: meta, Board: b,
		ShapeIDs: doc.ShapeIDs,
		Shapes:   make(map[string]ShapeDef, len(doc.ShapeIDs)),
	}

	for _, id := range doc.ShapeIDs {
		if _, done := lvl.Shapes[id]; done {
			continue
		}
		def, err := resolveShape(files, meta, id)
		if err != nil {
			return nil, err
		}
		lvl.Shapes[id] = def
	}

	return lvl, nil
}

func boardFromDoc(doc levelDoc) (*board.Board, error) {
	if doc.Target == nil {
		b, err := board.New(doc.Rows, doc.Cols)
		if err != nil {
			return nil, ParseError{"level.json", err.Error()}
		}
		return b, nil
	}
	if len(doc.Target) != doc.Rows {
		return nil, ParseError{"level.json", fmt.Sprintf("target has %d rows, want %d", len(doc.Target), doc.Rows)}
	}
	mask, err := decodeMask(doc.Target, doc.Cols)
	if err != nil {
		return nil, ParseError{"level.json", "target: " + err.Error()}
	}
	b, err := board.NewWithTarget(doc.Rows, doc.Cols, mask)
	if err != nil {
		return nil, ParseError{"level.json", err.Error()}
	}
	return b, nil
}

func resolveShape(files map[string]*zip.File, meta Metadata, id string) (ShapeDef, error) {
	raw, ok := meta.ShapeIndex[id]
	if !ok {
		return ShapeDef{}, ResolutionError{ShapeID: id, Source: "<missing shapeIndex entry>"}
	}
	src, err := ParseSource(raw)
	if err != nil {
		return ShapeDef{}, ParseError{"metadata.json", err.Error()}
	}

	switch src.Kind {
	case SourceBuiltin:
		s, name, ok := builtinShape(src.Name)
		if !ok {
			return ShapeDef{}, ResolutionError{ShapeID: id, Source: raw}
		}
		return ShapeDef{ID: id, Name: name, Source: src, Shape: s}, nil

	default: // SourceCustom
		if _, ok := files[src.Name]; !ok {
			return ShapeDef{}, ResolutionError{ShapeID: id, Source: raw}
		}
		var doc shapeDoc
		if err := decodeMember(files, src.Name, &doc); err != nil {
			return ShapeDef{}, err
		}
		if doc.ID != id {
			return ShapeDef{}, ParseError{src.Name, fmt.Sprintf("id mismatch: shapeIndex wants %q, member declares %q", id, doc.ID)}
		}
		s, err := shapeFromDoc(doc)
		if err != nil {
			return ShapeDef{}, ParseError{src.Name, err.Error()}
		}
		return ShapeDef{ID: id, Name: doc.Name, Source: src, Shape: s}, nil
	}
}

func decodeMember(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return ParseError{name, "missing member"}
	}
	rc, err := f.Open()
	if err != nil {
		return ParseError{name, err.Error()}
	}
	defer rc.Close()

	dec := json.NewDecoder(rc)
	if err := dec.Decode(v); err != nil {
		return ParseError{name, err.Error()}
	}
	return nil
}

// Write serializes lvl as a .level archive to w. Member order is fixed
// (metadata.json, level.json, then custom *.shape.json members in
// sorted filename order) and timestamps are suppressed, so equal Level
// values always produce byte-identical archives.
func Write(w io.Writer, lvl *Level) error {
	zw := zip.NewWriter(w)

	meta := lvl.Metadata
	if meta.Version < 1 {
		meta.Version = 1
	}
	if meta.ColorIndex == nil {
		meta.ColorIndex = map[string]string{}
	}
	meta.ShapeIndex = make(map[string]string, len(lvl.Shapes))
	for id, def := range lvl.Shapes {
		meta.ShapeIndex[id] = def.Source.String()
	}
	if err := writeMember(zw, "metadata.json", meta); err != nil {
		return err
	}

	target := make([][]bool, lvl.Board.Rows())
	for r := range target {
		row := make([]bool, lvl.Board.Cols())
		for c := range row {
			row[c] = lvl.Board.IsTarget(r, c)
		}
		target[r] = row
	}

	doc := levelDoc{
		ID: lvl.ID, Name: lvl.Name, Difficulty: lvl.Difficulty,
		Rows: lvl.Board.Rows(), Cols: lvl.Board.Cols(),
		Target:   encodeMask(target),
		ShapeIDs: append([]string(nil), lvl.ShapeIDs...),
	}
	if err := writeMember(zw, "level.json", doc); err != nil {
		return err
	}

	var customIDs []string
	for id, def := range lvl.Shapes {
		if def.Source.Kind == SourceCustom {
			customIDs = append(customIDs, id)
		}
	}
	sort.Slice(customIDs, func(i, j int) bool {
		return lvl.Shapes[customIDs[i]].Source.Name < lvl.Shapes[customIDs[j]].Source.Name
	})

	for _, id := range customIDs {
		def := lvl.Shapes[id]
		s := def.Shape
		mask := make([][]bool, s.Rows())
		for r := range mask {
			row := make([]bool, s.Cols())
			for c := range row {
				row[c], _ = s.At(r, c)
			}
			mask[r] = row
		}
		doc := shapeDoc{
			ID: id, Name: def.Name,
			Matrix:    encodeMask(mask),
			AnchorRow: s.AnchorRow(), AnchorCol: s.AnchorCol(),
		}
		if err := writeMember(zw, def.Source.Name, doc); err != nil {
			return err
		}
	}

	return zw.Close()
}

// writeMember adds one pretty-printed JSON member with a zeroed
// timestamp so repeated writes of the same content are byte-identical.
func writeMember(zw *zip.Writer, name string, v any) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
