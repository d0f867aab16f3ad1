package handlers

import (
	"bytes"
	"fmt"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/levelpkg"
)

// SeedLevels builds the small set of levels shipped with the server
// itself, authored as in-memory .level archives and decoded back
// through the codec so the seeds exercise the same path as on-disk
// packs. A fresh install has something to serve on its first run;
// authored packs loaded from disk take precedence over a seed with the
// same id.
func SeedLevels() (map[string]*levelpkg.Level, []string, error) {
	ids := []string{"square-dot", "parallel-lines"}
	out := make(map[string]*levelpkg.Level, len(ids))

	square, err := seedLevel(squareDotLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("square-dot: %w", err)
	}
	out["square-dot"] = square

	lines, err := seedLevel(parallelLinesLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("parallel-lines: %w", err)
	}
	out["parallel-lines"] = lines

	return out, ids, nil
}

// seedLevel round-trips an authored level through the codec, which
// both validates it and resolves its builtin shape references.
func seedLevel(build func() (*levelpkg.Level, error)) (*levelpkg.Level, error) {
	lvl, err := build()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := levelpkg.Write(&buf, lvl); err != nil {
		return nil, err
	}
	return levelpkg.Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
}

func builtinDef(id, source string) (levelpkg.ShapeDef, error) {
	src, err := levelpkg.ParseSource(source)
	if err != nil {
		return levelpkg.ShapeDef{}, err
	}
	return levelpkg.ShapeDef{ID: id, Source: src}, nil
}

// squareDotLevel is a 2x2 board fully covered by a single 2x2 block.
// The block's only legal position is the whole board, so the solution
// is trivially unique.
func squareDotLevel() (*levelpkg.Level, error) {
	b, err := board.NewWithTarget(2, 2, [][]bool{
		{true, true},
		{true, true},
	})
	if err != nil {
		return nil, err
	}
	block, err := builtinDef("block", "builtin:square-2")
	if err != nil {
		return nil, err
	}
	return &levelpkg.Level{
		ID: "square-dot", Name: "First Steps", Difficulty: 1,
		Metadata: levelpkg.Metadata{
			Version:    1,
			Author:     "picto-mino",
			ColorIndex: map[string]string{"block": "#4C9AFF"},
		},
		Board:    b,
		ShapeIDs: []string{"block"},
		Shapes:   map[string]levelpkg.ShapeDef{"block": block},
	}, nil
}

// parallelLinesLevel is a 2x3 board fully covered by two 1x3 bars. A
// bar's vertical rotation never fits (the board is only 2 rows tall),
// so each row must be filled by exactly one bar laid flat: the tiling
// is forced.
func parallelLinesLevel() (*levelpkg.Level, error) {
	b, err := board.NewWithTarget(2, 3, [][]bool{
		{true, true, true},
		{true, true, true},
	})
	if err != nil {
		return nil, err
	}
	bar, err := builtinDef("bar", "builtin:bar-3")
	if err != nil {
		return nil, err
	}
	return &levelpkg.Level{
		ID: "parallel-lines", Name: "Parallel Lines", Difficulty: 1,
		Metadata: levelpkg.Metadata{
			Version:    1,
			Author:     "picto-mino",
			ColorIndex: map[string]string{"bar": "#36B37E"},
		},
		Board:    b,
		ShapeIDs: []string{"bar", "bar"},
		Shapes:   map[string]levelpkg.ShapeDef{"bar": bar},
	}, nil
}
