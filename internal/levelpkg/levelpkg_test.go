package levelpkg_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/levelpkg"
	"github.com/silevilence/picto-mino/internal/shape"
)

func mustSource(t *testing.T, raw string) levelpkg.Source {
	t.Helper()
	src, err := levelpkg.ParseSource(raw)
	require.NoError(t, err)
	return src
}

// sampleLevel references one builtin shape and one custom shape, so a
// round trip exercises both resolution paths.
func sampleLevel(t *testing.T) *levelpkg.Level {
	t.Helper()
	b, err := board.NewWithTarget(2, 2, [][]bool{
		{true, true},
		{true, false},
	})
	require.NoError(t, err)

	hook, err := shape.New([][]bool{
		{true, true},
		{true, false},
	}, [2]int{0, 0})
	require.NoError(t, err)

	return &levelpkg.Level{
		ID: "corner", Name: "Corner", Difficulty: 2,
		Metadata: levelpkg.Metadata{
			Version:    1,
			Author:     "student",
			ColorIndex: map[string]string{"dot": "#FF5630", "hook": "#6554C0"},
		},
		Board:    b,
		ShapeIDs: []string{"dot", "hook"},
		Shapes: map[string]levelpkg.ShapeDef{
			"dot": {ID: "dot", Source: mustSource(t, "builtin:dot")},
			"hook": {
				ID: "hook", Name: "Hook",
				Source: mustSource(t, "custom:hook.shape.json"),
				Shape:  hook,
			},
		},
	}
}

func roundTrip(t *testing.T, lvl *levelpkg.Level) *levelpkg.Level {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, levelpkg.Write(&buf, lvl))
	got, err := levelpkg.Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return got
}

func TestWriteReadRoundTrip(t *testing.T) {
	lvl := sampleLevel(t)
	got := roundTrip(t, lvl)

	assert.Equal(t, "corner", got.ID)
	assert.Equal(t, "Corner", got.Name)
	assert.Equal(t, 2, got.Difficulty)
	assert.Equal(t, "student", got.Metadata.Author)
	assert.Equal(t, lvl.Metadata.ColorIndex, got.Metadata.ColorIndex)
	assert.Equal(t, []string{"dot", "hook"}, got.ShapeIDs)

	require.Contains(t, got.Shapes, "dot")
	require.Contains(t, got.Shapes, "hook")
	assert.Equal(t, levelpkg.SourceBuiltin, got.Shapes["dot"].Source.Kind)
	assert.Equal(t, levelpkg.SourceCustom, got.Shapes["hook"].Source.Kind)
	assert.True(t, lvl.Shapes["hook"].Shape.Equal(got.Shapes["hook"].Shape))
	assert.Equal(t, 1, got.Shapes["dot"].Shape.CellCount())

	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			assert.Equal(t, lvl.Board.IsTarget(r, c), got.Board.IsTarget(r, c))
		}
	}
}

func TestCatalogExpandsMultiset(t *testing.T) {
	lvl := sampleLevel(t)
	lvl.ShapeIDs = []string{"dot", "dot", "hook"}

	got := roundTrip(t, lvl)
	catalog := got.Catalog()
	require.Len(t, catalog, 3)
	assert.True(t, catalog[0].Equal(catalog[1]))
	assert.False(t, catalog[0].Equal(catalog[2]))
}

func TestWriteIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, levelpkg.Write(&a, sampleLevel(t)))
	require.NoError(t, levelpkg.Write(&b, sampleLevel(t)))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

// writeRawArchive builds a .level archive member-by-member so tests
// can produce malformed containers the writer refuses to.
func writeRawArchive(t *testing.T, members map[string]any) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, v := range members {
		f, err := zw.Create(name)
		require.NoError(t, err)
		switch v := v.(type) {
		case []byte:
			_, err = f.Write(v)
		default:
			err = json.NewEncoder(f).Encode(v)
		}
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func validMembers() map[string]any {
	return map[string]any{
		"metadata.json": map[string]any{
			"version":    1,
			"shapeIndex": map[string]string{"dot": "builtin:dot"},
			"colorIndex": map[string]string{"dot": "#FF5630"},
		},
		"level.json": map[string]any{
			"id": "tiny", "name": "Tiny", "difficulty": 1,
			"rows": 1, "cols": 2,
			"target":   []string{"#."},
			"shapeIds": []string{"dot"},
		},
	}
}

func readArchive(t *testing.T, data []byte) (*levelpkg.Level, error) {
	t.Helper()
	return levelpkg.Read(bytes.NewReader(data), int64(len(data)))
}

func TestReadIgnoresUnknownMembers(t *testing.T) {
	members := validMembers()
	members["thumbnail.png"] = []byte{0x89, 0x50, 0x4e, 0x47}

	lvl, err := readArchive(t, writeRawArchive(t, members))
	require.NoError(t, err)
	assert.Equal(t, "tiny", lvl.ID)
}

func TestReadAbsentTargetMeansAllFilled(t *testing.T) {
	members := validMembers()
	lvlDoc := members["level.json"].(map[string]any)
	delete(lvlDoc, "target")

	lvl, err := readArchive(t, writeRawArchive(t, members))
	require.NoError(t, err)
	assert.True(t, lvl.Board.IsTarget(0, 0))
	assert.True(t, lvl.Board.IsTarget(0, 1))
}

func TestReadRejectsMissingRequiredMember(t *testing.T) {
	members := validMembers()
	delete(members, "level.json")

	_, err := readArchive(t, writeRawArchive(t, members))
	var parseErr levelpkg.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "level.json", parseErr.Member)
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	members := validMembers()
	members["level.json"] = []byte("{not json")

	_, err := readArchive(t, writeRawArchive(t, members))
	var parseErr levelpkg.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestReadRejectsUnknownBuiltin(t *testing.T) {
	members := validMembers()
	members["metadata.json"] = map[string]any{
		"version":    1,
		"shapeIndex": map[string]string{"dot": "builtin:no-such-shape"},
		"colorIndex": map[string]string{},
	}

	_, err := readArchive(t, writeRawArchive(t, members))
	var resErr levelpkg.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "dot", resErr.ShapeID)
}

func TestReadRejectsAbsentCustomMember(t *testing.T) {
	members := validMembers()
	members["metadata.json"] = map[string]any{
		"version":    1,
		"shapeIndex": map[string]string{"dot": "custom:ghost.shape.json"},
		"colorIndex": map[string]string{},
	}

	_, err := readArchive(t, writeRawArchive(t, members))
	var resErr levelpkg.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "custom:ghost.shape.json", resErr.Source)
}

func TestReadRejectsBadVersion(t *testing.T) {
	members := validMembers()
	members["metadata.json"] = map[string]any{
		"version":    0,
		"shapeIndex": map[string]string{"dot": "builtin:dot"},
		"colorIndex": map[string]string{},
	}

	_, err := readArchive(t, writeRawArchive(t, members))
	require.Error(t, err)
}

func TestReadRejectsBadDifficulty(t *testing.T) {
	members := validMembers()
	lvlDoc := members["level.json"].(map[string]any)
	lvlDoc["difficulty"] = 6

	_, err := readArchive(t, writeRawArchive(t, members))
	require.Error(t, err)
}

func TestCustomShapeAutoCenterAnchor(t *testing.T) {
	members := validMembers()
	members["metadata.json"] = map[string]any{
		"version":    1,
		"shapeIndex": map[string]string{"dot": "custom:wide.shape.json"},
		"colorIndex": map[string]string{},
	}
	members["wide.shape.json"] = map[string]any{
		"id": "dot", "name": "Wide",
		"matrix":    []string{"###"},
		"anchorRow": -1, "anchorCol": -1,
	}

	lvl, err := readArchive(t, writeRawArchive(t, members))
	require.NoError(t, err)
	s := lvl.Shapes["dot"].Shape
	assert.Equal(t, 0, s.AnchorRow())
	assert.Equal(t, 1, s.AnchorCol())
}

func TestReadRejectsMalformedArchive(t *testing.T) {
	_, err := levelpkg.Read(bytes.NewReader([]byte("not a zip")), 9)
	require.Error(t, err)
}
