package handlers

import (
	"net/url"

	"github.com/gorilla/schema"

	"github.com/silevilence/picto-mino/internal/levelpkg"
)

// LeaderboardQueryDTO narrows a leaderboard request; an empty username
// means the full ranking.
type LeaderboardQueryDTO struct {
	Username string `schema:"username"`
}

func parseLeaderboardQueryDTO(query url.Values) (LeaderboardQueryDTO, error) {
	var dto LeaderboardQueryDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, query)
	return dto, err
}

// LevelSummaryDTO is one entry in the level list response.
type LevelSummaryDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
	Unlocked   bool   `json:"unlocked"`
}

// LevelDetailDTO is the full board + hint + catalog description sent
// when a player opens a level, before any session is started.
type LevelDetailDTO struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Difficulty int          `json:"difficulty"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	RowHints   [][]int      `json:"rowHints"`
	ColHints   [][]int      `json:"colHints"`
	Palette    []PaletteDTO `json:"palette"`
}

// PaletteDTO is one catalog entry's starting count, as shown before a
// session claims any instances. Matrix rows use the same '#'/'.'
// encoding as the .level container.
type PaletteDTO struct {
	ShapeID string   `json:"shapeId"`
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Matrix  []string `json:"matrix"`
	Anchor  [2]int   `json:"anchor"`
	Count   int      `json:"count"`
}

func newLevelDetailDTO(id string, lvl *levelpkg.Level) LevelDetailDTO {
	counts := make(map[string]int)
	var order []string
	for _, sid := range lvl.ShapeIDs {
		if counts[sid] == 0 {
			order = append(order, sid)
		}
		counts[sid]++
	}

	palette := make([]PaletteDTO, 0, len(order))
	for _, sid := range order {
		def := lvl.Shapes[sid]
		s := def.Shape
		matrix := make([]string, s.Rows())
		for r := range matrix {
			row := make([]byte, s.Cols())
			for c := range row {
				if filled, _ := s.At(r, c); filled {
					row[c] = '#'
				} else {
					row[c] = '.'
				}
			}
			matrix[r] = string(row)
		}
		palette = append(palette, PaletteDTO{
			ShapeID: sid,
			Name:    def.Name,
			Color:   lvl.Metadata.ColorIndex[sid],
			Matrix:  matrix,
			Anchor:  [2]int{s.AnchorRow(), s.AnchorCol()},
			Count:   counts[sid],
		})
	}

	return LevelDetailDTO{
		ID: id, Name: lvl.Name, Difficulty: lvl.Difficulty,
		Rows: lvl.Board.Rows(), Cols: lvl.Board.Cols(),
		RowHints: lvl.Board.TargetRowHints(), ColHints: lvl.Board.TargetColHints(),
		Palette: palette,
	}
}
