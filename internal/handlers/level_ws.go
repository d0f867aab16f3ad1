package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/silevilence/picto-mino/internal/board"
	"github.com/silevilence/picto-mino/internal/levelpkg"
	"github.com/silevilence/picto-mino/internal/palette"
	"github.com/silevilence/picto-mino/internal/repository"
	"github.com/silevilence/picto-mino/internal/shape"
)

// ErrLevelLocked is returned when a player requests a level whose
// predecessor they have not yet completed.
var ErrLevelLocked = errors.New("level is locked")

// Command is one client-to-server message on a live board session.
type Command struct {
	Op      string `json:"op"` // "place", "remove", or "select"
	ShapeID string `json:"shapeId,omitempty"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

// Event is one server-to-client message on a live board session.
type Event struct {
	Type    string `json:"type"`
	Row     int    `json:"row,omitempty"`
	Col     int    `json:"col,omitempty"`
	Value   int    `json:"value,omitempty"`
	ShapeID string `json:"shapeId,omitempty"`
	Message string `json:"message,omitempty"`
}

// boardSession is one live connection's mutable play state: its own
// board and palette instances, isolated from every other connection
// playing the same level.
type boardSession struct {
	levelId   string
	shapesByID map[string]*shape.Shape
	board     *board.Board
	palette   *palette.Palette
	placed    map[int]string // placement id -> shapeId, for Return on removal
	nextID    int
	playerId  int
	authed    bool
	repo      *repository.Queries
	logger    *slog.Logger
	started   time.Time
}

func cloneTargetBoard(lvl *levelpkg.Level) (*board.Board, error) {
	rows, cols := lvl.Board.Rows(), lvl.Board.Cols()
	target := make([][]bool, rows)
	for r := range target {
		row := make([]bool, cols)
		for c := range row {
			row[c] = lvl.Board.IsTarget(r, c)
		}
		target[r] = row
	}
	return board.NewWithTarget(rows, cols, target)
}

// tallyShapeCounts groups a Level's flat shape-id multiset (one entry
// per instance) into the distinct-id/count form palette.New expects.
func tallyShapeCounts(lvl *levelpkg.Level) (ids []string, shapes []*shape.Shape, counts []int) {
	countByID := make(map[string]int)
	var order []string
	for _, id := range lvl.ShapeIDs {
		if countByID[id] == 0 {
			order = append(order, id)
		}
		countByID[id]++
	}

	ids = make([]string, len(order))
	shapes = make([]*shape.Shape, len(order))
	counts = make([]int, len(order))
	for i, id := range order {
		ids[i] = id
		shapes[i] = lvl.Shapes[id].Shape
		counts[i] = countByID[id]
	}
	return ids, shapes, counts
}

func newBoardSession(
	levelId string, lvl *levelpkg.Level, playerId int, authed bool,
	repo *repository.Queries, logger *slog.Logger,
) (*boardSession, error) {
	b, err := cloneTargetBoard(lvl)
	if err != nil {
		return nil, fmt.Errorf("cloning board: %w", err)
	}

	ids, shapes, counts := tallyShapeCounts(lvl)
	p, err := palette.New(ids, shapes, counts)
	if err != nil {
		return nil, fmt.Errorf("building palette: %w", err)
	}

	shapesByID := make(map[string]*shape.Shape, len(ids))
	for i, id := range ids {
		shapesByID[id] = shapes[i]
	}

	return &boardSession{
		levelId: levelId, shapesByID: shapesByID, board: b, palette: p,
		placed: make(map[int]string), nextID: 1,
		playerId: playerId, authed: authed,
		repo: repo, logger: logger, started: time.Now(),
	}, nil
}

func (s *boardSession) run(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	s.board.OnChange(func(ev board.ChangeEvent) {
		conn.WriteJSON(Event{Type: "cellChanged", Row: ev.Row, Col: ev.Col, Value: ev.NewValue})
	})

	if err := conn.WriteJSON(Event{Type: "ready"}); err != nil {
		return
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Op {
		case "select":
			if err := s.palette.Select(cmd.ShapeID); err != nil {
				conn.WriteJSON(Event{Type: "error", Message: err.Error()})
				continue
			}
			conn.WriteJSON(Event{Type: "selected", ShapeID: cmd.ShapeID})

		case "place":
			s.handlePlace(ctx, conn, cmd)

		case "remove":
			s.handleRemove(conn, cmd)

		default:
			conn.WriteJSON(Event{Type: "error", Message: fmt.Sprintf("unknown op %q", cmd.Op)})
		}
	}
}

func (s *boardSession) handlePlace(ctx context.Context, conn *websocket.Conn, cmd Command) {
	if cmd.ShapeID == "" {
		cmd.ShapeID = s.palette.Selected()
	}
	if cmd.ShapeID == "" {
		conn.WriteJSON(Event{Type: "error", Message: "no shape selected"})
		return
	}

	shp, ok := s.shapesByID[cmd.ShapeID]
	if !ok {
		conn.WriteJSON(Event{Type: "error", Message: "unknown shape id"})
		return
	}

	if err := s.palette.Take(cmd.ShapeID); err != nil {
		conn.WriteJSON(Event{Type: "error", Message: err.Error()})
		return
	}

	id := s.nextID
	placedOK, err := s.board.TryPlace(shp, cmd.Row, cmd.Col, id)
	if err != nil {
		s.palette.Return(cmd.ShapeID)
		conn.WriteJSON(Event{Type: "error", Message: err.Error()})
		return
	}
	if !placedOK {
		s.palette.Return(cmd.ShapeID)
		conn.WriteJSON(Event{Type: "rejected", ShapeID: cmd.ShapeID, Row: cmd.Row, Col: cmd.Col})
		return
	}

	s.placed[id] = cmd.ShapeID
	s.nextID++
	conn.WriteJSON(Event{Type: "placed", ShapeID: cmd.ShapeID, Row: cmd.Row, Col: cmd.Col, Value: id})

	if s.board.CheckWinCondition() {
		s.onWin(ctx, conn)
	}
}

func (s *boardSession) handleRemove(conn *websocket.Conn, cmd Command) {
	id, err := s.board.Get(cmd.Row, cmd.Col)
	if err != nil || id == 0 {
		conn.WriteJSON(Event{Type: "error", Message: "no placement at that cell"})
		return
	}

	if _, err := s.board.Remove(id); err != nil {
		conn.WriteJSON(Event{Type: "error", Message: err.Error()})
		return
	}

	shapeID := s.placed[id]
	delete(s.placed, id)
	if shapeID != "" {
		s.palette.Return(shapeID)
	}
	conn.WriteJSON(Event{Type: "removed", ShapeID: shapeID, Value: id})
}

func (s *boardSession) onWin(ctx context.Context, conn *websocket.Conn) {
	elapsed := time.Since(s.started).Milliseconds()
	conn.WriteJSON(Event{Type: "won", Value: int(elapsed)})

	if !s.authed {
		return
	}
	if _, err := s.repo.RecordAttempt(ctx, s.playerId, s.levelId, true, &elapsed); err != nil {
		s.logger.Error("unable to record win", "level_id", s.levelId, "player_id", s.playerId, "error", err)
	}
}
