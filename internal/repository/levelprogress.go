package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// LevelProgress is one player's cumulative record against one level.
type LevelProgress struct {
	PlayerId     int
	LevelId      string
	Attempts     int
	Completed    bool
	BestTimeMs   *int64
	LastPlayedAt pgtype.Timestamptz
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

// FetchLevelProgress returns a player's row for a level, or
// pgx.ErrNoRows if the player has never attempted it.
func (q Queries) FetchLevelProgress(ctx context.Context, playerId int, levelId string) (*LevelProgress, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM level_progress WHERE player_id = $1 AND level_id = $2",
		playerId, levelId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelProgress])
}

// RecordAttempt upserts a player's row for a level after a completed
// or abandoned solve attempt. timeMs is only applied if it betters
// the existing best (or there is none yet); completed is sticky (true
// stays true once set).
func (q Queries) RecordAttempt(
	ctx context.Context, playerId int, levelId string, completed bool, timeMs *int64,
) (*LevelProgress, error) {
	args := pgx.NamedArgs{
		"player_id": playerId,
		"level_id":  levelId,
		"completed": completed,
		"time_ms":   timeMs,
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO level_progress (player_id, level_id, attempts, completed, best_time_ms, last_played_at)
		VALUES (@player_id, @level_id, 1, @completed, @time_ms, now())
		ON CONFLICT (player_id, level_id) DO UPDATE SET
			attempts = level_progress.attempts + 1,
			completed = level_progress.completed OR EXCLUDED.completed,
			best_time_ms = LEAST(level_progress.best_time_ms, EXCLUDED.best_time_ms),
			last_played_at = now()
		RETURNING *`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelProgress])
}

// IsUnlocked reports whether levelId is playable for playerId: either
// it has no declared predecessor, or the predecessor's progress row is
// marked completed.
func (q Queries) IsUnlocked(ctx context.Context, playerId int, levelId string) (bool, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT NOT EXISTS (
			SELECT 1 FROM level_order lo
			JOIN level_order prev ON prev.sequence = lo.sequence - 1
			LEFT JOIN level_progress lp ON lp.level_id = prev.level_id AND lp.player_id = @player_id
			WHERE lo.level_id = @level_id AND (lp.completed IS NULL OR lp.completed = false)
		)`,
		pgx.NamedArgs{"player_id": playerId, "level_id": levelId},
	)
	return pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (bool, error) {
		var v bool
		err := row.Scan(&v)
		return v, err
	})
}
