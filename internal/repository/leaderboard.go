// custom query
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// LeaderboardEntry is one row of a per-level best-time ranking.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	LevelId    string `json:"level_id"`
	BestTimeMs int64  `json:"best_time_ms"`
}

// LeaderboardFilter narrows a leaderboard query; LevelId is required,
// Username optionally restricts it to one player's row.
type LeaderboardFilter struct {
	LevelId  string
	Username *string
}

func (f LeaderboardFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := []string{"level_id = @level_id"}
	args := pgx.NamedArgs{"level_id": f.LevelId}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	return strings.Join(clauses, " AND "), args
}

// GetLeaderboard returns completed attempts for filter.LevelId, ranked
// by best_time_ms ascending.
func (q Queries) GetLeaderboard(ctx context.Context, filter LeaderboardFilter) ([]LeaderboardEntry, error) {
	whereClause, args := filter.WhereClause()

	query := `
	SELECT
		player.username,
		level_progress.level_id,
		level_progress.best_time_ms
	FROM level_progress
		JOIN player USING (player_id)
	WHERE
		level_progress.completed = true
		AND level_progress.best_time_ms IS NOT NULL
		AND ` + whereClause + `
	ORDER BY level_progress.best_time_ms;`

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[LeaderboardEntry])
}
