package repository

import "context"

// EnsureLevelOrder registers each id's position in the unlock chain on
// first sight, in the order given. An id already present keeps its
// existing sequence, so restarting with a reordered level pack never
// shuffles players' unlock progress.
func (q Queries) EnsureLevelOrder(ctx context.Context, ids []string) error {
	batch := make([][2]any, len(ids))
	for i, id := range ids {
		batch[i] = [2]any{id, i + 1}
	}

	for _, row := range batch {
		_, err := q.db.Exec(
			ctx,
			`INSERT INTO level_order (level_id, sequence) VALUES ($1, $2)
			ON CONFLICT (level_id) DO NOTHING`,
			row[0], row[1],
		)
		if err != nil {
			return err
		}
	}
	return nil
}
