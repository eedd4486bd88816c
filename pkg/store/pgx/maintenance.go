package pgx

import (
	"context"
	"time"

	"github.com/signalgraph/ontology/pkg/logger"
	"github.com/signalgraph/ontology/pkg/ontology"
)

// MarkStaleSources flags every source entity whose last successful sync is
// older than threshold (or that never synced) as stale, and returns how many
// rows changed. Downstream readers use the flag to discount those sources.
func (s *GraphDBStorage) MarkStaleSources(ctx context.Context, threshold time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-threshold)

	tag, err := s.conn.Exec(ctx, `
		UPDATE entities
		SET sync_status = $1, updated_at = now()
		WHERE type = $2
		  AND sync_status IS DISTINCT FROM $1
		  AND (last_synced_at IS NULL OR last_synced_at < $3)`,
		ontology.SyncStale, ontology.TypeSource, cutoff,
	)
	if err != nil {
		return 0, err
	}

	marked := tag.RowsAffected()
	if marked > 0 {
		logger.Info("[Store][MarkStaleSources] Sources flagged stale",
			"count", marked, "cutoff", cutoff)
	}
	return marked, nil
}
