package pgx

import (
	"context"

	"github.com/signalgraph/ontology/pkg/ontology"
	"github.com/signalgraph/ontology/pkg/store"
)

// GetStats aggregates entity counts by type, relationship counts by
// predicate and the overall average relationship confidence. Everything is
// computed with grouped aggregate queries, so the cost scales with the
// number of types and predicates, not with the number of rows.
func (s *GraphDBStorage) GetStats(ctx context.Context) (*store.Stats, error) {
	stats := &store.Stats{
		EntityCounts:       make(map[ontology.EntityType]int64),
		RelationshipCounts: make(map[ontology.Predicate]int64),
	}

	rows, err := s.conn.Query(ctx,
		`SELECT type, COUNT(*) FROM entities GROUP BY type`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t ontology.EntityType
		var count int64
		if err := rows.Scan(&t, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.EntityCounts[t] = count
		stats.TotalEntities += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.conn.Query(ctx,
		`SELECT predicate, COUNT(*) FROM relationships GROUP BY predicate`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p ontology.Predicate
		var count int64
		if err := rows.Scan(&p, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.RelationshipCounts[p] = count
		stats.TotalRelationships += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.conn.QueryRow(ctx,
		`SELECT COALESCE(AVG(confidence), 0) FROM relationships`).Scan(&stats.AvgConfidence)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
