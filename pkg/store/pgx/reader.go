package pgx

import (
	"context"
	"fmt"
	"strings"

	"github.com/signalgraph/ontology/pkg/ontology"
	"github.com/signalgraph/ontology/pkg/query"
)

var _ query.GraphReader = (*GraphDBStorage)(nil)

// Outgoing returns the filtered edges leaving an entity. The query shape
// matches the composite (status, predicate) index.
func (s *GraphDBStorage) Outgoing(ctx context.Context, id string, f query.EdgeFilter) ([]ontology.Relationship, error) {
	return s.adjacency(ctx, "subject_id", []string{id}, f)
}

// Incoming returns the filtered edges arriving at an entity.
func (s *GraphDBStorage) Incoming(ctx context.Context, id string, f query.EdgeFilter) ([]ontology.Relationship, error) {
	return s.adjacency(ctx, "object_id", []string{id}, f)
}

// adjacency fetches edges for a whole frontier of entity ids in one query.
// The ego-network expansion relies on this to stay at two queries per round
// instead of two per node.
func (s *GraphDBStorage) adjacency(
	ctx context.Context,
	endpointColumn string,
	ids []string,
	f query.EdgeFilter,
) ([]ontology.Relationship, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args := adjacencyQuery(endpointColumn, ids, f)

	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ontology.Relationship, 0)
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func adjacencyQuery(endpointColumn string, ids []string, f query.EdgeFilter) (string, []any) {
	args := []any{ids}
	where := []string{fmt.Sprintf("%s = ANY($1)", endpointColumn)}

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(f.Predicates) > 0 {
		predicates := make([]string, len(f.Predicates))
		for i, p := range f.Predicates {
			predicates[i] = string(p)
		}
		args = append(args, predicates)
		where = append(where, fmt.Sprintf("predicate = ANY($%d)", len(args)))
	}
	if f.MinConfidence > 0 {
		args = append(args, f.MinConfidence)
		where = append(where, fmt.Sprintf("confidence >= $%d", len(args)))
	}
	if f.ObservedOnly {
		args = append(args, ontology.AssertionObserved)
		where = append(where, fmt.Sprintf("assertion_type = $%d", len(args)))
	}

	return `SELECT ` + relationshipColumns + ` FROM relationships WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY confidence DESC, created_at`, args
}
