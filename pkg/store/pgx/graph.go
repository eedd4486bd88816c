package pgx

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/signalgraph/ontology/pkg/logger"
	"github.com/signalgraph/ontology/pkg/ontology"
	"github.com/signalgraph/ontology/pkg/query"
	"github.com/signalgraph/ontology/pkg/store"
)

const (
	defaultGraphDepth      = 1
	maxGraphDepth          = 5
	defaultReasoningDepth  = 10
	defaultSimilarEntities = 10
)

// GetEntityGraph extracts the ego network around an entity. Each round
// issues one batched outgoing and one batched incoming query for the whole
// frontier (run in parallel), so the query cost is O(depth), not O(nodes).
// Edges are deduplicated by id across rounds.
func (s *GraphDBStorage) GetEntityGraph(
	ctx context.Context,
	entityID string,
	depth int,
	predicates []ontology.Predicate,
) (*store.EntityGraph, error) {
	if depth <= 0 {
		depth = defaultGraphDepth
	}
	if depth > maxGraphDepth {
		depth = maxGraphDepth
	}

	center, err := s.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, nil
	}

	filter := query.EdgeFilter{Predicates: predicates}

	graph := &store.EntityGraph{Center: *center}
	seenNodes := map[string]struct{}{entityID: {}}
	seenEdges := map[string]struct{}{}
	frontier := []string{entityID}

	for round := 0; round < depth && len(frontier) > 0; round++ {
		var outgoing, incoming []ontology.Relationship

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			outgoing, err = s.adjacency(gCtx, "subject_id", frontier, filter)
			return err
		})
		g.Go(func() error {
			var err error
			incoming, err = s.adjacency(gCtx, "object_id", frontier, filter)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		discovered := make([]string, 0)
		for _, edge := range append(outgoing, incoming...) {
			if _, ok := seenEdges[edge.ID]; ok {
				continue
			}
			seenEdges[edge.ID] = struct{}{}
			graph.Edges = append(graph.Edges, edge)

			for _, nodeID := range []string{edge.SubjectID, edge.ObjectID} {
				if _, ok := seenNodes[nodeID]; ok {
					continue
				}
				seenNodes[nodeID] = struct{}{}
				discovered = append(discovered, nodeID)
			}
		}

		if len(discovered) > 0 {
			nodes, err := s.getEntitiesByIDs(ctx, discovered)
			if err != nil {
				return nil, err
			}
			graph.Nodes = append(graph.Nodes, nodes...)
		}
		frontier = discovered
	}

	logger.Debug("[Store][GetEntityGraph] Ego network extracted",
		"center", entityID, "depth", depth, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return graph, nil
}

func (s *GraphDBStorage) getEntitiesByIDs(ctx context.Context, ids []string) ([]ontology.Entity, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ontology.Entity, 0, len(ids))
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// FindPath is the raw, unfiltered breadth-first search used by internal
// graph algorithms. Unlike the query engine's safety-moded search it ignores
// status, confidence and assertion filtering; it shares the same traversal
// core through the engine's raw preset.
func (s *GraphDBStorage) FindPath(ctx context.Context, sourceID, targetID string, maxDepth int) ([]ontology.Relationship, error) {
	return query.New(s).FindRawPath(ctx, sourceID, targetID, maxDepth)
}

// GetSimilarEntities returns the neighbors connected through the symmetric
// similar_to predicate, both directions resolved in one query, deduplicated
// by neighbor and ordered by descending edge weight.
func (s *GraphDBStorage) GetSimilarEntities(ctx context.Context, entityID string, limit int) ([]store.SimilarEntity, error) {
	if limit <= 0 {
		limit = defaultSimilarEntities
	}

	rows, err := s.conn.Query(ctx, `
		SELECT e.id, e.type, e.name, e.description, e.confidence, e.properties,
			e.external_ref_id, e.published_at, e.observed_at, e.ingested_at,
			e.last_synced_at, e.sync_status, e.created_at, e.updated_at, e.created_by,
			r.weight
		FROM relationships r
		JOIN entities e ON e.id = CASE
			WHEN r.subject_id = $1 THEN r.object_id
			ELSE r.subject_id
		END
		WHERE r.predicate = $2 AND (r.subject_id = $1 OR r.object_id = $1)
		ORDER BY r.weight DESC`,
		entityID, ontology.PredSimilarTo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.SimilarEntity, 0, limit)
	seen := map[string]struct{}{}
	for rows.Next() {
		var e ontology.Entity
		var weight float64
		err := rows.Scan(
			&e.ID, &e.Type, &e.Name, &e.Description, &e.Confidence, &e.Properties,
			&e.ExternalRefID, &e.PublishedAt, &e.ObservedAt, &e.IngestedAt,
			&e.LastSyncedAt, &e.SyncStatus, &e.CreatedAt, &e.UpdatedAt, &e.CreatedBy,
			&weight,
		)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, store.SimilarEntity{Entity: e, Weight: weight})
		if len(out) >= limit {
			break
		}
	}
	return out, rows.Err()
}

// GetReasoningPath walks backward from a conclusion through the inference
// chain, one step at a time. Each step prefers the current progresses_to
// predicate and falls back to the legacy leads_to so graphs written before
// the migration stay explainable; only progresses_to is written going
// forward. The walk takes the highest-confidence match at each step and
// stops on a cycle or after maxDepth hops.
func (s *GraphDBStorage) GetReasoningPath(ctx context.Context, conclusionID string, maxDepth int) ([]ontology.Relationship, error) {
	if maxDepth <= 0 {
		maxDepth = defaultReasoningDepth
	}

	path := make([]ontology.Relationship, 0)
	visited := map[string]struct{}{conclusionID: {}}
	current := conclusionID

	for hop := 0; hop < maxDepth; hop++ {
		edge, err := s.reasoningStep(ctx, current)
		if err != nil {
			return nil, err
		}
		if edge == nil {
			break
		}
		if _, ok := visited[edge.SubjectID]; ok {
			break
		}
		visited[edge.SubjectID] = struct{}{}
		path = append(path, *edge)
		current = edge.SubjectID
	}

	return path, nil
}

func (s *GraphDBStorage) reasoningStep(ctx context.Context, objectID string) (*ontology.Relationship, error) {
	for _, p := range []ontology.Predicate{ontology.PredProgressesTo, ontology.PredLeadsTo} {
		edges, err := s.QueryRelationships(ctx, store.RelationshipFilter{
			ObjectID:  objectID,
			Predicate: p,
			Limit:     1,
		})
		if err != nil {
			return nil, err
		}
		if len(edges) > 0 {
			return &edges[0], nil
		}
	}
	return nil, nil
}
