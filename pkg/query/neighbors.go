package query

import (
	"context"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// Direction selects which adjacency of an entity to inspect.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// Neighbor pairs an adjacent entity with the edge connecting it and the
// direction that edge was found in.
type Neighbor struct {
	Entity       ontology.Entity       `json:"entity"`
	Relationship ontology.Relationship `json:"relationship"`
	Direction    Direction             `json:"direction"`
}

// GetNeighbors returns the single-hop adjacency of an entity under the same
// status, predicate and confidence filters path search uses. A missing
// entity yields an empty slice.
func (e *Engine) GetNeighbors(ctx context.Context, entityID string, opts PathOptions, dir Direction) ([]Neighbor, error) {
	opts = opts.withDefaults()
	filter := opts.edgeFilter()

	center, err := e.reader.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, nil
	}

	var out []Neighbor

	if dir == DirectionOutgoing || dir == DirectionBoth {
		edges, err := e.reader.Outgoing(ctx, entityID, filter)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			n, err := e.neighborFor(ctx, edge, edge.ObjectID, DirectionOutgoing, opts)
			if err != nil {
				return nil, err
			}
			if n != nil {
				out = append(out, *n)
			}
		}
	}

	if dir == DirectionIncoming || dir == DirectionBoth {
		edges, err := e.reader.Incoming(ctx, entityID, filter)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			n, err := e.neighborFor(ctx, edge, edge.SubjectID, DirectionIncoming, opts)
			if err != nil {
				return nil, err
			}
			if n != nil {
				out = append(out, *n)
			}
		}
	}

	return out, nil
}

func (e *Engine) neighborFor(
	ctx context.Context,
	edge ontology.Relationship,
	neighborID string,
	dir Direction,
	opts PathOptions,
) (*Neighbor, error) {
	ent, err := e.reader.GetEntity(ctx, neighborID)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, nil
	}
	if opts.MinFreshness > 0 && ent.FreshnessScore(opts.AsOf) < opts.MinFreshness {
		return nil, nil
	}
	return &Neighbor{Entity: *ent, Relationship: edge, Direction: dir}, nil
}
