package query

import (
	"context"
	"sort"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// PathStep records one node on a discovered path together with the edge
// that was traversed to reach it. The first step of a path has no edge
// fields set.
type PathStep struct {
	EntityID   string              `json:"entity_id"`
	EntityType ontology.EntityType `json:"entity_type"`
	EntityName string              `json:"entity_name"`

	Predicate      ontology.Predicate `json:"predicate,omitempty"`
	RelationshipID string             `json:"relationship_id,omitempty"`
	Confidence     float64            `json:"confidence,omitempty"`
	Inferred       bool               `json:"inferred,omitempty"`
}

// PathResult is one completed path from source to target. Edges carries the
// traversed relationships in order for internal consumers; the wire shape is
// the steps.
type PathResult struct {
	Steps       []PathStep `json:"steps"`
	Confidence  float64    `json:"confidence"`
	Hops        int        `json:"hops"`
	Inferred    bool       `json:"inferred"`
	Explanation string     `json:"explanation"`

	Edges []ontology.Relationship `json:"-"`
}

// traversal parameterizes the shared BFS core. The safety-moded search and
// the repository's raw search are both presets over it: they differ only in
// their edge filter, weight function and pruning.
type traversal struct {
	filter     EdgeFilter
	weight     func(r ontology.Relationship) float64
	floor      float64
	maxHops    int
	maxResults int
	admitNode  func(e *ontology.Entity) bool
}

type queueEntry struct {
	nodeID     string
	steps      []PathStep
	edges      []ontology.Relationship
	confidence float64
}

// FindPath searches for paths from source to target under the given options.
// It is a breadth-first search over filtered edges where each branch carries
// the product of its edge confidences (inferred edges take a multiplicative
// penalty). Intermediate nodes are marked visited on first discovery, so at
// most one path per intermediate node is found; that trades completeness for
// tractability. The target is exempt, so every surviving branch that reaches
// it yields its own result, up to MaxResults. An unreachable target yields
// an empty slice, never an error.
func (e *Engine) FindPath(ctx context.Context, source, target string, opts PathOptions) ([]PathResult, error) {
	opts = opts.withDefaults()

	plan := traversal{
		filter: opts.edgeFilter(),
		weight: func(r ontology.Relationship) float64 {
			w := r.Confidence
			if r.AssertionType == ontology.AssertionInferred {
				w *= opts.InferredWeightPenalty
			}
			return w
		},
		floor:      pathConfidenceFloor,
		maxHops:    opts.MaxHops,
		maxResults: opts.MaxResults,
	}
	if opts.MinFreshness > 0 {
		plan.admitNode = func(ent *ontology.Entity) bool {
			return ent.FreshnessScore(opts.AsOf) >= opts.MinFreshness
		}
	}

	results, err := e.traverse(ctx, source, target, plan)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results, nil
}

// FindRawPath is the unweighted internal search used by repository-level
// graph algorithms. It ignores status, confidence and assertion filtering
// and returns the edge sequence of the first path found, or nil when none
// exists within maxDepth hops.
func (e *Engine) FindRawPath(ctx context.Context, source, target string, maxDepth int) ([]ontology.Relationship, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxHops
	}

	results, err := e.traverse(ctx, source, target, traversal{
		filter:     EdgeFilter{},
		weight:     func(ontology.Relationship) float64 { return 1 },
		maxHops:    maxDepth,
		maxResults: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].Edges, nil
}

func (e *Engine) traverse(ctx context.Context, source, target string, plan traversal) ([]PathResult, error) {
	src, err := e.reader.GetEntity(ctx, source)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil
	}

	visited := map[string]struct{}{source: {}}
	queue := []queueEntry{{
		nodeID:     source,
		confidence: 1.0,
		steps: []PathStep{{
			EntityID:   src.ID,
			EntityType: src.Type,
			EntityName: src.Name,
		}},
	}}

	var results []PathResult

	for len(queue) > 0 && len(results) < plan.maxResults {
		entry := queue[0]
		queue = queue[1:]

		if len(entry.steps) > plan.maxHops+1 {
			continue
		}

		if entry.nodeID == target {
			results = append(results, completedResult(entry))
			continue
		}

		edges, err := e.reader.Outgoing(ctx, entry.nodeID, plan.filter)
		if err != nil {
			return nil, err
		}

		for _, edge := range edges {
			// The target never enters the visited set: each branch that
			// reaches it is a distinct result.
			toTarget := edge.ObjectID == target
			if !toTarget {
				if _, seen := visited[edge.ObjectID]; seen {
					continue
				}
			}

			conf := entry.confidence * plan.weight(edge)
			if plan.floor > 0 && conf < plan.floor {
				continue
			}

			neighbor, err := e.reader.GetEntity(ctx, edge.ObjectID)
			if err != nil {
				return nil, err
			}
			if neighbor == nil {
				continue
			}
			if plan.admitNode != nil && neighbor.ID != target && !plan.admitNode(neighbor) {
				continue
			}

			steps := make([]PathStep, len(entry.steps), len(entry.steps)+1)
			copy(steps, entry.steps)
			steps = append(steps, PathStep{
				EntityID:       neighbor.ID,
				EntityType:     neighbor.Type,
				EntityName:     neighbor.Name,
				Predicate:      edge.Predicate,
				RelationshipID: edge.ID,
				Confidence:     edge.Confidence,
				Inferred:       edge.AssertionType == ontology.AssertionInferred,
			})

			edgeSeq := make([]ontology.Relationship, len(entry.edges), len(entry.edges)+1)
			copy(edgeSeq, entry.edges)
			edgeSeq = append(edgeSeq, edge)

			if !toTarget {
				visited[edge.ObjectID] = struct{}{}
			}
			queue = append(queue, queueEntry{
				nodeID:     edge.ObjectID,
				steps:      steps,
				edges:      edgeSeq,
				confidence: conf,
			})
		}
	}

	return results, nil
}

func completedResult(entry queueEntry) PathResult {
	inferred := false
	for _, s := range entry.steps {
		if s.Inferred {
			inferred = true
			break
		}
	}
	return PathResult{
		Steps:       entry.steps,
		Confidence:  entry.confidence,
		Hops:        len(entry.steps) - 1,
		Inferred:    inferred,
		Explanation: ExplainPath(entry.steps),
		Edges:       entry.edges,
	}
}
