package query

import (
	"context"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// DefaultEvidenceChainDepth bounds how far down the evidence chain the
// auditing walk goes: claim, evidence, source is three levels.
const DefaultEvidenceChainDepth = 3

// EvidenceLink is one hop in an evidence chain: the entity reached, the
// verified edge that reached it and how many hops it sits below the claim.
type EvidenceLink struct {
	Entity       ontology.Entity       `json:"entity"`
	Relationship ontology.Relationship `json:"relationship"`
	Depth        int                   `json:"depth"`
}

// FindEvidenceChain walks outward from a claim over the two evidence-linking
// predicates only (supported_by, sourced_from), following verified edges
// level by level. The result explains what a claim rests on, ordered from
// the claim's direct evidence down to its sources. This walk exists for
// auditability; connectivity questions belong to FindPath.
func (e *Engine) FindEvidenceChain(ctx context.Context, entityID string, maxDepth int) ([]EvidenceLink, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultEvidenceChainDepth
	}

	root, err := e.reader.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}

	filter := EdgeFilter{
		Statuses:   []ontology.Status{ontology.StatusVerified},
		Predicates: []ontology.Predicate{ontology.PredSupportedBy, ontology.PredSourcedFrom},
	}

	var chain []EvidenceLink
	seen := map[string]struct{}{entityID: {}}
	frontier := []string{entityID}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			edges, err := e.reader.Outgoing(ctx, id, filter)
			if err != nil {
				return nil, err
			}
			for _, edge := range edges {
				if _, ok := seen[edge.ObjectID]; ok {
					continue
				}
				ent, err := e.reader.GetEntity(ctx, edge.ObjectID)
				if err != nil {
					return nil, err
				}
				if ent == nil {
					continue
				}
				seen[edge.ObjectID] = struct{}{}
				chain = append(chain, EvidenceLink{
					Entity:       *ent,
					Relationship: edge,
					Depth:        depth,
				})
				next = append(next, edge.ObjectID)
			}
		}
		frontier = next
	}

	return chain, nil
}
