package query

import (
	"context"
	"testing"

	"github.com/signalgraph/ontology/pkg/ontology"
)

func neighborhoodFixture() *memReader {
	return &memReader{
		entities: map[string]ontology.Entity{
			"ORG-hub0": node("ORG-hub0", ontology.TypeOrganization, "Hub"),
			"ORG-out0": node("ORG-out0", ontology.TypeOrganization, "Downstream"),
			"PER-in00": node("PER-in00", ontology.TypePerson, "Employee"),
		},
		edges: []ontology.Relationship{
			edge("REL-out", "ORG-hub0", ontology.PredSupplies, "ORG-out0", 0.8),
			edge("REL-in", "PER-in00", ontology.PredWorksAt, "ORG-hub0", 0.9),
		},
	}
}

func TestGetNeighborsDirections(t *testing.T) {
	engine := New(neighborhoodFixture())
	ctx := context.Background()

	tests := []struct {
		name      string
		direction Direction
		wantIDs   []string
	}{
		{"Outgoing", DirectionOutgoing, []string{"ORG-out0"}},
		{"Incoming", DirectionIncoming, []string{"PER-in00"}},
		{"Both", DirectionBoth, []string{"ORG-out0", "PER-in00"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.GetNeighbors(ctx, "ORG-hub0", PathOptions{}, tc.direction)
			if err != nil {
				t.Fatalf("GetNeighbors: %v", err)
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d neighbors, want %d: %+v", len(got), len(tc.wantIDs), got)
			}
			for i, want := range tc.wantIDs {
				if got[i].Entity.ID != want {
					t.Fatalf("neighbor[%d] = %s, want %s", i, got[i].Entity.ID, want)
				}
			}
		})
	}
}

func TestGetNeighborsCarriesEdgeAndDirection(t *testing.T) {
	engine := New(neighborhoodFixture())

	got, err := engine.GetNeighbors(context.Background(), "ORG-hub0", PathOptions{}, DirectionIncoming)
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(got))
	}
	if got[0].Relationship.ID != "REL-in" {
		t.Fatalf("Relationship.ID = %s, want REL-in", got[0].Relationship.ID)
	}
	if got[0].Direction != DirectionIncoming {
		t.Fatalf("Direction = %s, want incoming", got[0].Direction)
	}
}

func TestGetNeighborsAppliesEdgeFilter(t *testing.T) {
	reader := neighborhoodFixture()
	for i := range reader.edges {
		reader.edges[i].Status = ontology.StatusProposed
	}
	engine := New(reader)

	got, err := engine.GetNeighbors(context.Background(), "ORG-hub0", PathOptions{}, DirectionBoth)
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("safe mode must hide proposed edges, got %+v", got)
	}

	got, err = engine.GetNeighbors(context.Background(), "ORG-hub0", PathOptions{Mode: ModeFull}, DirectionBoth)
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("full mode should surface both edges, got %+v", got)
	}
}

func TestGetNeighborsMissingEntity(t *testing.T) {
	engine := New(neighborhoodFixture())

	got, err := engine.GetNeighbors(context.Background(), "ORG-nope", PathOptions{}, DirectionBoth)
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	if got != nil {
		t.Fatalf("missing entity should return nil, got %+v", got)
	}
}

func TestFindEvidenceChain(t *testing.T) {
	reader := &memReader{
		entities: map[string]ontology.Entity{
			"SIG-claim": node("SIG-claim", ontology.TypeSignal, "claim"),
			"EVD-quote": node("EVD-quote", ontology.TypeEvidence, "quote"),
			"SRC-feed0": node("SRC-feed0", ontology.TypeSource, "feed"),
			"TOP-misc0": node("TOP-misc0", ontology.TypeTopic, "misc"),
		},
		edges: []ontology.Relationship{
			edge("REL-1", "SIG-claim", ontology.PredSupportedBy, "EVD-quote", 0.9),
			edge("REL-2", "EVD-quote", ontology.PredSourcedFrom, "SRC-feed0", 0.9),
			// Unrelated topical edge must not appear in the chain.
			edge("REL-3", "SIG-claim", ontology.PredAboutTopic, "TOP-misc0", 0.9),
		},
	}

	chain, err := New(reader).FindEvidenceChain(context.Background(), "SIG-claim", 0)
	if err != nil {
		t.Fatalf("FindEvidenceChain: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("got %d links, want 2: %+v", len(chain), chain)
	}
	if chain[0].Entity.ID != "EVD-quote" || chain[0].Depth != 1 {
		t.Fatalf("first link = %s at depth %d, want EVD-quote at 1", chain[0].Entity.ID, chain[0].Depth)
	}
	if chain[1].Entity.ID != "SRC-feed0" || chain[1].Depth != 2 {
		t.Fatalf("second link = %s at depth %d, want SRC-feed0 at 2", chain[1].Entity.ID, chain[1].Depth)
	}
}

func TestFindEvidenceChainVerifiedOnly(t *testing.T) {
	unverified := edge("REL-1", "SIG-claim", ontology.PredSupportedBy, "EVD-quote", 0.9)
	unverified.Status = ontology.StatusProposed

	reader := &memReader{
		entities: map[string]ontology.Entity{
			"SIG-claim": node("SIG-claim", ontology.TypeSignal, "claim"),
			"EVD-quote": node("EVD-quote", ontology.TypeEvidence, "quote"),
		},
		edges: []ontology.Relationship{unverified},
	}

	chain, err := New(reader).FindEvidenceChain(context.Background(), "SIG-claim", 0)
	if err != nil {
		t.Fatalf("FindEvidenceChain: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("proposed evidence links must be ignored, got %+v", chain)
	}
}

func TestFindEvidenceChainDepthBound(t *testing.T) {
	reader := &memReader{
		entities: map[string]ontology.Entity{
			"SIG-a": node("SIG-a", ontology.TypeSignal, "a"),
			"EVD-b": node("EVD-b", ontology.TypeEvidence, "b"),
			"EVD-c": node("EVD-c", ontology.TypeEvidence, "c"),
			"SRC-d": node("SRC-d", ontology.TypeSource, "d"),
		},
		edges: []ontology.Relationship{
			edge("REL-1", "SIG-a", ontology.PredSupportedBy, "EVD-b", 0.9),
			edge("REL-2", "EVD-b", ontology.PredSupportedBy, "EVD-c", 0.9),
			edge("REL-3", "EVD-c", ontology.PredSourcedFrom, "SRC-d", 0.9),
		},
	}

	chain, err := New(reader).FindEvidenceChain(context.Background(), "SIG-a", 2)
	if err != nil {
		t.Fatalf("FindEvidenceChain: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("depth 2 should stop before the source, got %+v", chain)
	}
}

func TestPathOptionsDefaults(t *testing.T) {
	o := PathOptions{}.withDefaults()

	if o.Mode != ModeSafe {
		t.Fatalf("default Mode = %s, want safe", o.Mode)
	}
	if o.MaxHops != DefaultMaxHops || o.MaxResults != DefaultMaxResults {
		t.Fatalf("default bounds = %d/%d", o.MaxHops, o.MaxResults)
	}
	if o.MinConfidence != DefaultMinConfidence {
		t.Fatalf("default MinConfidence = %v", o.MinConfidence)
	}
	if o.InferredWeightPenalty != DefaultInferredWeightPenalty {
		t.Fatalf("default InferredWeightPenalty = %v", o.InferredWeightPenalty)
	}
	if o.AsOf.IsZero() {
		t.Fatal("withDefaults must pin AsOf")
	}

	f := o.edgeFilter()
	if !f.ObservedOnly {
		t.Fatal("safe mode filter must be observed-only")
	}
	if len(f.Statuses) != 1 || f.Statuses[0] != ontology.StatusVerified {
		t.Fatalf("safe mode statuses = %v, want verified only", f.Statuses)
	}
}
