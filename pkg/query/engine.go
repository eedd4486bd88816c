// Package query answers constrained traversal questions over the persisted
// knowledge graph: confidence-weighted path search, neighborhood lookups and
// evidence chains. It reads the graph through the narrow GraphReader
// interface so that it can run against the pgx store in production and an
// in-memory fake in tests.
package query

import (
	"context"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// EdgeFilter restricts which relationships a traversal may follow. An empty
// Statuses or Predicates slice means no restriction on that axis.
type EdgeFilter struct {
	Statuses      []ontology.Status
	Predicates    []ontology.Predicate
	MinConfidence float64
	ObservedOnly  bool
}

// Admits reports whether a relationship passes the filter. The store pushes
// the same conditions into SQL; this in-process check is what the tests and
// the in-memory reader rely on.
func (f EdgeFilter) Admits(r ontology.Relationship) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, r.Status) {
		return false
	}
	if len(f.Predicates) > 0 && !containsPredicate(f.Predicates, r.Predicate) {
		return false
	}
	if r.Confidence < f.MinConfidence {
		return false
	}
	if f.ObservedOnly && r.AssertionType != ontology.AssertionObserved {
		return false
	}
	return true
}

// GraphReader is the storage surface the engine needs. The pgx repository
// implements it with indexed queries; tests implement it over maps.
type GraphReader interface {
	GetEntity(ctx context.Context, id string) (*ontology.Entity, error)
	Outgoing(ctx context.Context, id string, f EdgeFilter) ([]ontology.Relationship, error)
	Incoming(ctx context.Context, id string, f EdgeFilter) ([]ontology.Relationship, error)
}

// Engine performs read-only traversal queries. It holds no state beyond the
// reader, so a single instance is safe for concurrent use.
type Engine struct {
	reader GraphReader
}

// New creates a query engine over the given graph reader.
func New(reader GraphReader) *Engine {
	return &Engine{reader: reader}
}

func containsStatus(set []ontology.Status, s ontology.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPredicate(set []ontology.Predicate, p ontology.Predicate) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}
