// Package store defines the repository abstraction the ontology engine
// persists through, together with its filter types and error taxonomy. The
// pgx subpackage provides the PostgreSQL implementation.
package store

import (
	"context"
	"time"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// EntityFilter narrows ListEntities. Zero values mean "no restriction".
type EntityFilter struct {
	Type ontology.EntityType `json:"type,omitempty"`

	// Search matches case-insensitively against the entity name.
	Search string `json:"search,omitempty"`

	// ExternalRefID looks up entities linked to a specific business record.
	ExternalRefID string `json:"external_ref_id,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// EntityPage is one page of a ListEntities result.
type EntityPage struct {
	Entities []ontology.Entity `json:"entities"`
	Total    int64             `json:"total"`
}

// EntityUpdate is a partial-field update. Nil fields are left untouched;
// Type is immutable after creation and therefore absent here.
type EntityUpdate struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Confidence  *float64           `json:"confidence,omitempty"`
	Properties  *map[string]string `json:"properties,omitempty"`

	SyncStatus   *ontology.SyncStatus `json:"sync_status,omitempty"`
	LastSyncedAt *time.Time           `json:"last_synced_at,omitempty"`
}

// RelationshipFilter is an SPO pattern query with optional status, predicate
// and confidence restrictions.
type RelationshipFilter struct {
	SubjectID     string             `json:"subject_id,omitempty"`
	Predicate     ontology.Predicate `json:"predicate,omitempty"`
	ObjectID      string             `json:"object_id,omitempty"`
	Status        ontology.Status    `json:"status,omitempty"`
	MinConfidence float64            `json:"min_confidence,omitempty"`
	Limit         int                `json:"limit,omitempty"`
}

// EntityGraph is the ego network around a center entity: every node and
// deduplicated edge reachable within the requested number of hops.
type EntityGraph struct {
	Center ontology.Entity         `json:"center"`
	Nodes  []ontology.Entity       `json:"nodes"`
	Edges  []ontology.Relationship `json:"edges"`
}

// SimilarEntity is a neighbor over the symmetric similar_to predicate,
// ranked by edge weight.
type SimilarEntity struct {
	Entity ontology.Entity `json:"entity"`
	Weight float64         `json:"weight"`
}

// Stats summarizes the persisted graph.
type Stats struct {
	EntityCounts       map[ontology.EntityType]int64 `json:"entity_counts"`
	RelationshipCounts map[ontology.Predicate]int64  `json:"relationship_counts"`
	TotalEntities      int64                         `json:"total_entities"`
	TotalRelationships int64                         `json:"total_relationships"`
	AvgConfidence      float64                       `json:"avg_confidence"`
}

// Repository is the persistence surface of the ontology engine. Reads
// return (nil, nil) when the record does not exist so callers can tell
// absence apart from a transport failure. Every method is a single logical
// transaction and safe for concurrent callers; the unique triple constraint
// is enforced by the store, not by engine-side locking.
type Repository interface {
	CreateEntity(ctx context.Context, e *ontology.Entity) (*ontology.Entity, error)
	GetEntity(ctx context.Context, id string) (*ontology.Entity, error)
	ListEntities(ctx context.Context, f EntityFilter) (*EntityPage, error)
	UpdateEntity(ctx context.Context, id string, u EntityUpdate) (*ontology.Entity, error)
	DeleteEntity(ctx context.Context, id string) (bool, error)

	CreateRelationship(ctx context.Context, r *ontology.Relationship) (*ontology.Relationship, error)
	GetRelationship(ctx context.Context, id string) (*ontology.Relationship, error)
	QueryRelationships(ctx context.Context, f RelationshipFilter) ([]ontology.Relationship, error)
	DeleteRelationship(ctx context.Context, id string) (bool, error)

	GetEntityGraph(ctx context.Context, entityID string, depth int, predicates []ontology.Predicate) (*EntityGraph, error)
	FindPath(ctx context.Context, sourceID, targetID string, maxDepth int) ([]ontology.Relationship, error)
	GetSimilarEntities(ctx context.Context, entityID string, limit int) ([]SimilarEntity, error)
	GetReasoningPath(ctx context.Context, conclusionID string, maxDepth int) ([]ontology.Relationship, error)
	GetStats(ctx context.Context) (*Stats, error)

	MarkStaleSources(ctx context.Context, threshold time.Duration) (int64, error)
}
