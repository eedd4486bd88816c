package query

import (
	"time"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// Mode selects how conservative a traversal is about edge trust. Safe mode
// is the default for agent-facing queries: verified edges only, observed
// assertions only.
type Mode string

const (
	ModeSafe   Mode = "safe"
	ModeNormal Mode = "normal"
	ModeFull   Mode = "full"
)

func (m Mode) includeProposed() bool {
	return m == ModeFull
}

func (m Mode) includeInferred() bool {
	return m == ModeNormal || m == ModeFull
}

// Default search bounds. They bound cost, not wall-clock time; cancellation
// is the caller's job via ctx.
const (
	DefaultMaxHops               = 5
	DefaultMaxResults            = 10
	DefaultMinConfidence         = 0.5
	DefaultInferredWeightPenalty = 0.5

	// Branches whose accumulated confidence falls below this floor are
	// abandoned, which keeps low-confidence chains from exploding the
	// frontier.
	pathConfidenceFloor = 0.1
)

// PathOptions configures FindPath and GetNeighbors. The zero value is usable:
// it means safe mode with the default bounds.
type PathOptions struct {
	Mode Mode `json:"mode,omitempty"`

	MaxHops               int     `json:"max_hops,omitempty"`
	MaxResults            int     `json:"max_results,omitempty"`
	MinConfidence         float64 `json:"min_confidence,omitempty"`
	InferredWeightPenalty float64 `json:"inferred_weight_penalty,omitempty"`

	// Predicate overrides. When AllowedPredicates is empty the path-safe
	// set from the constraint table applies; ExcludedPredicates is always
	// subtracted afterwards.
	AllowedPredicates  []ontology.Predicate `json:"allowed_predicates,omitempty"`
	ExcludedPredicates []ontology.Predicate `json:"excluded_predicates,omitempty"`

	IncludeDeprecated bool `json:"include_deprecated,omitempty"`

	// Recency filtering. When MinFreshness > 0, nodes whose freshness
	// score as of AsOf falls below it are pruned during traversal.
	AsOf         time.Time `json:"as_of,omitempty"`
	MinFreshness float64   `json:"min_freshness,omitempty"`
}

func (o PathOptions) withDefaults() PathOptions {
	if o.Mode == "" {
		o.Mode = ModeSafe
	}
	if o.MaxHops <= 0 {
		o.MaxHops = DefaultMaxHops
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	if o.InferredWeightPenalty <= 0 {
		o.InferredWeightPenalty = DefaultInferredWeightPenalty
	}
	if o.AsOf.IsZero() {
		o.AsOf = time.Now()
	}
	return o
}

// statuses expands the mode and deprecation flags into the set of edge
// statuses the traversal may follow.
func (o PathOptions) statuses() []ontology.Status {
	out := []ontology.Status{ontology.StatusVerified}
	if o.Mode.includeProposed() {
		out = append(out, ontology.StatusProposed)
	}
	if o.IncludeDeprecated {
		out = append(out, ontology.StatusDeprecated)
	}
	return out
}

// predicates resolves the allowed predicate set: explicit overrides when
// given, the path-safe table otherwise, minus any explicit exclusions.
func (o PathOptions) predicates() []ontology.Predicate {
	allowed := o.AllowedPredicates
	if len(allowed) == 0 {
		allowed = ontology.PathSafePredicates()
	}
	if len(o.ExcludedPredicates) == 0 {
		return allowed
	}
	excluded := make(map[ontology.Predicate]struct{}, len(o.ExcludedPredicates))
	for _, p := range o.ExcludedPredicates {
		excluded[p] = struct{}{}
	}
	out := make([]ontology.Predicate, 0, len(allowed))
	for _, p := range allowed {
		if _, skip := excluded[p]; !skip {
			out = append(out, p)
		}
	}
	return out
}

func (o PathOptions) edgeFilter() EdgeFilter {
	return EdgeFilter{
		Statuses:      o.statuses(),
		Predicates:    o.predicates(),
		MinConfidence: o.MinConfidence,
		ObservedOnly:  !o.Mode.includeInferred(),
	}
}
