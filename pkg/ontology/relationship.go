package ontology

import (
	"time"
)

// Predicate is the closed set of relationship kinds. The groups mirror how
// the business pipeline talks about the graph: pipeline-flow, topic,
// organization, person, evidence and operational relations. Six legacy
// predicates remain readable for old graphs but are rejected for new writes
// by their constraint records.
type Predicate string

const (
	// Pipeline-flow relations.
	PredProgressesTo Predicate = "progresses_to"
	PredDerivedFrom  Predicate = "derived_from"
	PredTriggeredBy  Predicate = "triggered_by"
	PredResultsIn    Predicate = "results_in"
	PredValidatedBy  Predicate = "validated_by"
	PredPilotedIn    Predicate = "piloted_in"

	// Topic relations.
	PredAboutTopic       Predicate = "about_topic"
	PredBelongsToSegment Predicate = "belongs_to_segment"
	PredPartOfTrend      Predicate = "part_of_trend"
	PredRelatedTo        Predicate = "related_to"
	PredSimilarTo        Predicate = "similar_to"

	// Organization relations.
	PredCompetesWith   Predicate = "competes_with"
	PredPartnersWith   Predicate = "partners_with"
	PredSupplies       Predicate = "supplies"
	PredOperatesIn     Predicate = "operates_in"
	PredUsesTechnology Predicate = "uses_technology"
	PredMentionedIn    Predicate = "mentioned_in"

	// Person and team relations.
	PredWorksAt  Predicate = "works_at"
	PredMemberOf Predicate = "member_of"
	PredOwns     Predicate = "owns"

	// Evidence relations.
	PredSupportedBy  Predicate = "supported_by"
	PredSourcedFrom  Predicate = "sourced_from"
	PredContradicts  Predicate = "contradicts"
	PredInferredFrom Predicate = "inferred_from"

	// Operational relations.
	PredAssignedTo   Predicate = "assigned_to"
	PredBlocks       Predicate = "blocks"
	PredMeasuredBy   Predicate = "measured_by"
	PredScheduledFor Predicate = "scheduled_for"

	// Deprecated: use PredProgressesTo.
	PredLeadsTo Predicate = "leads_to"
	// Deprecated: use PredWorksAt, PredCompetesWith or PredPartnersWith
	// depending on the role property.
	PredHasRole Predicate = "has_role"
	// Deprecated: use PredMentionedIn.
	PredRelatesToCompany Predicate = "relates_to_company"
	// Deprecated: use PredResultsIn.
	PredImpacts Predicate = "impacts"
	// Deprecated: use PredSupportedBy.
	PredReferences Predicate = "references"
	// Deprecated: use PredMeasuredBy.
	PredTrackedIn Predicate = "tracked_in"
)

// Status is the lifecycle state of a relationship. Proposed is the only
// non-terminal state.
type Status string

const (
	StatusProposed   Status = "proposed"
	StatusVerified   Status = "verified"
	StatusRejected   Status = "rejected"
	StatusDeprecated Status = "deprecated"
)

// AssertionType records how a relationship came to be claimed: read directly
// out of evidence, or produced by a rule or model.
type AssertionType string

const (
	AssertionObserved AssertionType = "observed"
	AssertionInferred AssertionType = "inferred"
)

// EvidenceSpan is a structured citation into a source document.
type EvidenceSpan struct {
	SourceID string `json:"source_id"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Text     string `json:"text,omitempty"`
}

// Relationship is a directed labeled edge (subject, predicate, object).
// The triple is unique per ordered pair: the store enforces that no two
// edges of the same predicate connect the same subject to the same object.
type Relationship struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Predicate Predicate `json:"predicate"`
	ObjectID  string    `json:"object_id"`

	Status        Status        `json:"status"`
	AssertionType AssertionType `json:"assertion_type"`
	Weight        float64       `json:"weight"`
	Confidence    float64       `json:"confidence"`

	// EvidenceIDs lists Evidence entities backing this claim. Observed
	// assertions without evidence pass validation with a warning only.
	EvidenceIDs  []string      `json:"evidence_ids,omitempty"`
	EvidenceSpan *EvidenceSpan `json:"evidence_span,omitempty"`

	// Provenance pointers into the inference chain and extraction run
	// that produced this edge.
	ReasoningPathID string `json:"reasoning_path_id,omitempty"`
	ExtractorRunID  string `json:"extractor_run_id,omitempty"`

	Properties map[string]string `json:"properties,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	CreatedBy  string     `json:"created_by,omitempty"`
	VerifiedBy string     `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// Terminal reports whether the status permits no further automatic
// transitions.
func (s Status) Terminal() bool {
	return s != StatusProposed
}
