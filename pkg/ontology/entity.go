package ontology

import (
	"time"
)

// EntityType is the closed set of node kinds the graph accepts.
// Customer and Competitor are legacy variants kept so that graphs written
// before the organization remodel can still be read.
type EntityType string

const (
	TypeActivity      EntityType = "Activity"
	TypeSignal        EntityType = "Signal"
	TypeTopic         EntityType = "Topic"
	TypeScorecard     EntityType = "Scorecard"
	TypeBrief         EntityType = "Brief"
	TypeValidation    EntityType = "Validation"
	TypePilot         EntityType = "Pilot"
	TypeOrganization  EntityType = "Organization"
	TypePerson        EntityType = "Person"
	TypeTeam          EntityType = "Team"
	TypeTechnology    EntityType = "Technology"
	TypeIndustry      EntityType = "Industry"
	TypeMarketSegment EntityType = "MarketSegment"
	TypeTrend         EntityType = "Trend"
	TypeEvidence      EntityType = "Evidence"
	TypeSource        EntityType = "Source"
	TypeReasoningStep EntityType = "ReasoningStep"
	TypeDecision      EntityType = "Decision"
	TypePlay          EntityType = "Play"
	TypeMeeting       EntityType = "Meeting"
	TypeTask          EntityType = "Task"
	TypeMilestone     EntityType = "Milestone"

	// Deprecated: model organizations as TypeOrganization with a
	// competes_with / works_at relationship instead.
	TypeCustomer EntityType = "Customer"
	// Deprecated: see TypeCustomer.
	TypeCompetitor EntityType = "Competitor"
)

var entityTypes = map[EntityType]struct{}{
	TypeActivity: {}, TypeSignal: {}, TypeTopic: {}, TypeScorecard: {},
	TypeBrief: {}, TypeValidation: {}, TypePilot: {}, TypeOrganization: {},
	TypePerson: {}, TypeTeam: {}, TypeTechnology: {}, TypeIndustry: {},
	TypeMarketSegment: {}, TypeTrend: {}, TypeEvidence: {}, TypeSource: {},
	TypeReasoningStep: {}, TypeDecision: {}, TypePlay: {}, TypeMeeting: {},
	TypeTask: {}, TypeMilestone: {}, TypeCustomer: {}, TypeCompetitor: {},
}

// Valid reports whether t is one of the known entity types, including the
// deprecated legacy variants.
func (t EntityType) Valid() bool {
	_, ok := entityTypes[t]
	return ok
}

// SyncStatus describes the health of a Source entity's last synchronization.
type SyncStatus string

const (
	SyncOK    SyncStatus = "ok"
	SyncStale SyncStatus = "stale"
	SyncError SyncStatus = "error"
)

// Entity represents a node in the knowledge graph: a business signal, an
// organization, a piece of evidence, or any other concept the ontology knows
// about. All fields beyond ID, Type and Name are optional.
type Entity struct {
	ID          string            `json:"id"`
	Type        EntityType        `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Confidence  float64           `json:"confidence"`
	Properties  map[string]string `json:"properties,omitempty"`

	// ExternalRefID links back to the originating business record,
	// e.g. the row id of the Signal this node was extracted from.
	ExternalRefID string `json:"external_ref_id,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	ObservedAt  *time.Time `json:"observed_at,omitempty"`
	IngestedAt  *time.Time `json:"ingested_at,omitempty"`

	// Sync fields are only meaningful for Source entities.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	SyncStatus   SyncStatus `json:"sync_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// Freshness decay breakpoints, in days.
const (
	freshFullDays  = 30
	freshHalfDays  = 90
	freshFloorDays = 180
)

// FreshnessScore returns a decayed recency score in [0.1, 1.0] as of the
// given time. The most specific available timestamp wins: published over
// observed over ingested over created. Scores decay from 1.0 (30 days or
// younger) through 0.5 (90 days) to 0.25 (180 days), then follow a floor
// curve that never drops below 0.1.
func (e *Entity) FreshnessScore(asOf time.Time) float64 {
	ts := e.CreatedAt
	switch {
	case e.PublishedAt != nil:
		ts = *e.PublishedAt
	case e.ObservedAt != nil:
		ts = *e.ObservedAt
	case e.IngestedAt != nil:
		ts = *e.IngestedAt
	}

	age := asOf.Sub(ts).Hours() / 24
	if age < 0 {
		age = 0
	}

	switch {
	case age <= freshFullDays:
		return 1.0
	case age <= freshHalfDays:
		return 1.0 - 0.5*(age-freshFullDays)/(freshHalfDays-freshFullDays)
	case age <= freshFloorDays:
		return 0.5 - 0.25*(age-freshHalfDays)/(freshFloorDays-freshHalfDays)
	default:
		return max(0.1, 0.25*(365-age)/185)
	}
}

// IsStale reports whether a Source entity needs resynchronization. Entities
// of any other type are never stale. A Source with no sync timestamp at all
// counts as stale.
func (e *Entity) IsStale(thresholdDays int, asOf time.Time) bool {
	if e.Type != TypeSource {
		return false
	}
	if e.SyncStatus == SyncStale {
		return true
	}
	if e.LastSyncedAt == nil {
		return true
	}
	return asOf.Sub(*e.LastSyncedAt) > time.Duration(thresholdDays)*24*time.Hour
}
