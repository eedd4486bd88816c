package ontology

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	entitySuffixLen       = 8
	relationshipSuffixLen = 12

	relationshipIDPrefix = "REL"

	// Fallback prefix for entity types without a dedicated code.
	genericEntityPrefix = "ENT"
)

var entityPrefixes = map[EntityType]string{
	TypeActivity:      "ACT",
	TypeSignal:        "SIG",
	TypeTopic:         "TOP",
	TypeScorecard:     "SCO",
	TypeBrief:         "BRF",
	TypeValidation:    "VAL",
	TypePilot:         "PIL",
	TypeOrganization:  "ORG",
	TypePerson:        "PER",
	TypeTeam:          "TEA",
	TypeTechnology:    "TEC",
	TypeIndustry:      "IND",
	TypeMarketSegment: "MKT",
	TypeTrend:         "TRD",
	TypeEvidence:      "EVD",
	TypeSource:        "SRC",
	TypeReasoningStep: "RSN",
	TypeDecision:      "DEC",
	TypePlay:          "PLY",
	TypeMeeting:       "MTG",
	TypeTask:          "TSK",
	TypeMilestone:     "MIL",
}

// Prefix returns the fixed 3-letter ID prefix for the type. Legacy types
// without a dedicated code share the generic ENT prefix.
func (t EntityType) Prefix() string {
	if p, ok := entityPrefixes[t]; ok {
		return p
	}
	return genericEntityPrefix
}

// NewEntityID generates an entity id of the form PFX-xxxxxxxx. Collisions
// are treated as negligible at this suffix width; the primary key constraint
// would surface one as a storage error.
func NewEntityID(t EntityType) string {
	return t.Prefix() + "-" + gonanoid.Must(entitySuffixLen)
}

// NewRelationshipID generates a relationship id of the form REL-xxxxxxxxxxxx.
func NewRelationshipID() string {
	return relationshipIDPrefix + "-" + gonanoid.Must(relationshipSuffixLen)
}
