package ontology

import (
	"sort"
)

// Constraint describes which endpoint types a predicate admits and how much
// trust a candidate edge needs before it can be accepted. The table below is
// immutable process-wide configuration: it is built once and only ever read.
type Constraint struct {
	SubjectTypes map[EntityType]struct{}
	ObjectTypes  map[EntityType]struct{}

	// RequiresEvidence and RequiresSource declare the evidentiary
	// expectations of the predicate. They tune validator findings; they
	// never reject an edge on their own.
	RequiresEvidence bool
	RequiresSource   bool

	MinConfidence float64

	Deprecated        bool
	DeprecatedMessage string

	// ExcludeFromPath marks meta-relations that must never appear inside
	// a traversal path handed to explanation consumers.
	ExcludeFromPath bool
}

func typeSet(types ...EntityType) map[EntityType]struct{} {
	s := make(map[EntityType]struct{}, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

var constraints = map[Predicate]Constraint{
	// Pipeline-flow relations.
	PredProgressesTo: {
		SubjectTypes:     typeSet(TypeSignal, TypeTopic, TypeBrief, TypeValidation, TypePilot, TypeActivity),
		ObjectTypes:      typeSet(TypeSignal, TypeTopic, TypeBrief, TypeValidation, TypePilot, TypeActivity),
		RequiresEvidence: true,
		MinConfidence:    0.6,
	},
	PredDerivedFrom: {
		SubjectTypes: typeSet(TypeBrief, TypeScorecard, TypeTopic, TypeDecision, TypePlay),
		ObjectTypes:  typeSet(TypeSignal, TypeEvidence, TypeTopic, TypeBrief),
	},
	PredTriggeredBy: {
		SubjectTypes: typeSet(TypeActivity, TypeTask, TypeDecision, TypePlay),
		ObjectTypes:  typeSet(TypeSignal, TypeTrend, TypeMeeting, TypeDecision),
	},
	PredResultsIn: {
		SubjectTypes: typeSet(TypeActivity, TypePilot, TypePlay, TypeDecision, TypeValidation),
		ObjectTypes:  typeSet(TypeDecision, TypeMilestone, TypeScorecard, TypeBrief),
	},
	PredValidatedBy: {
		SubjectTypes:  typeSet(TypeTopic, TypeBrief, TypeSignal),
		ObjectTypes:   typeSet(TypeValidation),
		MinConfidence: 0.5,
	},
	PredPilotedIn: {
		SubjectTypes: typeSet(TypeValidation, TypeTopic, TypeBrief),
		ObjectTypes:  typeSet(TypePilot),
	},

	// Topic relations.
	PredAboutTopic: {
		SubjectTypes: typeSet(TypeSignal, TypeBrief, TypeEvidence, TypeMeeting, TypeActivity),
		ObjectTypes:  typeSet(TypeTopic),
	},
	PredBelongsToSegment: {
		SubjectTypes: typeSet(TypeTopic, TypeOrganization, TypeTechnology),
		ObjectTypes:  typeSet(TypeMarketSegment),
	},
	PredPartOfTrend: {
		SubjectTypes: typeSet(TypeTopic, TypeSignal, TypeTechnology),
		ObjectTypes:  typeSet(TypeTrend),
	},
	PredRelatedTo: {
		SubjectTypes: typeSet(TypeTopic, TypeTrend, TypeTechnology, TypeSignal),
		ObjectTypes:  typeSet(TypeTopic, TypeTrend, TypeTechnology, TypeSignal),
	},
	PredSimilarTo: {
		SubjectTypes: typeSet(TypeSignal, TypeTopic, TypeOrganization, TypeTechnology, TypeEvidence),
		ObjectTypes:  typeSet(TypeSignal, TypeTopic, TypeOrganization, TypeTechnology, TypeEvidence),
	},

	// Organization relations.
	PredCompetesWith: {
		SubjectTypes:     typeSet(TypeOrganization),
		ObjectTypes:      typeSet(TypeOrganization),
		RequiresEvidence: true,
		MinConfidence:    0.5,
	},
	PredPartnersWith: {
		SubjectTypes:     typeSet(TypeOrganization),
		ObjectTypes:      typeSet(TypeOrganization),
		RequiresEvidence: true,
		MinConfidence:    0.5,
	},
	PredSupplies: {
		SubjectTypes:  typeSet(TypeOrganization),
		ObjectTypes:   typeSet(TypeOrganization),
		MinConfidence: 0.5,
	},
	PredOperatesIn: {
		SubjectTypes: typeSet(TypeOrganization),
		ObjectTypes:  typeSet(TypeIndustry, TypeMarketSegment),
	},
	PredUsesTechnology: {
		SubjectTypes: typeSet(TypeOrganization),
		ObjectTypes:  typeSet(TypeTechnology),
	},
	PredMentionedIn: {
		SubjectTypes: typeSet(TypeOrganization, TypePerson, TypeTechnology),
		ObjectTypes:  typeSet(TypeSignal, TypeEvidence, TypeMeeting),
	},

	// Person and team relations.
	PredWorksAt: {
		SubjectTypes: typeSet(TypePerson),
		ObjectTypes:  typeSet(TypeOrganization),
	},
	PredMemberOf: {
		SubjectTypes: typeSet(TypePerson),
		ObjectTypes:  typeSet(TypeTeam),
	},
	PredOwns: {
		SubjectTypes: typeSet(TypePerson, TypeTeam),
		ObjectTypes:  typeSet(TypeActivity, TypePlay, TypeTask, TypeMilestone, TypeScorecard),
	},

	// Evidence relations. supported_by and sourced_from are themselves the
	// evidence links, so they carry no RequiresEvidence flag.
	PredSupportedBy: {
		SubjectTypes: typeSet(
			TypeSignal, TypeTopic, TypeBrief, TypeDecision, TypeTrend,
			TypeScorecard, TypeValidation, TypeOrganization,
		),
		ObjectTypes: typeSet(TypeEvidence),
	},
	PredSourcedFrom: {
		SubjectTypes:   typeSet(TypeEvidence),
		ObjectTypes:    typeSet(TypeSource),
		RequiresSource: true,
	},
	PredContradicts: {
		SubjectTypes:     typeSet(TypeEvidence),
		ObjectTypes:      typeSet(TypeEvidence, TypeSignal, TypeBrief),
		RequiresEvidence: true,
		MinConfidence:    0.6,
	},
	PredInferredFrom: {
		SubjectTypes:    typeSet(TypeReasoningStep, TypeDecision, TypeBrief, TypeTopic),
		ObjectTypes:     typeSet(TypeReasoningStep, TypeEvidence, TypeSignal),
		ExcludeFromPath: true,
	},

	// Operational relations.
	PredAssignedTo: {
		SubjectTypes: typeSet(TypeTask),
		ObjectTypes:  typeSet(TypePerson, TypeTeam),
	},
	PredBlocks: {
		SubjectTypes: typeSet(TypeTask, TypeMilestone),
		ObjectTypes:  typeSet(TypeTask, TypeMilestone),
	},
	PredMeasuredBy: {
		SubjectTypes: typeSet(TypeActivity, TypePlay, TypePilot, TypeTeam),
		ObjectTypes:  typeSet(TypeScorecard),
	},
	PredScheduledFor: {
		SubjectTypes: typeSet(TypeTask, TypeMeeting, TypePilot),
		ObjectTypes:  typeSet(TypeMilestone),
	},

	// Legacy predicates, readable but closed for new writes.
	PredLeadsTo: {
		SubjectTypes: typeSet(
			TypeSignal, TypeTopic, TypeBrief, TypeValidation, TypePilot,
			TypeActivity, TypeReasoningStep, TypeDecision,
		),
		ObjectTypes: typeSet(
			TypeSignal, TypeTopic, TypeBrief, TypeValidation, TypePilot,
			TypeActivity, TypeReasoningStep, TypeDecision,
		),
		Deprecated:        true,
		DeprecatedMessage: "leads_to is deprecated, write progresses_to instead",
		ExcludeFromPath:   true,
	},
	PredHasRole: {
		SubjectTypes:      typeSet(TypeOrganization, TypeCustomer, TypeCompetitor, TypePerson),
		ObjectTypes:       typeSet(TypeOrganization),
		Deprecated:        true,
		DeprecatedMessage: "has_role is deprecated, write works_at, competes_with or partners_with depending on the role property",
	},
	PredRelatesToCompany: {
		SubjectTypes:      typeSet(TypeSignal, TypeTopic, TypeEvidence),
		ObjectTypes:       typeSet(TypeOrganization, TypeCustomer, TypeCompetitor),
		Deprecated:        true,
		DeprecatedMessage: "relates_to_company is deprecated, write mentioned_in instead",
	},
	PredImpacts: {
		SubjectTypes:      typeSet(TypeSignal, TypeTrend, TypeDecision),
		ObjectTypes:       typeSet(TypeOrganization, TypeTopic, TypeScorecard),
		Deprecated:        true,
		DeprecatedMessage: "impacts is deprecated, write results_in instead",
	},
	PredReferences: {
		SubjectTypes:      typeSet(TypeSignal, TypeTopic, TypeBrief, TypeDecision, TypeEvidence),
		ObjectTypes:       typeSet(TypeEvidence, TypeSource),
		Deprecated:        true,
		DeprecatedMessage: "references is deprecated, write supported_by instead",
	},
	PredTrackedIn: {
		SubjectTypes:      typeSet(TypeActivity, TypePlay),
		ObjectTypes:       typeSet(TypeScorecard),
		Deprecated:        true,
		DeprecatedMessage: "tracked_in is deprecated, write measured_by instead",
	},
}

// ConstraintFor looks up the constraint record for a predicate. Unknown
// predicates report ok=false; the validator treats them permissively so the
// table can grow without breaking older writers.
func ConstraintFor(p Predicate) (Constraint, bool) {
	c, ok := constraints[p]
	return c, ok
}

// Predicates returns every known predicate in stable order, deprecated
// kinds included.
func Predicates() []Predicate {
	out := make([]Predicate, 0, len(constraints))
	for p := range constraints {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllowedPredicates returns every non-deprecated predicate whose constraint
// admits subj as subject type and obj as object type. Callers use it to
// populate extraction and review choices.
func AllowedPredicates(subj, obj EntityType) []Predicate {
	out := make([]Predicate, 0)
	for _, p := range Predicates() {
		c := constraints[p]
		if c.Deprecated {
			continue
		}
		if _, ok := c.SubjectTypes[subj]; !ok {
			continue
		}
		if _, ok := c.ObjectTypes[obj]; !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PathSafePredicates returns every non-deprecated predicate that may appear
// inside a traversal path. This is the default predicate filter for path
// search.
func PathSafePredicates() []Predicate {
	out := make([]Predicate, 0, len(constraints))
	for _, p := range Predicates() {
		c := constraints[p]
		if c.Deprecated || c.ExcludeFromPath {
			continue
		}
		out = append(out, p)
	}
	return out
}
