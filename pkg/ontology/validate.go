package ontology

import (
	"fmt"
	"sort"
	"strings"
)

// VerifyConfidenceThreshold is the minimum confidence for a clean candidate
// to be promoted straight to verified. Anything below it, or anything that
// picked up a warning, stays proposed pending human review.
const VerifyConfidenceThreshold = 0.7

// Role values accepted by the legacy has_role predicate.
var hasRoleValues = map[string]struct{}{
	"customer":   {},
	"competitor": {},
	"partner":    {},
}

// ValidationInput is a candidate relationship as submitted by an extraction
// pipeline, before it has been persisted.
type ValidationInput struct {
	SubjectType   EntityType        `json:"subject_type"`
	Predicate     Predicate         `json:"predicate"`
	ObjectType    EntityType        `json:"object_type"`
	AssertionType AssertionType     `json:"assertion_type"`
	EvidenceIDs   []string          `json:"evidence_ids,omitempty"`
	EvidenceSpan  *EvidenceSpan     `json:"evidence_span,omitempty"`
	Confidence    float64           `json:"confidence"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// ValidationResult reports every finding for a candidate. Errors force
// rejection; warnings block automatic promotion to verified but do not block
// acceptance.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	Errors          []string `json:"errors,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	SuggestedStatus Status   `json:"suggested_status"`
}

// Validate checks a candidate relationship against the constraint table and
// accumulates every finding rather than stopping at the first. An unknown
// predicate is accepted with a warning so that newer writers stay compatible
// with older engine builds.
func Validate(in ValidationInput) ValidationResult {
	c, known := ConstraintFor(in.Predicate)
	if !known {
		return ValidationResult{
			IsValid:         true,
			Warnings:        []string{fmt.Sprintf("unrecognized predicate %q, skipping constraint checks", in.Predicate)},
			SuggestedStatus: StatusProposed,
		}
	}

	var errs, warns []string

	if c.Deprecated {
		warns = append(warns, c.DeprecatedMessage)
	}

	if _, ok := c.SubjectTypes[in.SubjectType]; !ok {
		errs = append(errs, fmt.Sprintf(
			"subject type %s not allowed for %s, expected one of [%s]",
			in.SubjectType, in.Predicate, joinTypes(c.SubjectTypes),
		))
	}
	if _, ok := c.ObjectTypes[in.ObjectType]; !ok {
		errs = append(errs, fmt.Sprintf(
			"object type %s not allowed for %s, expected one of [%s]",
			in.ObjectType, in.Predicate, joinTypes(c.ObjectTypes),
		))
	}

	if in.Confidence < c.MinConfidence {
		errs = append(errs, fmt.Sprintf(
			"confidence %.2f below minimum %.2f for %s",
			in.Confidence, c.MinConfidence, in.Predicate,
		))
	}

	if in.AssertionType == AssertionObserved && len(in.EvidenceIDs) == 0 && !selfEvidencing(in.Predicate) {
		warns = append(warns, fmt.Sprintf(
			"observed assertion of %s has no evidence ids", in.Predicate,
		))
	}
	if in.AssertionType == AssertionInferred && c.RequiresEvidence && len(in.EvidenceIDs) == 0 {
		warns = append(warns, fmt.Sprintf(
			"%s requires evidence but the inferred assertion carries none", in.Predicate,
		))
	}

	if c.RequiresSource && (in.EvidenceSpan == nil || in.EvidenceSpan.SourceID == "") {
		warns = append(warns, fmt.Sprintf(
			"%s expects a citation span naming its source", in.Predicate,
		))
	}

	if in.Predicate == PredHasRole {
		role, ok := in.Properties["role"]
		switch {
		case !ok || role == "":
			errs = append(errs, "has_role requires a role property (customer, competitor or partner)")
		default:
			if _, known := hasRoleValues[strings.ToLower(role)]; !known {
				warns = append(warns, fmt.Sprintf("unrecognized role %q for has_role", role))
			}
		}
	}

	return ValidationResult{
		IsValid:         len(errs) == 0,
		Errors:          errs,
		Warnings:        warns,
		SuggestedStatus: suggestStatus(errs, warns, in.Confidence),
	}
}

// selfEvidencing reports whether the predicate is itself an evidence link,
// in which case demanding separate evidence ids would be circular.
func selfEvidencing(p Predicate) bool {
	return p == PredSupportedBy || p == PredSourcedFrom
}

func suggestStatus(errs, warns []string, confidence float64) Status {
	if len(errs) > 0 {
		return StatusRejected
	}
	if len(warns) == 0 && confidence >= VerifyConfidenceThreshold {
		return StatusVerified
	}
	return StatusProposed
}

func joinTypes(set map[EntityType]struct{}) string {
	names := make([]string, 0, len(set))
	for t := range set {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
