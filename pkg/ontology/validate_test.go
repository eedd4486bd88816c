package ontology

import (
	"strings"
	"testing"
)

func TestValidateScenarios(t *testing.T) {
	tests := []struct {
		name       string
		in         ValidationInput
		wantValid  bool
		wantErrs   int
		wantWarns  int
		wantStatus Status
	}{
		{
			name: "CleanObservedClaimVerifies",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredCompetesWith,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.9,
			},
			wantValid:  true,
			wantStatus: StatusVerified,
		},
		{
			name: "MissingEvidenceBlocksAutoVerify",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredCompetesWith,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				Confidence:    0.9,
			},
			wantValid:  true,
			wantWarns:  1,
			wantStatus: StatusProposed,
		},
		{
			name: "HighConfidenceButBelowThresholdStaysProposed",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredCompetesWith,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.65,
			},
			wantValid:  true,
			wantStatus: StatusProposed,
		},
		{
			name: "DisallowedSubjectTypeRejects",
			in: ValidationInput{
				SubjectType:   TypePerson,
				Predicate:     PredCompetesWith,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.9,
			},
			wantErrs:   1,
			wantStatus: StatusRejected,
		},
		{
			name: "DisallowedBothEndpointsAccumulatesErrors",
			in: ValidationInput{
				SubjectType:   TypeTask,
				Predicate:     PredCompetesWith,
				ObjectType:    TypeMilestone,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.9,
			},
			wantErrs:   2,
			wantStatus: StatusRejected,
		},
		{
			name: "BelowMinimumConfidenceRejects",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredCompetesWith,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.3,
			},
			wantErrs:   1,
			wantStatus: StatusRejected,
		},
		{
			name: "UnknownPredicateIsPermissive",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     Predicate("collaborates_on"),
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				Confidence:    0.99,
			},
			wantValid:  true,
			wantWarns:  1,
			wantStatus: StatusProposed,
		},
		{
			name: "DeprecatedPredicateWarns",
			in: ValidationInput{
				SubjectType:   TypeSignal,
				Predicate:     PredLeadsTo,
				ObjectType:    TypeTopic,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.95,
			},
			wantValid:  true,
			wantWarns:  1,
			wantStatus: StatusProposed,
		},
		{
			name: "SupportedByIsSelfEvidencing",
			in: ValidationInput{
				SubjectType:   TypeSignal,
				Predicate:     PredSupportedBy,
				ObjectType:    TypeEvidence,
				AssertionType: AssertionObserved,
				Confidence:    0.9,
			},
			wantValid:  true,
			wantStatus: StatusVerified,
		},
		{
			name: "SourcedFromWantsACitationSpan",
			in: ValidationInput{
				SubjectType:   TypeEvidence,
				Predicate:     PredSourcedFrom,
				ObjectType:    TypeSource,
				AssertionType: AssertionObserved,
				Confidence:    0.9,
			},
			wantValid:  true,
			wantWarns:  1,
			wantStatus: StatusProposed,
		},
		{
			name: "SourcedFromWithSpanVerifies",
			in: ValidationInput{
				SubjectType:   TypeEvidence,
				Predicate:     PredSourcedFrom,
				ObjectType:    TypeSource,
				AssertionType: AssertionObserved,
				EvidenceSpan:  &EvidenceSpan{SourceID: "SRC-a1b2c3d4", Start: 10, End: 42},
				Confidence:    0.9,
			},
			wantValid:  true,
			wantStatus: StatusVerified,
		},
		{
			name: "InferredEdgeOnEvidenceRequiringPredicateWarns",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredPartnersWith,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionInferred,
				Confidence:    0.8,
			},
			wantValid:  true,
			wantWarns:  1,
			wantStatus: StatusProposed,
		},
		{
			name: "HasRoleWithoutRoleRejects",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredHasRole,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.9,
			},
			wantErrs:   1,
			wantWarns:  1, // deprecation
			wantStatus: StatusRejected,
		},
		{
			name: "HasRoleWithUnknownRoleWarns",
			in: ValidationInput{
				SubjectType:   TypeOrganization,
				Predicate:     PredHasRole,
				ObjectType:    TypeOrganization,
				AssertionType: AssertionObserved,
				EvidenceIDs:   []string{"EVD-a1b2c3d4"},
				Confidence:    0.9,
				Properties:    map[string]string{"role": "vendor"},
			},
			wantValid:  true,
			wantWarns:  2, // deprecation + unknown role
			wantStatus: StatusProposed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.in)

			if got.IsValid != tc.wantValid {
				t.Fatalf("IsValid = %v, want %v (errors: %v)", got.IsValid, tc.wantValid, got.Errors)
			}
			if len(got.Errors) != tc.wantErrs {
				t.Fatalf("got %d errors %v, want %d", len(got.Errors), got.Errors, tc.wantErrs)
			}
			if len(got.Warnings) != tc.wantWarns {
				t.Fatalf("got %d warnings %v, want %d", len(got.Warnings), got.Warnings, tc.wantWarns)
			}
			if got.SuggestedStatus != tc.wantStatus {
				t.Fatalf("SuggestedStatus = %s, want %s", got.SuggestedStatus, tc.wantStatus)
			}
		})
	}
}

func TestValidateErrorNamesAllowedTypes(t *testing.T) {
	got := Validate(ValidationInput{
		SubjectType:   TypePerson,
		Predicate:     PredCompetesWith,
		ObjectType:    TypeOrganization,
		AssertionType: AssertionObserved,
		EvidenceIDs:   []string{"EVD-a1b2c3d4"},
		Confidence:    0.9,
	})
	if len(got.Errors) != 1 {
		t.Fatalf("expected one error, got %v", got.Errors)
	}
	if !strings.Contains(got.Errors[0], string(TypeOrganization)) {
		t.Fatalf("error should name the allowed set, got %q", got.Errors[0])
	}
}

// Every predicate must accept a candidate drawn from its own constraint
// record, and reject one whose subject type falls outside the set.
func TestValidateAgainstWholeTable(t *testing.T) {
	for _, p := range Predicates() {
		c, _ := ConstraintFor(p)

		var subj, obj EntityType
		for s := range c.SubjectTypes {
			subj = s
			break
		}
		for o := range c.ObjectTypes {
			obj = o
			break
		}

		in := ValidationInput{
			SubjectType:   subj,
			Predicate:     p,
			ObjectType:    obj,
			AssertionType: AssertionObserved,
			EvidenceIDs:   []string{"EVD-a1b2c3d4"},
			EvidenceSpan:  &EvidenceSpan{SourceID: "SRC-a1b2c3d4"},
			Confidence:    1.0,
		}
		if p == PredHasRole {
			in.Properties = map[string]string{"role": "partner"}
		}

		got := Validate(in)
		if !got.IsValid {
			t.Fatalf("in-set candidate for %s should be valid, errors: %v", p, got.Errors)
		}

		var outsider EntityType
		for candidate := range entityTypes {
			if _, ok := c.SubjectTypes[candidate]; !ok {
				outsider = candidate
				break
			}
		}
		if outsider == "" {
			continue
		}

		in.SubjectType = outsider
		got = Validate(in)
		if len(got.Errors) == 0 {
			t.Fatalf("out-of-set subject %s for %s should error", outsider, p)
		}
		if got.SuggestedStatus != StatusRejected {
			t.Fatalf("out-of-set subject for %s suggested %s, want rejected", p, got.SuggestedStatus)
		}
	}
}
