package ontology

import (
	"testing"
)

func TestConstraintTableCoversEveryPredicate(t *testing.T) {
	active := 0
	deprecated := 0
	for _, p := range Predicates() {
		c, ok := ConstraintFor(p)
		if !ok {
			t.Fatalf("no constraint registered for %s", p)
		}
		if len(c.SubjectTypes) == 0 || len(c.ObjectTypes) == 0 {
			t.Fatalf("constraint for %s has empty endpoint sets", p)
		}
		if c.Deprecated {
			deprecated++
			if c.DeprecatedMessage == "" {
				t.Fatalf("deprecated predicate %s has no migration message", p)
			}
		} else {
			active++
		}
	}
	if active != 28 {
		t.Fatalf("expected 28 active predicates, got %d", active)
	}
	if deprecated != 6 {
		t.Fatalf("expected 6 deprecated predicates, got %d", deprecated)
	}
}

func TestAllowedPredicates(t *testing.T) {
	tests := []struct {
		name     string
		subject  EntityType
		object   EntityType
		contains []Predicate
		excludes []Predicate
	}{
		{
			name:     "OrganizationPair",
			subject:  TypeOrganization,
			object:   TypeOrganization,
			contains: []Predicate{PredCompetesWith, PredPartnersWith, PredSupplies, PredSimilarTo},
			excludes: []Predicate{PredHasRole, PredWorksAt},
		},
		{
			name:     "SignalToTopic",
			subject:  TypeSignal,
			object:   TypeTopic,
			contains: []Predicate{PredAboutTopic, PredProgressesTo},
			excludes: []Predicate{PredLeadsTo},
		},
		{
			name:     "EvidenceToSource",
			subject:  TypeEvidence,
			object:   TypeSource,
			contains: []Predicate{PredSourcedFrom},
			excludes: []Predicate{PredReferences},
		},
		{
			name:    "NothingFitsMilestoneToPerson",
			subject: TypeMilestone,
			object:  TypePerson,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AllowedPredicates(tc.subject, tc.object)
			set := make(map[Predicate]struct{}, len(got))
			for _, p := range got {
				set[p] = struct{}{}
			}

			for _, p := range tc.contains {
				if _, ok := set[p]; !ok {
					t.Fatalf("AllowedPredicates(%s, %s) missing %s, got %v", tc.subject, tc.object, p, got)
				}
			}
			for _, p := range tc.excludes {
				if _, ok := set[p]; ok {
					t.Fatalf("AllowedPredicates(%s, %s) must not contain %s", tc.subject, tc.object, p)
				}
			}
			if tc.contains == nil && len(got) != 0 {
				t.Fatalf("AllowedPredicates(%s, %s) = %v, want empty", tc.subject, tc.object, got)
			}
		})
	}
}

func TestAllowedPredicatesNeverDeprecatedAndAlwaysConsistent(t *testing.T) {
	types := make([]EntityType, 0, len(entityTypes))
	for typ := range entityTypes {
		types = append(types, typ)
	}

	for _, subj := range types {
		for _, obj := range types {
			for _, p := range AllowedPredicates(subj, obj) {
				c, _ := ConstraintFor(p)
				if c.Deprecated {
					t.Fatalf("AllowedPredicates(%s, %s) returned deprecated %s", subj, obj, p)
				}
				if _, ok := c.SubjectTypes[subj]; !ok {
					t.Fatalf("%s returned for subject %s outside its subject set", p, subj)
				}
				if _, ok := c.ObjectTypes[obj]; !ok {
					t.Fatalf("%s returned for object %s outside its object set", p, obj)
				}
			}
		}
	}
}

func TestPathSafePredicates(t *testing.T) {
	safe := PathSafePredicates()
	set := make(map[Predicate]struct{}, len(safe))
	for _, p := range safe {
		c, _ := ConstraintFor(p)
		if c.Deprecated {
			t.Fatalf("path-safe set contains deprecated predicate %s", p)
		}
		if c.ExcludeFromPath {
			t.Fatalf("path-safe set contains excluded predicate %s", p)
		}
		set[p] = struct{}{}
	}

	if _, ok := set[PredInferredFrom]; ok {
		t.Fatal("inferred_from must never be path-safe")
	}
	if _, ok := set[PredLeadsTo]; ok {
		t.Fatal("leads_to must never be path-safe")
	}
	if _, ok := set[PredCompetesWith]; !ok {
		t.Fatal("competes_with should be path-safe")
	}
	if len(safe) != 27 {
		t.Fatalf("expected 27 path-safe predicates, got %d", len(safe))
	}
}
