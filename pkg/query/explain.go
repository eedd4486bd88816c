package query

import (
	"fmt"
	"strings"

	"github.com/signalgraph/ontology/pkg/ontology"
)

// ExplainPath renders a path as a single readable line:
//
//	'Acme' --[competes_with]--> 'Initech' --[mentioned_in](inferred)--> 'Q3 report'
//
// Inferred hops are annotated as such; observed hops below the verification
// threshold carry their confidence as a percentage instead.
func ExplainPath(steps []PathStep) string {
	if len(steps) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "'%s'", steps[0].EntityName)

	for _, step := range steps[1:] {
		annotation := ""
		switch {
		case step.Inferred:
			annotation = "(inferred)"
		case step.Confidence < ontology.VerifyConfidenceThreshold:
			annotation = fmt.Sprintf("(%.0f%% confidence)", step.Confidence*100)
		}
		fmt.Fprintf(&b, " --[%s]%s--> '%s'", step.Predicate, annotation, step.EntityName)
	}

	return b.String()
}
