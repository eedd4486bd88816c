package pgx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/signalgraph/ontology/pkg/ontology"
	"github.com/signalgraph/ontology/pkg/query"
	"github.com/signalgraph/ontology/pkg/store"
)

// fakeConn records Exec calls and fails everything else, enough to test the
// write paths' validation and defaulting without a database.
type fakeConn struct {
	execCount int
}

func (f *fakeConn) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	f.execCount++
	return pgconn.CommandTag{}, nil
}

func (f *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (f *fakeConn) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow")
}

func (f *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("unexpected Begin")
}

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "UniqueViolationBecomesAlreadyExists",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "uq_relationships_triple"},
			want: store.ErrAlreadyExists,
		},
		{
			name: "ForeignKeyViolationBecomesMissingEndpoint",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "relationships_subject_id_fkey"},
			want: store.ErrMissingEndpoint,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapPgError(tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("mapPgError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}

	wrapped := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})
	if !errors.Is(mapPgError(wrapped), store.ErrAlreadyExists) {
		t.Fatal("mapPgError must unwrap nested pg errors")
	}

	plain := errors.New("connection reset")
	if got := mapPgError(plain); got != plain {
		t.Fatalf("non-pg errors must pass through, got %v", got)
	}
}

func TestCreateEntityConfidenceDefaulting(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"ZeroMeansUnsetAndDefaults", 0, 1.0},
		{"ExplicitValueSurvives", 0.5, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewGraphDBStorage(&fakeConn{})
			out, err := s.CreateEntity(context.Background(), &ontology.Entity{
				Type:       ontology.TypeSignal,
				Name:       "Funding signal",
				Confidence: tc.in,
			})
			if err != nil {
				t.Fatalf("CreateEntity: %v", err)
			}
			if math.Abs(out.Confidence-tc.want) > 1e-9 {
				t.Fatalf("Confidence = %v, want %v", out.Confidence, tc.want)
			}
		})
	}
}

func TestCreateRelationshipRejectsSelfLoop(t *testing.T) {
	conn := &fakeConn{}
	s := NewGraphDBStorage(conn)

	_, err := s.CreateRelationship(context.Background(), &ontology.Relationship{
		SubjectID:  "ORG-a1b2c3d4",
		Predicate:  ontology.PredSimilarTo,
		ObjectID:   "ORG-a1b2c3d4",
		Confidence: 0.9,
	})
	if !errors.Is(err, store.ErrSelfReference) {
		t.Fatalf("self-loop should fail with ErrSelfReference, got %v", err)
	}
	if conn.execCount != 0 {
		t.Fatal("self-loop must be rejected before touching the database")
	}
}

func TestRelationshipQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   store.RelationshipFilter
		wantSQL  []string
		skipSQL  []string
		wantArgs int
	}{
		{
			name:    "EmptyFilterHasNoWhere",
			filter:  store.RelationshipFilter{},
			wantSQL: []string{"FROM relationships", "ORDER BY confidence DESC, created_at DESC"},
			skipSQL: []string{"WHERE", "LIMIT"},
		},
		{
			name: "FullTripleWithConfidence",
			filter: store.RelationshipFilter{
				SubjectID:     "ORG-a",
				Predicate:     ontology.PredCompetesWith,
				ObjectID:      "ORG-b",
				Status:        ontology.StatusVerified,
				MinConfidence: 0.5,
				Limit:         20,
			},
			wantSQL: []string{
				"subject_id = $1", "predicate = $2", "object_id = $3",
				"status = $4", "confidence >= $5", "LIMIT $6",
			},
			wantArgs: 6,
		},
		{
			name:     "PredicateOnly",
			filter:   store.RelationshipFilter{Predicate: ontology.PredSupportedBy},
			wantSQL:  []string{"WHERE predicate = $1"},
			skipSQL:  []string{"subject_id", "object_id", "LIMIT"},
			wantArgs: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := relationshipQuery(tc.filter)
			for _, frag := range tc.wantSQL {
				if !strings.Contains(sql, frag) {
					t.Fatalf("query missing %q:\n%s", frag, sql)
				}
			}
			// The SELECT list names every column, so exclusion checks only
			// look at the clauses after FROM.
			clauses := sql[strings.Index(sql, "FROM relationships"):]
			for _, frag := range tc.skipSQL {
				if strings.Contains(clauses, frag) {
					t.Fatalf("query should not contain %q:\n%s", frag, sql)
				}
			}
			if len(args) != tc.wantArgs {
				t.Fatalf("got %d args %v, want %d", len(args), args, tc.wantArgs)
			}
		})
	}
}

func TestAdjacencyQuery(t *testing.T) {
	f := query.EdgeFilter{
		Statuses:      []ontology.Status{ontology.StatusVerified},
		Predicates:    []ontology.Predicate{ontology.PredCompetesWith, ontology.PredPartnersWith},
		MinConfidence: 0.5,
		ObservedOnly:  true,
	}

	sql, args := adjacencyQuery("subject_id", []string{"ORG-a", "ORG-b"}, f)

	for _, frag := range []string{
		"subject_id = ANY($1)",
		"status = ANY($2)",
		"predicate = ANY($3)",
		"confidence >= $4",
		"assertion_type = $5",
		"ORDER BY confidence DESC",
	} {
		if !strings.Contains(sql, frag) {
			t.Fatalf("query missing %q:\n%s", frag, sql)
		}
	}
	if len(args) != 5 {
		t.Fatalf("got %d args %v, want 5", len(args), args)
	}

	ids, ok := args[0].([]string)
	if !ok || len(ids) != 2 {
		t.Fatalf("first arg should be the frontier ids, got %v", args[0])
	}
}

func TestAdjacencyQueryPermissiveFilter(t *testing.T) {
	sql, args := adjacencyQuery("object_id", []string{"SIG-a"}, query.EdgeFilter{})

	if !strings.Contains(sql, "object_id = ANY($1)") {
		t.Fatalf("query missing endpoint clause:\n%s", sql)
	}
	clauses := sql[strings.Index(sql, "WHERE"):]
	for _, frag := range []string{"status", "predicate =", "confidence >=", "assertion_type ="} {
		if strings.Contains(clauses, frag) {
			t.Fatalf("permissive filter should not emit %q:\n%s", frag, sql)
		}
	}
	if len(args) != 1 {
		t.Fatalf("got %d args, want 1", len(args))
	}
}
