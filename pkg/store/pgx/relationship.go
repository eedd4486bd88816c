package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/signalgraph/ontology/pkg/logger"
	"github.com/signalgraph/ontology/pkg/ontology"
	"github.com/signalgraph/ontology/pkg/store"
)

const relationshipColumns = `id, subject_id, predicate, object_id, status,
	assertion_type, weight, confidence, evidence_ids, evidence_span,
	reasoning_path_id, extractor_run_id, properties,
	created_at, updated_at, created_by, verified_by, verified_at`

func scanRelationship(row rowScanner) (*ontology.Relationship, error) {
	var r ontology.Relationship
	err := row.Scan(
		&r.ID, &r.SubjectID, &r.Predicate, &r.ObjectID, &r.Status,
		&r.AssertionType, &r.Weight, &r.Confidence, &r.EvidenceIDs, &r.EvidenceSpan,
		&r.ReasoningPathID, &r.ExtractorRunID, &r.Properties,
		&r.CreatedAt, &r.UpdatedAt, &r.CreatedBy, &r.VerifiedBy, &r.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRelationship persists a candidate edge. Self-loops are rejected, a
// duplicate (subject, predicate, object) triple surfaces as
// store.ErrAlreadyExists and a missing endpoint as store.ErrMissingEndpoint.
// Status defaults to proposed and assertion type to observed.
func (s *GraphDBStorage) CreateRelationship(ctx context.Context, r *ontology.Relationship) (*ontology.Relationship, error) {
	if r.SubjectID == "" || r.ObjectID == "" {
		return nil, fmt.Errorf("%w: subject and object ids are required", store.ErrInvalidInput)
	}
	if r.SubjectID == r.ObjectID {
		return nil, fmt.Errorf("%w: %s", store.ErrSelfReference, r.SubjectID)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", store.ErrInvalidInput, r.Confidence)
	}
	if r.Weight < 0 || r.Weight > 1 {
		return nil, fmt.Errorf("%w: weight %v outside [0,1]", store.ErrInvalidInput, r.Weight)
	}

	out := *r
	if out.ID == "" {
		out.ID = ontology.NewRelationshipID()
	}
	if out.Status == "" {
		out.Status = ontology.StatusProposed
	}
	if out.AssertionType == "" {
		out.AssertionType = ontology.AssertionObserved
	}
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now
	if out.Status == ontology.StatusVerified && out.VerifiedAt == nil {
		out.VerifiedAt = &now
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO relationships (
			id, subject_id, predicate, object_id, status,
			assertion_type, weight, confidence, evidence_ids, evidence_span,
			reasoning_path_id, extractor_run_id, properties,
			created_at, updated_at, created_by, verified_by, verified_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		out.ID, out.SubjectID, out.Predicate, out.ObjectID, out.Status,
		out.AssertionType, out.Weight, out.Confidence, out.EvidenceIDs, out.EvidenceSpan,
		out.ReasoningPathID, out.ExtractorRunID, out.Properties,
		out.CreatedAt, out.UpdatedAt, out.CreatedBy, out.VerifiedBy, out.VerifiedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	logger.Debug("[Store][CreateRelationship] Edge persisted",
		"id", out.ID, "predicate", out.Predicate, "status", out.Status)
	return &out, nil
}

// GetRelationship fetches an edge by id, returning (nil, nil) when it does
// not exist.
func (s *GraphDBStorage) GetRelationship(ctx context.Context, id string) (*ontology.Relationship, error) {
	row := s.conn.QueryRow(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE id = $1`, id)

	r, err := scanRelationship(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// QueryRelationships runs an SPO pattern query with optional status,
// predicate and confidence restrictions, ordered by confidence descending.
func (s *GraphDBStorage) QueryRelationships(ctx context.Context, f store.RelationshipFilter) ([]ontology.Relationship, error) {
	query, args := relationshipQuery(f)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ontology.Relationship, 0)
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// relationshipQuery builds the SQL for an SPO pattern filter. Split out so
// clause construction stays unit-testable without a database.
func relationshipQuery(f store.RelationshipFilter) (string, []any) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 5)

	if f.SubjectID != "" {
		args = append(args, f.SubjectID)
		where = append(where, fmt.Sprintf("subject_id = $%d", len(args)))
	}
	if f.Predicate != "" {
		args = append(args, f.Predicate)
		where = append(where, fmt.Sprintf("predicate = $%d", len(args)))
	}
	if f.ObjectID != "" {
		args = append(args, f.ObjectID)
		where = append(where, fmt.Sprintf("object_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.MinConfidence > 0 {
		args = append(args, f.MinConfidence)
		where = append(where, fmt.Sprintf("confidence >= $%d", len(args)))
	}

	query := `SELECT ` + relationshipColumns + ` FROM relationships`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY confidence DESC, created_at DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}

// DeleteRelationship removes a single edge by id. Returns false when no
// such edge existed.
func (s *GraphDBStorage) DeleteRelationship(ctx context.Context, id string) (bool, error) {
	tag, err := s.conn.Exec(ctx, `DELETE FROM relationships WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
