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

const entityColumns = `id, type, name, description, confidence, properties,
	external_ref_id, published_at, observed_at, ingested_at,
	last_synced_at, sync_status, created_at, updated_at, created_by`

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*ontology.Entity, error) {
	var e ontology.Entity
	err := row.Scan(
		&e.ID, &e.Type, &e.Name, &e.Description, &e.Confidence, &e.Properties,
		&e.ExternalRefID, &e.PublishedAt, &e.ObservedAt, &e.IngestedAt,
		&e.LastSyncedAt, &e.SyncStatus, &e.CreatedAt, &e.UpdatedAt, &e.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntity persists a new entity. Missing optional fields take their
// defaults: a generated typed id, confidence 1.0 and audit timestamps. A
// zero Confidence means unset and becomes 1.0; an explicit zero cannot be
// stored at creation, use UpdateEntity to lower it afterwards.
func (s *GraphDBStorage) CreateEntity(ctx context.Context, e *ontology.Entity) (*ontology.Entity, error) {
	if !e.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown entity type %q", store.ErrInvalidInput, e.Type)
	}
	if strings.TrimSpace(e.Name) == "" {
		return nil, fmt.Errorf("%w: entity name is required", store.ErrInvalidInput)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", store.ErrInvalidInput, e.Confidence)
	}

	out := *e
	if out.ID == "" {
		out.ID = ontology.NewEntityID(out.Type)
	}
	if out.Confidence == 0 {
		out.Confidence = 1.0
	}
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	_, err := s.conn.Exec(ctx, `
		INSERT INTO entities (
			id, type, name, description, confidence, properties,
			external_ref_id, published_at, observed_at, ingested_at,
			last_synced_at, sync_status, created_at, updated_at, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		out.ID, out.Type, out.Name, out.Description, out.Confidence, out.Properties,
		out.ExternalRefID, out.PublishedAt, out.ObservedAt, out.IngestedAt,
		out.LastSyncedAt, out.SyncStatus, out.CreatedAt, out.UpdatedAt, out.CreatedBy,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	logger.Debug("[Store][CreateEntity] Entity persisted", "id", out.ID, "type", out.Type)
	return &out, nil
}

// GetEntity fetches an entity by id, returning (nil, nil) when it does not
// exist.
func (s *GraphDBStorage) GetEntity(ctx context.Context, id string) (*ontology.Entity, error) {
	row := s.conn.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = $1`, id)

	e, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntities returns a filtered, paginated page of entities ordered by
// creation time, newest first, together with the unpaginated total.
func (s *GraphDBStorage) ListEntities(ctx context.Context, f store.EntityFilter) (*store.EntityPage, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.ExternalRefID != "" {
		args = append(args, f.ExternalRefID)
		where = append(where, fmt.Sprintf("external_ref_id = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM entities`+clause, args...).Scan(&total); err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := max(f.Offset, 0)

	args = append(args, limit, offset)
	rows, err := s.conn.Query(ctx,
		`SELECT `+entityColumns+` FROM entities`+clause+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &store.EntityPage{Total: total, Entities: make([]ontology.Entity, 0, limit)}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		page.Entities = append(page.Entities, *e)
	}
	return page, rows.Err()
}

// UpdateEntity applies a partial-field update and returns the updated
// entity, or (nil, nil) when the id does not exist. Type is immutable and
// cannot be updated.
func (s *GraphDBStorage) UpdateEntity(ctx context.Context, id string, u store.EntityUpdate) (*ontology.Entity, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return nil, fmt.Errorf("%w: entity name is required", store.ErrInvalidInput)
		}
		appendSet("name", *u.Name)
	}
	if u.Description != nil {
		appendSet("description", *u.Description)
	}
	if u.Confidence != nil {
		if *u.Confidence < 0 || *u.Confidence > 1 {
			return nil, fmt.Errorf("%w: confidence %v outside [0,1]", store.ErrInvalidInput, *u.Confidence)
		}
		appendSet("confidence", *u.Confidence)
	}
	if u.Properties != nil {
		appendSet("properties", *u.Properties)
	}
	if u.SyncStatus != nil {
		appendSet("sync_status", *u.SyncStatus)
	}
	if u.LastSyncedAt != nil {
		appendSet("last_synced_at", *u.LastSyncedAt)
	}

	appendSet("updated_at", time.Now().UTC())

	args = append(args, id)
	row := s.conn.QueryRow(ctx, fmt.Sprintf(
		`UPDATE entities SET %s WHERE id = $%d RETURNING `+entityColumns,
		strings.Join(sets, ", "), len(args),
	), args...)

	e, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	return e, nil
}

// DeleteEntity removes an entity. The relationships referencing it as
// subject or object go with it via the cascading foreign keys. Returns
// false when no such entity existed.
func (s *GraphDBStorage) DeleteEntity(ctx context.Context, id string) (bool, error) {
	tag, err := s.conn.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	deleted := tag.RowsAffected() > 0
	if deleted {
		logger.Debug("[Store][DeleteEntity] Entity and incident edges removed", "id", id)
	}
	return deleted, nil
}
