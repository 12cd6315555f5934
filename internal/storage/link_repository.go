package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/shorty/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// linkColumns lists columns for SELECT queries on redirect.
const linkColumns = `id, url, owner_id, namespace_id, keyword, create_time, last_used, hit`

// LinkRepository handles database operations for link records.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// CreateLinkParams contains the parameters for inserting a link record.
type CreateLinkParams struct {
	URL         string
	OwnerID     int64
	NamespaceID int64
	Keyword     *string
}

// Create inserts a new link record and returns it with the store-assigned ID.
// A unique constraint violation on (keyword, namespace_id) maps to
// domain.ErrDuplicateKeyword; the constraint is the authoritative duplicate
// check, the service-level pre-check only produces a friendlier error early.
func (r *LinkRepository) Create(ctx context.Context, params CreateLinkParams) (*domain.Link, error) {
	query := `
		INSERT INTO redirect (url, owner_id, namespace_id, keyword, create_time)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + linkColumns

	var link domain.Link
	err := r.db.GetContext(ctx, &link, query,
		params.URL, params.OwnerID, params.NamespaceID, params.Keyword,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateKeyword
		}
		return nil, fmt.Errorf("insert link: %w", err)
	}

	return &link, nil
}

// GetByID fetches a link record by its globally unique numeric ID.
func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM redirect WHERE id = $1`

	var link domain.Link
	err := r.db.GetContext(ctx, &link, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select link by id: %w", err)
	}

	return &link, nil
}

// GetByKeyword fetches a link record by its (keyword, namespace) pair.
// Keywords are stored lowercase, so the caller passes a lowercased keyword.
func (r *LinkRepository) GetByKeyword(ctx context.Context, keyword string, namespaceID int64) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM redirect WHERE keyword = $1 AND namespace_id = $2`

	var link domain.Link
	err := r.db.GetContext(ctx, &link, query, keyword, namespaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select link by keyword: %w", err)
	}

	return &link, nil
}

// KeywordExists reports whether a keyword is already taken in a namespace.
func (r *LinkRepository) KeywordExists(ctx context.Context, keyword string, namespaceID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM redirect WHERE keyword = $1 AND namespace_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, keyword, namespaceID); err != nil {
		return false, fmt.Errorf("check keyword existence: %w", err)
	}

	return exists, nil
}

// ListByOwner returns all link records created by an owner, newest first,
// joined with their namespace names.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]OwnedLink, error) {
	query := `
		SELECT r.id, r.url, r.owner_id, r.namespace_id, r.keyword,
		       r.create_time, r.last_used, r.hit, n.name AS namespace_name
		FROM redirect r
		JOIN namespace n ON n.id = r.namespace_id
		WHERE r.owner_id = $1
		ORDER BY r.create_time DESC`

	links := []OwnedLink{}
	if err := r.db.SelectContext(ctx, &links, query, ownerID); err != nil {
		return nil, fmt.Errorf("list links by owner: %w", err)
	}

	return links, nil
}

// UpdateURL changes the destination of an existing link record.
func (r *LinkRepository) UpdateURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE redirect SET url = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, url)
	return execRequireRows(result, err, domain.ErrNotFound)
}

// RecordHit increments the hit counter and stamps last_used in a single
// server-side update, so concurrent redirects of the same record never lose
// increments.
func (r *LinkRepository) RecordHit(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE redirect SET hit = hit + 1, last_used = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, at)
	return execRequireRows(result, err, domain.ErrNotFound)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
