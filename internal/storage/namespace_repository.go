package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/shorty/internal/domain"
)

// namespaceColumns lists columns for SELECT queries on namespace.
const namespaceColumns = `id, name, owner_id`

// NamespaceRepository handles database operations for namespaces.
type NamespaceRepository struct {
	db *sqlx.DB
}

// NewNamespaceRepository creates a new namespace repository.
func NewNamespaceRepository(db *sqlx.DB) *NamespaceRepository {
	return &NamespaceRepository{db: db}
}

// GetByName fetches a namespace by its lowercase name.
func (r *NamespaceRepository) GetByName(ctx context.Context, name string) (*domain.Namespace, error) {
	query := `SELECT ` + namespaceColumns + ` FROM namespace WHERE name = $1`

	var ns domain.Namespace
	err := r.db.GetContext(ctx, &ns, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select namespace by name: %w", err)
	}

	return &ns, nil
}

// GetByID fetches a namespace by ID.
func (r *NamespaceRepository) GetByID(ctx context.Context, id int64) (*domain.Namespace, error) {
	query := `SELECT ` + namespaceColumns + ` FROM namespace WHERE id = $1`

	var ns domain.Namespace
	err := r.db.GetContext(ctx, &ns, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select namespace by id: %w", err)
	}

	return &ns, nil
}

// GetByOwner fetches an owner's personal namespace.
func (r *NamespaceRepository) GetByOwner(ctx context.Context, ownerID int64) (*domain.Namespace, error) {
	query := `SELECT ` + namespaceColumns + ` FROM namespace WHERE owner_id = $1`

	var ns domain.Namespace
	err := r.db.GetContext(ctx, &ns, query, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select namespace by owner: %w", err)
	}

	return &ns, nil
}

// GetOrCreateForOwner returns the owner's personal namespace, creating it on
// first use. Personal namespaces are named "~username" so path construction
// needs no extra lookup.
func (r *NamespaceRepository) GetOrCreateForOwner(ctx context.Context, owner *domain.Owner) (*domain.Namespace, error) {
	insert := `
		INSERT INTO namespace (name, owner_id)
		VALUES ($1, $2)
		ON CONFLICT (owner_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert, "~"+owner.Username, owner.ID); err != nil {
		return nil, fmt.Errorf("insert personal namespace: %w", err)
	}

	ns, err := r.GetByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("reread personal namespace: %w", err)
	}

	return ns, nil
}
