package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/shorty/internal/domain"
)

// ownerColumns lists columns for SELECT queries on owner.
const ownerColumns = `id, username, created_at`

// OwnerRepository handles database operations for owners and their
// permission flags.
type OwnerRepository struct {
	db *sqlx.DB
}

// NewOwnerRepository creates a new owner repository.
func NewOwnerRepository(db *sqlx.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// GetByUsername fetches an owner by directory username.
func (r *OwnerRepository) GetByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owner WHERE username = $1`

	var owner domain.Owner
	err := r.db.GetContext(ctx, &owner, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select owner by username: %w", err)
	}

	return &owner, nil
}

// GetOrCreate looks up an owner by username, creating the owner row and a
// default permission set on first sight. The lookup and conditional insert
// run in one transaction: a concurrent first request for the same username
// loses the insert race, and the conflict-free re-read inside the same
// transaction settles it without retry loops.
func (r *OwnerRepository) GetOrCreate(ctx context.Context, username string) (*domain.Owner, *domain.Permissions, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin owner transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	insertOwner := `
		INSERT INTO owner (username)
		VALUES ($1)
		ON CONFLICT (username) DO NOTHING
	`
	if _, execErr := tx.ExecContext(ctx, insertOwner, username); execErr != nil {
		return nil, nil, fmt.Errorf("insert owner: %w", execErr)
	}

	var owner domain.Owner
	selectOwner := `SELECT ` + ownerColumns + ` FROM owner WHERE username = $1`
	if getErr := tx.GetContext(ctx, &owner, selectOwner, username); getErr != nil {
		return nil, nil, fmt.Errorf("select owner: %w", getErr)
	}

	// New users can edit their own links and claim keywords, but are not
	// admins.
	insertPerms := `
		INSERT INTO permission (owner_id, admin, edit, keyword)
		VALUES ($1, FALSE, TRUE, TRUE)
		ON CONFLICT (owner_id) DO NOTHING
	`
	if _, execErr := tx.ExecContext(ctx, insertPerms, owner.ID); execErr != nil {
		return nil, nil, fmt.Errorf("insert default permissions: %w", execErr)
	}

	var perms domain.Permissions
	selectPerms := `SELECT owner_id, admin, edit, keyword FROM permission WHERE owner_id = $1`
	if getErr := tx.GetContext(ctx, &perms, selectPerms, owner.ID); getErr != nil {
		return nil, nil, fmt.Errorf("select permissions: %w", getErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, nil, fmt.Errorf("commit owner transaction: %w", commitErr)
	}

	return &owner, &perms, nil
}

// Permissions fetches the permission flags for an owner.
func (r *OwnerRepository) Permissions(ctx context.Context, ownerID int64) (*domain.Permissions, error) {
	query := `SELECT owner_id, admin, edit, keyword FROM permission WHERE owner_id = $1`

	var perms domain.Permissions
	err := r.db.GetContext(ctx, &perms, query, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select permissions: %w", err)
	}

	return &perms, nil
}
