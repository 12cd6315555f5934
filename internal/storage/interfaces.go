package storage

import (
	"context"
	"time"

	"github.com/jonesrussell/shorty/internal/domain"
)

// LinkStore defines the contract for link record access.
type LinkStore interface {
	Create(ctx context.Context, params CreateLinkParams) (*domain.Link, error)
	GetByID(ctx context.Context, id int64) (*domain.Link, error)
	GetByKeyword(ctx context.Context, keyword string, namespaceID int64) (*domain.Link, error)
	KeywordExists(ctx context.Context, keyword string, namespaceID int64) (bool, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]OwnedLink, error)
	UpdateURL(ctx context.Context, id int64, url string) error

	// RecordHit applies hit = hit + 1 and last_used = at as a single
	// server-side update.
	RecordHit(ctx context.Context, id int64, at time.Time) error
}

// OwnerStore defines the contract for owner identity and permission access.
type OwnerStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.Owner, error)
	GetOrCreate(ctx context.Context, username string) (*domain.Owner, *domain.Permissions, error)
	Permissions(ctx context.Context, ownerID int64) (*domain.Permissions, error)
}

// NamespaceStore defines the contract for namespace lookups.
type NamespaceStore interface {
	GetByName(ctx context.Context, name string) (*domain.Namespace, error)
	GetByID(ctx context.Context, id int64) (*domain.Namespace, error)
	GetByOwner(ctx context.Context, ownerID int64) (*domain.Namespace, error)
	GetOrCreateForOwner(ctx context.Context, owner *domain.Owner) (*domain.Namespace, error)
}

// OwnedLink is a link record joined with the name of its namespace, for
// listings that need to render keyword paths.
type OwnedLink struct {
	domain.Link
	NamespaceName string `db:"namespace_name" json:"namespace_name"`
}
