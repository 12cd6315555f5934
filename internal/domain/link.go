// Package domain defines the core entities of the shortener service.
package domain

import (
	"errors"
	"time"
)

// Reserved namespace IDs seeded by the initial migration.
const (
	// NamespaceGlobal is the shared keyword space used for bare /keyword paths.
	NamespaceGlobal int64 = 1
	// NamespaceUser reserves the "user" name. Personal keyword spaces are
	// materialized as per-owner namespaces named "~username"; this row only
	// keeps the plain name from being claimed as a shared namespace.
	NamespaceUser int64 = 2
)

// Link is a single redirect record. A record is addressable by the base-36
// encoding of its ID (globally) and, if set, by its keyword within its
// namespace.
type Link struct {
	ID          int64      `db:"id"           json:"id"`
	URL         string     `db:"url"          json:"url"`
	OwnerID     int64      `db:"owner_id"     json:"owner_id"`
	NamespaceID int64      `db:"namespace_id" json:"namespace_id"`
	Keyword     *string    `db:"keyword"      json:"keyword,omitempty"`
	CreateTime  time.Time  `db:"create_time"  json:"create_time"`
	LastUsed    *time.Time `db:"last_used"    json:"last_used,omitempty"`
	Hit         int64      `db:"hit"          json:"hit"`
}

// Owner maps an external directory identity to an internal numeric ID.
type Owner struct {
	ID        int64     `db:"id"         json:"id"`
	Username  string    `db:"username"   json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Permissions holds the per-owner capability flags.
type Permissions struct {
	OwnerID int64 `db:"owner_id" json:"-"`
	Admin   bool  `db:"admin"    json:"admin"`
	Edit    bool  `db:"edit"     json:"edit"`
	Keyword bool  `db:"keyword"  json:"keyword"`
}

// Namespace partitions the keyword space. Personal namespaces carry the
// owning user's ID and are named "~username"; shared namespaces (global
// included) have no owner.
type Namespace struct {
	ID      int64  `db:"id"       json:"id"`
	Name    string `db:"name"     json:"name"`
	OwnerID *int64 `db:"owner_id" json:"owner_id,omitempty"`
}

// Personal reports whether the namespace is a single user's keyword space.
func (n *Namespace) Personal() bool {
	return n.OwnerID != nil
}

// Error kinds shared across the service. Callers check with errors.Is().
var (
	// ErrNotFound is the single outcome for every failed resolution,
	// regardless of the underlying cause.
	ErrNotFound = errors.New("short link not found")

	// ErrInvalidURL is returned when a submitted destination does not
	// normalize to an absolute URL.
	ErrInvalidURL = errors.New("invalid destination url")

	// ErrInvalidKeyword is returned when a submitted keyword contains
	// non-alphanumeric characters.
	ErrInvalidKeyword = errors.New("invalid keyword")

	// ErrDuplicateKeyword is returned when a keyword already exists in the
	// target namespace. The database unique constraint is the authoritative
	// source of this error; the pre-insert check only makes it friendlier.
	ErrDuplicateKeyword = errors.New("keyword already exists in namespace")

	// ErrPermissionDenied is returned when the acting user may not perform
	// an edit or admin operation.
	ErrPermissionDenied = errors.New("permission denied")
)
