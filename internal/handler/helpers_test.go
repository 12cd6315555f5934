package handler_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/domain"
	"github.com/jonesrussell/shorty/internal/logger"
	"github.com/jonesrussell/shorty/internal/shortener"
	"github.com/jonesrussell/shorty/internal/storage"
)

// memoryStore implements the storage interfaces over maps for handler tests.
type memoryStore struct {
	nextID     int64
	links      map[int64]*domain.Link
	owners     map[string]*domain.Owner
	namespaces map[int64]*domain.Namespace
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID: 1,
		links:  map[int64]*domain.Link{},
		owners: map[string]*domain.Owner{},
		namespaces: map[int64]*domain.Namespace{
			domain.NamespaceGlobal: {ID: domain.NamespaceGlobal, Name: "global"},
		},
	}
}

func (m *memoryStore) Create(ctx context.Context, params storage.CreateLinkParams) (*domain.Link, error) {
	if params.Keyword != nil {
		for _, l := range m.links {
			if l.Keyword != nil && *l.Keyword == *params.Keyword && l.NamespaceID == params.NamespaceID {
				return nil, domain.ErrDuplicateKeyword
			}
		}
	}

	link := &domain.Link{
		ID:          m.nextID,
		URL:         params.URL,
		OwnerID:     params.OwnerID,
		NamespaceID: params.NamespaceID,
		Keyword:     params.Keyword,
		CreateTime:  time.Now().UTC(),
	}
	m.nextID++
	m.links[link.ID] = link
	return link, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	if link, ok := m.links[id]; ok {
		return link, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) GetByKeyword(ctx context.Context, keyword string, namespaceID int64) (*domain.Link, error) {
	for _, l := range m.links {
		if l.Keyword != nil && *l.Keyword == keyword && l.NamespaceID == namespaceID {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) KeywordExists(ctx context.Context, keyword string, namespaceID int64) (bool, error) {
	_, err := m.GetByKeyword(ctx, keyword, namespaceID)
	return err == nil, nil
}

func (m *memoryStore) ListByOwner(ctx context.Context, ownerID int64) ([]storage.OwnedLink, error) {
	owned := []storage.OwnedLink{}
	for _, l := range m.links {
		if l.OwnerID == ownerID {
			ns := m.namespaces[l.NamespaceID]
			owned = append(owned, storage.OwnedLink{Link: *l, NamespaceName: ns.Name})
		}
	}
	return owned, nil
}

func (m *memoryStore) UpdateURL(ctx context.Context, id int64, url string) error {
	link, ok := m.links[id]
	if !ok {
		return domain.ErrNotFound
	}
	link.URL = url
	return nil
}

func (m *memoryStore) RecordHit(ctx context.Context, id int64, at time.Time) error {
	link, ok := m.links[id]
	if !ok {
		return domain.ErrNotFound
	}
	link.Hit++
	link.LastUsed = &at
	return nil
}

func (m *memoryStore) GetByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	if owner, ok := m.owners[username]; ok {
		return owner, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) GetOrCreate(ctx context.Context, username string) (*domain.Owner, *domain.Permissions, error) {
	owner, ok := m.owners[username]
	if !ok {
		owner = &domain.Owner{ID: int64(len(m.owners) + 1), Username: username}
		m.owners[username] = owner
	}
	return owner, &domain.Permissions{OwnerID: owner.ID, Edit: true, Keyword: true}, nil
}

func (m *memoryStore) Permissions(ctx context.Context, ownerID int64) (*domain.Permissions, error) {
	return &domain.Permissions{OwnerID: ownerID, Edit: true, Keyword: true}, nil
}

func (m *memoryStore) GetByName(ctx context.Context, name string) (*domain.Namespace, error) {
	for _, ns := range m.namespaces {
		if ns.Name == name {
			return ns, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) GetByOwner(ctx context.Context, ownerID int64) (*domain.Namespace, error) {
	for _, ns := range m.namespaces {
		if ns.OwnerID != nil && *ns.OwnerID == ownerID {
			return ns, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) GetOrCreateForOwner(ctx context.Context, owner *domain.Owner) (*domain.Namespace, error) {
	if ns, err := m.GetByOwner(ctx, owner.ID); err == nil {
		return ns, nil
	}

	ownerID := owner.ID
	ns := &domain.Namespace{
		ID:      int64(len(m.namespaces) + 1),
		Name:    "~" + owner.Username,
		OwnerID: &ownerID,
	}
	m.namespaces[ns.ID] = ns
	return ns, nil
}

// namespaceView exposes the namespace side of memoryStore under a distinct
// method set, since LinkStore and NamespaceStore both declare GetByID.
type namespaceView struct{ *memoryStore }

func (v namespaceView) GetByID(ctx context.Context, id int64) (*domain.Namespace, error) {
	if ns, ok := v.namespaces[id]; ok {
		return ns, nil
	}
	return nil, domain.ErrNotFound
}

func newTestService(store *memoryStore) *shortener.Service {
	return shortener.New(store, namespaceView{store}, store, logger.NewNop(), nil)
}

func init() {
	gin.SetMode(gin.TestMode)
}
