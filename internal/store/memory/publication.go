package memory

import (
	"context"
	"sort"

	"github.com/Beka01247/kwaaka-menu/internal/publication"
	"github.com/google/uuid"
)

// PublicationStore keeps snapshots in their encoded form so readers never
// share memory with the publisher.
type PublicationStore struct {
	db *DB
}

func (s *PublicationStore) Save(ctx context.Context, snapshot publication.PublishedMenu) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := publication.Marshal(snapshot)
	if err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	key := snapshot.Key()
	prev, existed := s.db.publications[key]
	s.db.publications[key] = data
	s.db.onRollback(ctx, func() {
		if existed {
			s.db.publications[key] = prev
			return
		}
		delete(s.db.publications, key)
	})
	return nil
}

func (s *PublicationStore) GetLatest(ctx context.Context, tenantID uuid.UUID, menuID *uuid.UUID) (*publication.PublishedMenu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var latest *publication.PublishedMenu
	for key, data := range s.db.publications {
		if key.TenantID != tenantID || (menuID != nil && key.MenuID != *menuID) {
			continue
		}
		p, err := publication.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		if latest == nil || p.Newer(*latest) {
			latest = &p
		}
	}
	return latest, nil
}

func (s *PublicationStore) GetVersion(ctx context.Context, tenantID, menuID uuid.UUID, version int) (*publication.PublishedMenu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	data, ok := s.db.publications[publication.Key{TenantID: tenantID, MenuID: menuID, Version: version}]
	s.db.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	p, err := publication.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Versions lists the stored versions of one menu in ascending order.
func (s *PublicationStore) Versions(tenantID, menuID uuid.UUID) []int {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []int
	for key := range s.db.publications {
		if key.TenantID == tenantID && key.MenuID == menuID {
			out = append(out, key.Version)
		}
	}
	sort.Ints(out)
	return out
}
