package repo

import (
	"context"

	"github.com/Beka01247/kwaaka-menu/internal/publication"
	"github.com/google/uuid"
)

// PublicationStore keeps every published snapshot, keyed by
// (tenant, menu, version). Lookups that find nothing return nil, nil.
type PublicationStore interface {
	// Save replaces any snapshot stored under the same key.
	Save(ctx context.Context, snapshot publication.PublishedMenu) error
	// GetLatest returns the newest snapshot by (published at, version). A nil
	// menuID searches across all of the tenant's menus.
	GetLatest(ctx context.Context, tenantID uuid.UUID, menuID *uuid.UUID) (*publication.PublishedMenu, error)
	GetVersion(ctx context.Context, tenantID, menuID uuid.UUID, version int) (*publication.PublishedMenu, error)
}
