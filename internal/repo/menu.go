package repo

import (
	"context"
	"errors"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConcurrentUpdate = errors.New("menu was modified concurrently")
)

// MenuRepository loads and saves the Menu aggregate. Update is optimistic:
// it fails with ErrConcurrentUpdate if the stored revision is not the one the
// menu was loaded at, and advances the menu's revision on success.
type MenuRepository interface {
	GetByID(ctx context.Context, tenantID, menuID uuid.UUID) (*domain.Menu, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Menu, error)
	Add(ctx context.Context, menu *domain.Menu) error
	Update(ctx context.Context, menu *domain.Menu) error
}
