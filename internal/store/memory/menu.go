package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"github.com/google/uuid"
)

type MenuRepository struct {
	db *DB
}

func (r *MenuRepository) GetByID(ctx context.Context, tenantID, menuID uuid.UUID) (*domain.Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	state, ok := r.db.menus[menuKey{tenantID: tenantID, menuID: menuID}]
	r.db.mu.RUnlock()
	if !ok {
		return nil, repo.ErrNotFound
	}

	menu, err := domain.RehydrateMenu(state)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	return menu, nil
}

func (r *MenuRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	var states []domain.MenuState
	for k, s := range r.db.menus {
		if k.tenantID == tenantID {
			states = append(states, s)
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(states, func(i, j int) bool { return states[i].CreatedAt.Before(states[j].CreatedAt) })

	menus := make([]*domain.Menu, 0, len(states))
	for _, s := range states {
		m, err := domain.RehydrateMenu(s)
		if err != nil {
			return nil, fmt.Errorf("failed to load menu: %w", err)
		}
		menus = append(menus, m)
	}
	return menus, nil
}

func (r *MenuRepository) Add(ctx context.Context, menu *domain.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := menuKey{tenantID: menu.TenantID(), menuID: menu.ID()}
	if _, exists := r.db.menus[key]; exists {
		return fmt.Errorf("menu %s already exists", menu.ID())
	}
	state := menu.State()
	state.Revision = 1
	r.db.menus[key] = state
	r.db.onRollback(ctx, func() { delete(r.db.menus, key) })
	menu.SetRevision(1)
	return nil
}

func (r *MenuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := menuKey{tenantID: menu.TenantID(), menuID: menu.ID()}
	stored, ok := r.db.menus[key]
	if !ok {
		return repo.ErrNotFound
	}
	if stored.Revision != menu.Revision() {
		return repo.ErrConcurrentUpdate
	}
	state := menu.State()
	state.Revision = menu.Revision() + 1
	r.db.menus[key] = state
	r.db.onRollback(ctx, func() { r.db.menus[key] = stored })
	menu.SetRevision(state.Revision)
	return nil
}
