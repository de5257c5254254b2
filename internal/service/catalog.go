package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxConflictRetries bounds how often a command is replayed on a fresh copy
// of the menu after losing an optimistic concurrency race.
const maxConflictRetries = 3

// MenuCommand mutates a loaded menu through its public API.
type MenuCommand func(menu *domain.Menu) ([]domain.Event, error)

type CatalogService struct {
	menuRepo repo.MenuRepository
	tx       repo.Transactor
	broker   queue.Broker
	events   eventRecorder
	logger   *zap.SugaredLogger
}

func NewCatalogService(
	menuRepo repo.MenuRepository,
	eventRepo repo.MenuEventRepository,
	tx repo.Transactor,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *CatalogService {
	return &CatalogService{
		menuRepo: menuRepo,
		tx:       tx,
		broker:   broker,
		events:   eventRecorder{eventRepo: eventRepo, broker: broker, logger: logger},
		logger:   logger,
	}
}

func (s *CatalogService) CreateMenu(ctx context.Context, tenantID uuid.UUID, name, description domain.LocalizedText) (*domain.Menu, error) {
	menu, events, err := domain.NewMenu(tenantID, name, description)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.menuRepo.Add(ctx, menu); err != nil {
			return fmt.Errorf("failed to save menu: %w", err)
		}
		return s.events.record(ctx, events)
	})
	if err != nil {
		s.logger.Errorw("failed to create menu", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	s.events.dispatch(ctx, events)
	s.logger.Infow("menu created", "tenant_id", tenantID, "menu_id", menu.ID())

	return menu, nil
}

func (s *CatalogService) GetMenu(ctx context.Context, tenantID, menuID uuid.UUID) (*domain.Menu, error) {
	menu, err := s.menuRepo.GetByID(ctx, tenantID, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return menu, nil
}

func (s *CatalogService) ListMenus(ctx context.Context, tenantID uuid.UUID) ([]*domain.Menu, error) {
	menus, err := s.menuRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return menus, nil
}

// Execute loads the menu, applies cmd and persists the result together with
// its events. A failing command leaves storage untouched. Lost races are
// retried against a freshly loaded menu.
func (s *CatalogService) Execute(ctx context.Context, tenantID, menuID uuid.UUID, cmd MenuCommand) (*domain.Menu, error) {
	var (
		menu   *domain.Menu
		events []domain.Event
		err    error
	)

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			loaded, err := s.menuRepo.GetByID(ctx, tenantID, menuID)
			if err != nil {
				return fmt.Errorf("failed to load menu: %w", err)
			}

			raised, err := cmd(loaded)
			if err != nil {
				return err
			}

			if err := s.menuRepo.Update(ctx, loaded); err != nil {
				return fmt.Errorf("failed to save menu: %w", err)
			}
			if err := s.events.record(ctx, raised); err != nil {
				return err
			}

			menu, events = loaded, raised
			return nil
		})
		if !errors.Is(err, repo.ErrConcurrentUpdate) {
			break
		}
		s.logger.Warnw("menu changed concurrently, retrying", "tenant_id", tenantID, "menu_id", menuID, "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	s.events.dispatch(ctx, events)
	return menu, nil
}

func (s *CatalogService) AdjustInventory(ctx context.Context, tenantID, menuID, categoryID, itemID uuid.UUID, delta int) (*domain.Menu, error) {
	menu, err := s.Execute(ctx, tenantID, menuID, func(m *domain.Menu) ([]domain.Event, error) {
		return m.AdjustInventory(categoryID, itemID, delta)
	})
	if err != nil {
		s.logger.Errorw("failed to adjust inventory", "menu_id", menuID, "item_id", itemID, "delta", delta, "error", err)
		return nil, err
	}

	s.logger.Infow("inventory adjusted", "menu_id", menuID, "item_id", itemID, "delta", delta)
	return menu, nil
}

// RequestInventoryAdjustment queues a stock movement for the inventory worker.
func (s *CatalogService) RequestInventoryAdjustment(ctx context.Context, msg domain.InventoryAdjustmentMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueInventoryAdjust, body); err != nil {
		s.logger.Errorw("failed to queue inventory adjustment", "item_id", msg.ItemID, "error", err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("inventory adjustment queued", "item_id", msg.ItemID, "delta", msg.Delta)
	return nil
}

func (s *CatalogService) MenuEvents(ctx context.Context, tenantID, menuID uuid.UUID, limit int) ([]domain.MenuEventRecord, error) {
	records, err := s.events.eventRepo.GetByMenuID(ctx, tenantID.String(), menuID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu events: %w", err)
	}
	return records, nil
}
