package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/publication"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PublishingService struct {
	menuRepo repo.MenuRepository
	store    repo.PublicationStore
	tx       repo.Transactor
	broker   queue.Broker
	events   eventRecorder
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewPublishingService(
	menuRepo repo.MenuRepository,
	store repo.PublicationStore,
	eventRepo repo.MenuEventRepository,
	tx repo.Transactor,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *PublishingService {
	return &PublishingService{
		menuRepo: menuRepo,
		store:    store,
		tx:       tx,
		broker:   broker,
		events:   eventRecorder{eventRepo: eventRepo, broker: broker, logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

// Publish bumps the menu's version and stores the matching snapshot. The
// snapshot write and the menu update commit together; if either fails the
// version bump is discarded with the loaded menu.
func (s *PublishingService) Publish(ctx context.Context, tenantID, menuID uuid.UUID) (*publication.PublishedMenu, error) {
	var (
		snapshot publication.PublishedMenu
		events   []domain.Event
		err      error
	)

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			menu, err := s.menuRepo.GetByID(ctx, tenantID, menuID)
			if err != nil {
				return fmt.Errorf("failed to load menu: %w", err)
			}

			_, raised, err := menu.PublishNextVersion()
			if err != nil {
				return err
			}

			// stored timestamps keep millisecond precision
			snap := publication.BuildSnapshot(menu, s.now().UTC().Truncate(time.Millisecond))

			if err := s.store.Save(ctx, snap); err != nil {
				return fmt.Errorf("failed to save published menu: %w", err)
			}
			if err := s.menuRepo.Update(ctx, menu); err != nil {
				return fmt.Errorf("failed to save menu: %w", err)
			}
			if err := s.events.record(ctx, raised); err != nil {
				return err
			}

			snapshot, events = snap, raised
			return nil
		})
		if !errors.Is(err, repo.ErrConcurrentUpdate) {
			break
		}
		s.logger.Warnw("menu changed during publish, retrying", "tenant_id", tenantID, "menu_id", menuID, "attempt", attempt+1)
	}
	if err != nil {
		s.logger.Errorw("failed to publish menu", "tenant_id", tenantID, "menu_id", menuID, "error", err)
		return nil, err
	}

	s.events.dispatch(ctx, events)
	s.logger.Infow("menu published", "tenant_id", tenantID, "menu_id", menuID, "version", snapshot.Version)

	return &snapshot, nil
}

// RequestPublish queues a publish for the publish worker.
func (s *PublishingService) RequestPublish(ctx context.Context, tenantID, menuID uuid.UUID, requestedBy string) error {
	message := domain.PublishRequestMessage{
		TenantID:    tenantID.String(),
		MenuID:      menuID.String(),
		RequestedBy: requestedBy,
		RequestedAt: s.now().UTC(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueMenuPublish, body); err != nil {
		s.logger.Errorw("failed to queue publish", "tenant_id", tenantID, "menu_id", menuID, "error", err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("menu publish queued", "tenant_id", tenantID, "menu_id", menuID, "requested_by", requestedBy)
	return nil
}

// Latest returns the newest snapshot for the tenant, or for one of its menus
// when menuID is set. It returns nil when nothing has been published.
func (s *PublishingService) Latest(ctx context.Context, tenantID uuid.UUID, menuID *uuid.UUID) (*publication.PublishedMenu, error) {
	snap, err := s.store.GetLatest(ctx, tenantID, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest published menu: %w", err)
	}
	return snap, nil
}

func (s *PublishingService) Version(ctx context.Context, tenantID, menuID uuid.UUID, version int) (*publication.PublishedMenu, error) {
	snap, err := s.store.GetVersion(ctx, tenantID, menuID, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get published menu version: %w", err)
	}
	return snap, nil
}
