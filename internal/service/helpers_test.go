package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/publication"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/service"
	"github.com/Beka01247/kwaaka-menu/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	queue string
	body  []byte
}

// fakeBroker records every publish.
type fakeBroker struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (b *fakeBroker) Publish(_ context.Context, queueName string, message []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{queue: queueName, body: message})
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string, queue.MessageHandler) error { return nil }

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) on(queueName string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out [][]byte
	for _, m := range b.messages {
		if m.queue == queueName {
			out = append(out, m.body)
		}
	}
	return out
}

var errStoreDown = errors.New("store down")

// failingStore rejects every Save.
type failingStore struct {
	*memory.PublicationStore
}

func (failingStore) Save(context.Context, publication.PublishedMenu) error { return errStoreDown }

// cancellingStore writes the snapshot, then cancels the caller's context.
type cancellingStore struct {
	*memory.PublicationStore
	cancel context.CancelFunc
}

func (s cancellingStore) Save(ctx context.Context, snapshot publication.PublishedMenu) error {
	err := s.PublicationStore.Save(ctx, snapshot)
	s.cancel()
	return err
}

// cancellingEvents appends the records, then cancels the caller's context.
type cancellingEvents struct {
	*memory.MenuEventRepository
	cancel context.CancelFunc
}

func (r cancellingEvents) Append(ctx context.Context, records []domain.MenuEventRecord) error {
	err := r.MenuEventRepository.Append(ctx, records)
	r.cancel()
	return err
}

type harness struct {
	db         *memory.DB
	broker     *fakeBroker
	catalog    *service.CatalogService
	publishing *service.PublishingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := memory.New()
	broker := &fakeBroker{}
	logger := zap.NewNop().Sugar()
	return &harness{
		db:         db,
		broker:     broker,
		catalog:    service.NewCatalogService(db.Menus(), db.MenuEvents(), db, broker, logger),
		publishing: service.NewPublishingService(db.Menus(), db.Publications(), db.MenuEvents(), db, broker, logger),
	}
}

// seedMenu creates a menu with one category holding one tracked item.
func (h *harness) seedMenu(t *testing.T, tenantID uuid.UUID) (menuID, categoryID, itemID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	menu, err := h.catalog.CreateMenu(ctx, tenantID, domain.MustLocalizedText("Main", "en"), domain.LocalizedText{})
	require.NoError(t, err)

	_, err = h.catalog.Execute(ctx, tenantID, menu.ID(), func(m *domain.Menu) ([]domain.Event, error) {
		c, events, err := m.AddCategory(domain.MustLocalizedText("Kebabs", "en"), "", nil)
		if err != nil {
			return nil, err
		}
		inv, err := domain.TrackInventory(2, nil)
		if err != nil {
			return nil, err
		}
		it, more, err := m.AddItem(c.ID(), domain.NewItem{
			Name:      domain.MustLocalizedText("Adana", "en"),
			BasePrice: domain.MustMoney("12.50", "USD"),
			Inventory: &inv,
		})
		if err != nil {
			return nil, err
		}
		categoryID, itemID = c.ID(), it.ID()
		return append(events, more...), nil
	})
	require.NoError(t, err)
	return menu.ID(), categoryID, itemID
}
