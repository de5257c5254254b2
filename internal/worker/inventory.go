package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryWorker applies stock movements reported by points of sale.
type InventoryWorker struct {
	catalogService *service.CatalogService
	broker         queue.Broker
	logger         *zap.SugaredLogger
	ctx            context.Context
	cancel         context.CancelFunc
}

func NewInventoryWorker(
	catalogService *service.CatalogService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *InventoryWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &InventoryWorker{
		catalogService: catalogService,
		broker:         broker,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (w *InventoryWorker) Start() error {
	w.logger.Info("starting inventory worker")

	return w.broker.Subscribe(w.ctx, queue.QueueInventoryAdjust, w.handleMessage)
}

func (w *InventoryWorker) Stop() {
	w.logger.Info("stopping inventory worker")
	w.cancel()
}

func (w *InventoryWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.InventoryAdjustmentMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	ids, err := parseIDs(msg.TenantID, msg.MenuID, msg.CategoryID, msg.ItemID)
	if err != nil {
		w.logger.Errorw("invalid inventory adjustment", "item_id", msg.ItemID, "error", err)
		return err
	}

	w.logger.Infow("processing inventory adjustment", "item_id", msg.ItemID, "delta", msg.Delta, "reason", msg.Reason)

	_, err = w.catalogService.AdjustInventory(ctx, ids[0], ids[1], ids[2], ids[3], msg.Delta)
	if err != nil {
		if permanent(err) {
			w.logger.Warnw("inventory adjustment rejected", "item_id", msg.ItemID, "delta", msg.Delta, "error", err)
			return nil
		}
		return err
	}

	return nil
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
