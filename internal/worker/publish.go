package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/service"
	"go.uber.org/zap"
)

type PublishWorker struct {
	publishingService *service.PublishingService
	broker            queue.Broker
	logger            *zap.SugaredLogger
	ctx               context.Context
	cancel            context.CancelFunc
}

func NewPublishWorker(
	publishingService *service.PublishingService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *PublishWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &PublishWorker{
		publishingService: publishingService,
		broker:            broker,
		logger:            logger,
		ctx:               ctx,
		cancel:            cancel,
	}
}

func (w *PublishWorker) Start() error {
	w.logger.Info("starting publish worker")

	return w.broker.Subscribe(w.ctx, queue.QueueMenuPublish, w.handleMessage)
}

func (w *PublishWorker) Stop() {
	w.logger.Info("stopping publish worker")
	w.cancel()
}

func (w *PublishWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.PublishRequestMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	ids, err := parseIDs(msg.TenantID, msg.MenuID)
	if err != nil {
		w.logger.Errorw("invalid publish request", "menu_id", msg.MenuID, "error", err)
		return err
	}

	w.logger.Infow("processing publish request", "menu_id", msg.MenuID, "requested_by", msg.RequestedBy)

	if _, err := w.publishingService.Publish(ctx, ids[0], ids[1]); err != nil {
		if permanent(err) {
			w.logger.Warnw("publish request rejected", "menu_id", msg.MenuID, "error", err)
			return nil
		}
		return err
	}

	return nil
}
