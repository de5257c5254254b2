package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
	"go.uber.org/zap"
)

// eventRecorder appends domain events to the menu event log inside the
// caller's transaction and, once committed, fans them out on menu-events.
type eventRecorder struct {
	eventRepo repo.MenuEventRepository
	broker    queue.Broker
	logger    *zap.SugaredLogger
}

func (r eventRecorder) record(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]domain.MenuEventRecord, 0, len(events))
	for _, ev := range events {
		rec, err := domain.NewMenuEventRecord(ev)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if err := r.eventRepo.Append(ctx, records); err != nil {
		return fmt.Errorf("failed to record menu events: %w", err)
	}
	return nil
}

// dispatch is best effort: the event log already holds every event.
func (r eventRecorder) dispatch(ctx context.Context, events []domain.Event) {
	if r.broker == nil {
		return
	}
	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			r.logger.Errorw("failed to marshal menu event", "event_type", ev.Type, "error", err)
			continue
		}
		if err := r.broker.Publish(ctx, queue.QueueMenuEvents, body); err != nil {
			r.logger.Warnw("failed to dispatch menu event", "event_type", ev.Type, "menu_id", ev.MenuID, "error", err)
		}
	}
}
