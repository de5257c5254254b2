package queue

import (
	"context"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueMenuPublish     = "menu-publish"
	QueueInventoryAdjust = "inventory-adjust"
	QueueMenuImport      = "menu-import"
	QueueMenuEvents      = "menu-events"

	dlqSuffix = "-dlq"
)

// Queues lists every work queue; each has a dead-letter twin.
var Queues = []string{
	QueueMenuPublish,
	QueueInventoryAdjust,
	QueueMenuImport,
	QueueMenuEvents,
}

func DeadLetterQueue(queueName string) string {
	return queueName + dlqSuffix
}
