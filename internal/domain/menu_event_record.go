package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuEventRecord is the audit-log form of an Event.
type MenuEventRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   string             `bson:"tenant_id" json:"tenant_id"`
	MenuID     string             `bson:"menu_id" json:"menu_id"`
	EventType  string             `bson:"event_type" json:"event_type"`
	CategoryID string             `bson:"category_id,omitempty" json:"category_id,omitempty"`
	ItemID     string             `bson:"item_id,omitempty" json:"item_id,omitempty"`
	Version    int                `bson:"version,omitempty" json:"version,omitempty"`
	Payload    string             `bson:"payload" json:"payload"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

func NewMenuEventRecord(ev Event) (MenuEventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return MenuEventRecord{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	rec := MenuEventRecord{
		TenantID:  ev.TenantID.String(),
		MenuID:    ev.MenuID.String(),
		EventType: string(ev.Type),
		Version:   ev.Version,
		Payload:   string(payload),
		Timestamp: ev.OccurredAt,
	}
	if ev.CategoryID != uuid.Nil {
		rec.CategoryID = ev.CategoryID.String()
	}
	if ev.ItemID != uuid.Nil {
		rec.ItemID = ev.ItemID.String()
	}
	return rec, nil
}
