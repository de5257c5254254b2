package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventMenuCreated             EventType = "menu.created"
	EventMenuUpdated             EventType = "menu.updated"
	EventMenuArchived            EventType = "menu.archived"
	EventMenuRestored            EventType = "menu.restored"
	EventMenuPublished           EventType = "menu.published"
	EventCategoryAdded           EventType = "category.added"
	EventCategoryUpdated         EventType = "category.updated"
	EventCategoryArchived        EventType = "category.archived"
	EventCategoryRestored        EventType = "category.restored"
	EventCategoryRemoved         EventType = "category.removed"
	EventCategoriesReordered     EventType = "category.reordered"
	EventItemAdded               EventType = "item.added"
	EventItemUpdated             EventType = "item.updated"
	EventItemRemoved             EventType = "item.removed"
	EventItemPriceChanged        EventType = "item.price_changed"
	EventItemAvailabilityChanged EventType = "item.availability_changed"
	EventItemsReordered          EventType = "item.reordered"
)

// Event is a fact raised by a Menu mutation. Mutators return the events they
// raised; nothing is buffered inside the aggregate.
type Event struct {
	Type       EventType   `json:"event_type"`
	TenantID   uuid.UUID   `json:"tenant_id"`
	MenuID     uuid.UUID   `json:"menu_id"`
	CategoryID uuid.UUID   `json:"category_id,omitempty"`
	ItemID     uuid.UUID   `json:"item_id,omitempty"`
	OldPrice   *Money      `json:"old_price,omitempty"`
	NewPrice   *Money      `json:"new_price,omitempty"`
	Available  *bool       `json:"available,omitempty"`
	Order      []uuid.UUID `json:"order,omitempty"`
	Version    int         `json:"version,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func (m *Menu) event(t EventType) Event {
	return Event{
		Type:       t,
		TenantID:   m.tenantID,
		MenuID:     m.id,
		OccurredAt: m.updatedAt,
	}
}
