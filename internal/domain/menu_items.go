package domain

import (
	"math"

	"github.com/google/uuid"
)

// activeItem resolves category then item for a mutation, applying the menu
// and category archive gates.
func (m *Menu) activeItem(categoryID, itemID uuid.UUID) (*MenuCategory, *MenuItem, error) {
	if err := m.ensureActive(); err != nil {
		return nil, nil, err
	}
	c, err := m.Category(categoryID)
	if err != nil {
		return nil, nil, err
	}
	it, err := c.activeItem(itemID)
	if err != nil {
		return nil, nil, err
	}
	return c, it, nil
}

func (m *Menu) itemEvent(t EventType, categoryID, itemID uuid.UUID) Event {
	ev := m.event(t)
	ev.CategoryID = categoryID
	ev.ItemID = itemID
	return ev
}

func (m *Menu) availabilityEvent(categoryID uuid.UUID, it *MenuItem) Event {
	ev := m.itemEvent(EventItemAvailabilityChanged, categoryID, it.id)
	available := it.isAvailable
	ev.Available = &available
	return ev
}

// AddItem appends an item to the category with the next display order.
func (m *Menu) AddItem(categoryID uuid.UUID, in NewItem) (*MenuItem, []Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, nil, err
	}
	c, err := m.Category(categoryID)
	if err != nil {
		return nil, nil, err
	}
	it, err := c.addItem(in)
	if err != nil {
		return nil, nil, err
	}
	m.touch()
	return it, []Event{m.itemEvent(EventItemAdded, categoryID, it.id)}, nil
}

func (m *Menu) RemoveItem(categoryID, itemID uuid.UUID) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	c, err := m.Category(categoryID)
	if err != nil {
		return nil, err
	}
	if err := c.removeItem(itemID); err != nil {
		return nil, err
	}
	m.touch()
	return []Event{m.itemEvent(EventItemRemoved, categoryID, itemID)}, nil
}

func (m *Menu) UpdateItemDetails(categoryID, itemID uuid.UUID, name, description LocalizedText, imageURL string) ([]Event, error) {
	_, it, err := m.activeItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}
	if err := it.updateDetails(name, description, imageURL); err != nil {
		return nil, err
	}
	m.touch()
	return []Event{m.itemEvent(EventItemUpdated, categoryID, itemID)}, nil
}

func (m *Menu) UpdateItemPricing(categoryID, itemID uuid.UUID, basePrice Money, channelPrices map[Channel]Money) ([]Event, error) {
	_, it, err := m.activeItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}
	old := it.basePrice
	changed, err := it.updatePricing(basePrice, channelPrices)
	if err != nil {
		return nil, err
	}
	m.touch()

	events := []Event{m.itemEvent(EventItemUpdated, categoryID, itemID)}
	if changed {
		ev := m.itemEvent(EventItemPriceChanged, categoryID, itemID)
		newPrice := it.basePrice
		ev.OldPrice = &old
		ev.NewPrice = &newPrice
		events = append(events, ev)
	}
	return events, nil
}

func (m *Menu) UpdateItemTags(categoryID, itemID uuid.UUID, tags []Tag) ([]Event, error) {
	_, it, err := m.activeItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}
	if err := it.updateTags(tags); err != nil {
		return nil, err
	}
	m.touch()
	return []Event{m.itemEvent(EventItemUpdated, categoryID, itemID)}, nil
}

// UpdateItemAvailability sets the merchant's explicit flag. The item stays
// unavailable while its inventory is exhausted.
func (m *Menu) UpdateItemAvailability(categoryID, itemID uuid.UUID, available bool) ([]Event, error) {
	_, it, err := m.activeItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}
	flipped := it.setExplicitAvailability(available)
	m.touch()

	events := []Event{m.itemEvent(EventItemUpdated, categoryID, itemID)}
	if flipped {
		events = append(events, m.availabilityEvent(categoryID, it))
	}
	return events, nil
}

func (m *Menu) UpdateItemInventory(categoryID, itemID uuid.UUID, inv InventoryState) ([]Event, error) {
	_, it, err := m.activeItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}
	flipped := it.setInventory(inv)
	m.touch()

	events := []Event{m.itemEvent(EventItemUpdated, categoryID, itemID)}
	if flipped {
		events = append(events, m.availabilityEvent(categoryID, it))
	}
	return events, nil
}

// AdjustInventory applies a stock movement. A zero delta or an infinite
// inventory is a no-op and raises nothing.
func (m *Menu) AdjustInventory(categoryID, itemID uuid.UUID, delta int) ([]Event, error) {
	_, it, err := m.activeItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}
	if delta == 0 || !it.inventory.IsTracked() {
		return nil, nil
	}
	if delta == math.MinInt {
		return nil, newValidation("delta_out_of_range", "inventory delta %d is out of range", delta)
	}

	var next InventoryState
	if delta > 0 {
		next, err = it.inventory.Increase(delta)
	} else {
		next, err = it.inventory.Decrease(-delta)
	}
	if err != nil {
		return nil, err
	}

	flipped := it.setInventory(next)
	m.touch()
	if !flipped {
		return nil, nil
	}
	return []Event{m.availabilityEvent(categoryID, it)}, nil
}

func (m *Menu) ReorderMenuItems(categoryID uuid.UUID, ids []uuid.UUID) ([]Event, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}
	c, err := m.Category(categoryID)
	if err != nil {
		return nil, err
	}
	if err := c.reorderItems(ids); err != nil {
		return nil, err
	}
	m.touch()

	ev := m.event(EventItemsReordered)
	ev.CategoryID = categoryID
	ev.Order = append([]uuid.UUID(nil), ids...)
	return []Event{ev}, nil
}
