package domain

import (
	"time"

	"github.com/google/uuid"
)

// MenuState is the flat, persistable form of a Menu. Repositories convert it
// to and from their own documents; RehydrateMenu re-checks the invariants.
type MenuState struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	Name             LocalizedText
	Description      LocalizedText
	IsDefault        bool
	IsArchived       bool
	PublishedVersion int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Revision         int64
	Categories       []CategoryState
}

type CategoryState struct {
	ID           uuid.UUID
	Name         LocalizedText
	Icon         string
	IsArchived   bool
	DisplayOrder int
	Items        []ItemState
}

// ItemState has no availability field: it is always derived on load.
type ItemState struct {
	ID                  uuid.UUID
	Name                LocalizedText
	Description         LocalizedText
	BasePrice           Money
	ChannelPrices       map[Channel]Money
	Tags                []Tag
	Inventory           InventoryState
	ImageURL            string
	ExplicitlyAvailable bool
	DisplayOrder        int
}

// RestoreTrackedInventory rebuilds a tracked inventory from storage. Unlike
// TrackInventory it accepts a quantity that has fallen below the threshold.
func RestoreTrackedInventory(quantity int, threshold *int) (InventoryState, error) {
	if quantity < 0 {
		return InventoryState{}, newInvariant("negative_quantity", "stored inventory quantity %d is negative", quantity)
	}
	s := InventoryState{mode: InventoryTrack, quantity: quantity}
	if threshold != nil {
		if *threshold < 0 {
			return InventoryState{}, newInvariant("negative_threshold", "stored inventory threshold %d is negative", *threshold)
		}
		s.threshold = *threshold
		s.hasThreshold = true
	}
	return s, nil
}

func (m *Menu) State() MenuState {
	s := MenuState{
		ID:               m.id,
		TenantID:         m.tenantID,
		Name:             m.name,
		Description:      m.description,
		IsDefault:        m.isDefault,
		IsArchived:       m.isArchived,
		PublishedVersion: m.publishedVersion,
		CreatedAt:        m.createdAt,
		UpdatedAt:        m.updatedAt,
		Revision:         m.revision,
	}
	for _, c := range m.AllCategories() {
		cs := CategoryState{
			ID:           c.id,
			Name:         c.name,
			Icon:         c.icon,
			IsArchived:   c.isArchived,
			DisplayOrder: c.displayOrder,
		}
		for _, it := range c.Items() {
			cs.Items = append(cs.Items, ItemState{
				ID:                  it.id,
				Name:                it.name,
				Description:         it.description,
				BasePrice:           it.basePrice,
				ChannelPrices:       it.ChannelPrices(),
				Tags:                it.Tags(),
				Inventory:           it.inventory,
				ImageURL:            it.imageURL,
				ExplicitlyAvailable: it.explicitAvailable,
				DisplayOrder:        it.displayOrder,
			})
		}
		s.Categories = append(s.Categories, cs)
	}
	return s
}

// RehydrateMenu rebuilds an aggregate from stored state. Corrupt state
// (duplicate ids or display orders, missing names) is an invariant error.
func RehydrateMenu(s MenuState) (*Menu, error) {
	if s.ID == uuid.Nil || s.TenantID == uuid.Nil {
		return nil, newInvariant("corrupt_menu", "stored menu is missing its identity")
	}
	if s.Name.IsZero() {
		return nil, newInvariant("corrupt_menu", "stored menu %s has no name", s.ID)
	}
	if s.PublishedVersion < 0 {
		return nil, newInvariant("corrupt_menu", "stored menu %s has a negative version", s.ID)
	}

	m := &Menu{
		id:               s.ID,
		tenantID:         s.TenantID,
		name:             s.Name,
		description:      s.Description,
		isDefault:        s.IsDefault,
		isArchived:       s.IsArchived,
		publishedVersion: s.PublishedVersion,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		revision:         s.Revision,
		categories:       make(map[uuid.UUID]*MenuCategory, len(s.Categories)),
	}

	categoryOrders := make(map[int]struct{}, len(s.Categories))
	for _, cs := range s.Categories {
		if _, dup := m.categories[cs.ID]; dup {
			return nil, newInvariant("corrupt_menu", "duplicate category %s", cs.ID)
		}
		if _, dup := categoryOrders[cs.DisplayOrder]; dup {
			return nil, newInvariant("corrupt_menu", "duplicate category display order %d", cs.DisplayOrder)
		}
		if err := validateCategoryFields(cs.Name, cs.Icon, cs.DisplayOrder); err != nil {
			return nil, newInvariant("corrupt_menu", "category %s: %s", cs.ID, err)
		}
		categoryOrders[cs.DisplayOrder] = struct{}{}

		c := &MenuCategory{
			id:           cs.ID,
			name:         cs.Name,
			icon:         cs.Icon,
			isArchived:   cs.IsArchived,
			displayOrder: cs.DisplayOrder,
			items:        make(map[uuid.UUID]*MenuItem, len(cs.Items)),
		}
		itemOrders := make(map[int]struct{}, len(cs.Items))
		for _, is := range cs.Items {
			if _, dup := c.items[is.ID]; dup {
				return nil, newInvariant("corrupt_menu", "duplicate item %s", is.ID)
			}
			if _, dup := itemOrders[is.DisplayOrder]; dup || is.DisplayOrder < 0 {
				return nil, newInvariant("corrupt_menu", "invalid item display order %d in category %s", is.DisplayOrder, cs.ID)
			}
			itemOrders[is.DisplayOrder] = struct{}{}

			it, err := rehydrateItem(is)
			if err != nil {
				return nil, err
			}
			c.items[it.id] = it
		}
		m.categories[c.id] = c
	}
	return m, nil
}

func rehydrateItem(s ItemState) (*MenuItem, error) {
	if s.Name.IsZero() {
		return nil, newInvariant("corrupt_menu", "stored item %s has no name", s.ID)
	}
	prices, err := validatePricing(s.BasePrice, s.ChannelPrices)
	if err != nil {
		return nil, newInvariant("corrupt_menu", "item %s: %s", s.ID, err)
	}
	tags, err := normalizeTags(s.Tags)
	if err != nil {
		return nil, newInvariant("corrupt_menu", "item %s: %s", s.ID, err)
	}
	inv := s.Inventory
	if inv.mode == 0 {
		inv = InfiniteInventory()
	}
	it := &MenuItem{
		id:                s.ID,
		name:              s.Name,
		description:       s.Description,
		basePrice:         s.BasePrice,
		channelPrices:     prices,
		tags:              tags,
		inventory:         inv,
		imageURL:          s.ImageURL,
		explicitAvailable: s.ExplicitlyAvailable,
		displayOrder:      s.DisplayOrder,
	}
	it.recomputeAvailability()
	return it, nil
}
