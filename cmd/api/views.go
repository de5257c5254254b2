package main

import (
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
)

type MenuView struct {
	ID               uuid.UUID            `json:"id"`
	TenantID         uuid.UUID            `json:"tenant_id"`
	Name             domain.LocalizedText `json:"name"`
	Description      domain.LocalizedText `json:"description"`
	IsDefault        bool                 `json:"is_default"`
	IsArchived       bool                 `json:"is_archived"`
	PublishedVersion int                  `json:"published_version"`
	Revision         int64                `json:"revision"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Categories       []CategoryView       `json:"categories"`
}

type CategoryView struct {
	ID           uuid.UUID            `json:"id"`
	Name         domain.LocalizedText `json:"name"`
	Icon         string               `json:"icon,omitempty"`
	IsArchived   bool                 `json:"is_archived"`
	DisplayOrder int                  `json:"display_order"`
	Items        []ItemView           `json:"items"`
}

type ItemView struct {
	ID                  uuid.UUID                       `json:"id"`
	Name                domain.LocalizedText            `json:"name"`
	Description         domain.LocalizedText            `json:"description"`
	BasePrice           domain.Money                    `json:"base_price"`
	ChannelPrices       map[domain.Channel]domain.Money `json:"channel_prices,omitempty"`
	Tags                []domain.Tag                    `json:"tags"`
	Inventory           InventoryView                   `json:"inventory"`
	ImageURL            string                          `json:"image_url,omitempty"`
	IsAvailable         bool                            `json:"is_available"`
	ExplicitlyAvailable bool                            `json:"explicitly_available"`
	DisplayOrder        int                             `json:"display_order"`
}

type InventoryView struct {
	Mode             domain.InventoryMode `json:"mode"`
	Quantity         *int                 `json:"quantity,omitempty"`
	Threshold        *int                 `json:"threshold,omitempty"`
	IsBelowThreshold bool                 `json:"is_below_threshold"`
}

// newMenuView renders the management view, archived categories included.
func newMenuView(m *domain.Menu) MenuView {
	v := MenuView{
		ID:               m.ID(),
		TenantID:         m.TenantID(),
		Name:             m.Name(),
		Description:      m.Description(),
		IsDefault:        m.IsDefault(),
		IsArchived:       m.IsArchived(),
		PublishedVersion: m.PublishedVersion(),
		Revision:         m.Revision(),
		CreatedAt:        m.CreatedAt(),
		UpdatedAt:        m.UpdatedAt(),
		Categories:       []CategoryView{},
	}

	for _, c := range m.AllCategories() {
		cv := CategoryView{
			ID:           c.ID(),
			Name:         c.Name(),
			Icon:         c.Icon(),
			IsArchived:   c.IsArchived(),
			DisplayOrder: c.DisplayOrder(),
			Items:        []ItemView{},
		}
		for _, it := range c.Items() {
			cv.Items = append(cv.Items, newItemView(it))
		}
		v.Categories = append(v.Categories, cv)
	}

	return v
}

func newItemView(it *domain.MenuItem) ItemView {
	inv := it.Inventory()
	iv := InventoryView{
		Mode:             inv.Mode(),
		IsBelowThreshold: inv.IsBelowThreshold(),
	}
	if inv.IsTracked() {
		q := inv.Quantity()
		iv.Quantity = &q
		if t, ok := inv.Threshold(); ok {
			iv.Threshold = &t
		}
	}

	return ItemView{
		ID:                  it.ID(),
		Name:                it.Name(),
		Description:         it.Description(),
		BasePrice:           it.BasePrice(),
		ChannelPrices:       it.ChannelPrices(),
		Tags:                it.Tags(),
		Inventory:           iv,
		ImageURL:            it.ImageURL(),
		IsAvailable:         it.IsAvailable(),
		ExplicitlyAvailable: it.ExplicitlyAvailable(),
		DisplayOrder:        it.DisplayOrder(),
	}
}
