// Package publication turns a live Menu into an immutable, denormalized
// snapshot that public readers query instead of the aggregate.
package publication

import (
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PublishedMenu struct {
	TenantID       uuid.UUID           `json:"tenantId"`
	MenuID         uuid.UUID           `json:"menuId"`
	Version        int                 `json:"version"`
	Name           map[string]string   `json:"name"`
	Description    map[string]string   `json:"description,omitempty"`
	PublishedAtUTC time.Time           `json:"publishedAtUtc"`
	Categories     []PublishedCategory `json:"categories"`
}

type PublishedCategory struct {
	CategoryID   uuid.UUID         `json:"categoryId"`
	Name         map[string]string `json:"name"`
	IconURL      *string           `json:"iconUrl,omitempty"`
	DisplayOrder int               `json:"displayOrder"`
	Items        []PublishedItem   `json:"items"`
}

type PublishedItem struct {
	ItemID        uuid.UUID                  `json:"itemId"`
	Name          map[string]string          `json:"name"`
	Description   map[string]string          `json:"description,omitempty"`
	BasePrice     decimal.Decimal            `json:"basePrice"`
	Currency      string                     `json:"currency"`
	IsAvailable   bool                       `json:"isAvailable"`
	Inventory     PublishedInventory         `json:"inventory"`
	ImageURL      *string                    `json:"imageUrl,omitempty"`
	DisplayOrder  int                        `json:"displayOrder"`
	ChannelPrices map[string]decimal.Decimal `json:"channelPrices"`
	Tags          []string                   `json:"tags"`
}

type PublishedInventory struct {
	Mode             string `json:"mode"`
	Quantity         *int   `json:"quantity,omitempty"`
	Threshold        *int   `json:"threshold,omitempty"`
	IsBelowThreshold bool   `json:"isBelowThreshold"`
}

// BuildSnapshot copies the menu's active categories and their items, in
// display order, into a tree that shares no state with the aggregate. The
// snapshot carries the menu's current PublishedVersion.
func BuildSnapshot(menu *domain.Menu, publishedAt time.Time) PublishedMenu {
	snap := PublishedMenu{
		TenantID:       menu.TenantID(),
		MenuID:         menu.ID(),
		Version:        menu.PublishedVersion(),
		Name:           menu.Name().Map(),
		Description:    optionalText(menu.Description()),
		PublishedAtUTC: publishedAt.UTC(),
		Categories:     []PublishedCategory{},
	}

	for _, c := range menu.Categories() {
		pc := PublishedCategory{
			CategoryID:   c.ID(),
			Name:         c.Name().Map(),
			IconURL:      optionalString(c.Icon()),
			DisplayOrder: c.DisplayOrder(),
			Items:        []PublishedItem{},
		}
		for _, it := range c.Items() {
			pc.Items = append(pc.Items, buildItem(it))
		}
		snap.Categories = append(snap.Categories, pc)
	}
	return snap
}

func buildItem(it *domain.MenuItem) PublishedItem {
	channelPrices := make(map[string]decimal.Decimal)
	for ch, price := range it.ChannelPrices() {
		channelPrices[ch.String()] = canonicalAmount(price.Amount())
	}

	tags := make([]string, 0)
	for _, t := range it.Tags() {
		tags = append(tags, t.String())
	}

	return PublishedItem{
		ItemID:        it.ID(),
		Name:          it.Name().Map(),
		Description:   optionalText(it.Description()),
		BasePrice:     canonicalAmount(it.BasePrice().Amount()),
		Currency:      it.BasePrice().Currency(),
		IsAvailable:   it.IsAvailable(),
		Inventory:     buildInventory(it.Inventory()),
		ImageURL:      optionalString(it.ImageURL()),
		DisplayOrder:  it.DisplayOrder(),
		ChannelPrices: channelPrices,
		Tags:          tags,
	}
}

func buildInventory(inv domain.InventoryState) PublishedInventory {
	out := PublishedInventory{
		Mode:             inv.Mode().String(),
		IsBelowThreshold: inv.IsBelowThreshold(),
	}
	if inv.IsTracked() {
		q := inv.Quantity()
		out.Quantity = &q
		if t, ok := inv.Threshold(); ok {
			out.Threshold = &t
		}
	}
	return out
}

// canonicalAmount gives amounts the representation they decode to, so a
// snapshot survives a JSON round trip unchanged.
func canonicalAmount(d decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(d.String())
}

func optionalText(t domain.LocalizedText) map[string]string {
	if t.IsZero() {
		return nil
	}
	return t.Map()
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Key identifies a snapshot in the publication store.
type Key struct {
	TenantID uuid.UUID
	MenuID   uuid.UUID
	Version  int
}

func (p PublishedMenu) Key() Key {
	return Key{TenantID: p.TenantID, MenuID: p.MenuID, Version: p.Version}
}

// Newer orders snapshots by publish time, then by version.
func (p PublishedMenu) Newer(other PublishedMenu) bool {
	if !p.PublishedAtUTC.Equal(other.PublishedAtUTC) {
		return p.PublishedAtUTC.After(other.PublishedAtUTC)
	}
	return p.Version > other.Version
}
