package domain_test

import (
	"testing"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	archived := addCategory(t, menu, "Old")
	_, err := menu.ArchiveCategory(archived.ID())
	require.NoError(t, err)

	inv, err := domain.TrackInventory(0, intPtr(0))
	require.NoError(t, err)
	item, _, err := menu.AddItem(cat.ID(), domain.NewItem{
		Name:          domain.MustLocalizedText("Kebab", "en"),
		BasePrice:     domain.MustMoney("420000", "IRR"),
		ChannelPrices: map[domain.Channel]domain.Money{domain.ChannelDelivery: domain.MustMoney("450000", "IRR")},
		Tags:          []domain.Tag{domain.TagHalal},
		Inventory:     &inv,
		ImageURL:      "https://cdn.example.com/kebab.png",
	})
	require.NoError(t, err)
	menu.SetRevision(4)

	restored, err := domain.RehydrateMenu(menu.State())
	require.NoError(t, err)

	assert.Equal(t, menu.State(), restored.State())
	assert.Equal(t, int64(4), restored.Revision())
	assert.Len(t, restored.Categories(), 1)
	assert.Len(t, restored.AllCategories(), 2)

	c, err := restored.Category(cat.ID())
	require.NoError(t, err)
	it, err := c.Item(item.ID())
	require.NoError(t, err)
	assert.False(t, it.IsAvailable(), "availability is derived on load")
	assert.True(t, it.ExplicitlyAvailable())
}

func TestRehydrateRejectsCorruptState(t *testing.T) {
	menu := newTestMenu(t)
	addCategory(t, menu, "A")
	addCategory(t, menu, "B")

	dupOrder := menu.State()
	dupOrder.Categories[1].DisplayOrder = dupOrder.Categories[0].DisplayOrder
	_, err := domain.RehydrateMenu(dupOrder)
	assert.True(t, domain.IsInvariant(err))

	dupID := menu.State()
	dupID.Categories[1].ID = dupID.Categories[0].ID
	_, err = domain.RehydrateMenu(dupID)
	assert.True(t, domain.IsInvariant(err))

	noName := menu.State()
	noName.Name = domain.LocalizedText{}
	_, err = domain.RehydrateMenu(noName)
	assert.True(t, domain.IsInvariant(err))

	noIdentity := menu.State()
	noIdentity.TenantID = uuid.Nil
	_, err = domain.RehydrateMenu(noIdentity)
	assert.True(t, domain.IsInvariant(err))
}

func TestRestoreTrackedInventoryAcceptsLowStock(t *testing.T) {
	_, err := domain.TrackInventory(1, intPtr(3))
	require.Error(t, err)

	inv, err := domain.RestoreTrackedInventory(1, intPtr(3))
	require.NoError(t, err)
	assert.True(t, inv.IsBelowThreshold())

	_, err = domain.RestoreTrackedInventory(-1, nil)
	assert.True(t, domain.IsInvariant(err))
}

func TestMenuEventRecord(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Kebab")

	events, err := menu.UpdateItemPricing(cat.ID(), item.ID(), domain.MustMoney("20", "USD"), nil)
	require.NoError(t, err)

	rec, err := domain.NewMenuEventRecord(events[1])
	require.NoError(t, err)
	assert.Equal(t, "item.price_changed", rec.EventType)
	assert.Equal(t, menu.TenantID().String(), rec.TenantID)
	assert.Equal(t, cat.ID().String(), rec.CategoryID)
	assert.Equal(t, item.ID().String(), rec.ItemID)
	assert.Contains(t, rec.Payload, `"new_price"`)
	assert.Equal(t, events[1].OccurredAt, rec.Timestamp)
}
