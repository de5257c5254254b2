package domain_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMenu(t *testing.T) *domain.Menu {
	t.Helper()
	menu, events, err := domain.NewMenu(uuid.New(), domain.MustLocalizedText("Main", "en"), domain.LocalizedText{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventMenuCreated, events[0].Type)
	return menu
}

func addCategory(t *testing.T, menu *domain.Menu, name string) *domain.MenuCategory {
	t.Helper()
	c, _, err := menu.AddCategory(domain.MustLocalizedText(name, "en"), "", nil)
	require.NoError(t, err)
	return c
}

func addItem(t *testing.T, menu *domain.Menu, categoryID uuid.UUID, name string) *domain.MenuItem {
	t.Helper()
	it, _, err := menu.AddItem(categoryID, domain.NewItem{
		Name:      domain.MustLocalizedText(name, "en"),
		BasePrice: domain.MustMoney("10", "USD"),
	})
	require.NoError(t, err)
	return it
}

func categoryOrders(menu *domain.Menu) []int {
	var out []int
	for _, c := range menu.AllCategories() {
		out = append(out, c.DisplayOrder())
	}
	return out
}

func TestNewMenuValidation(t *testing.T) {
	_, _, err := domain.NewMenu(uuid.Nil, domain.MustLocalizedText("Main", "en"), domain.LocalizedText{})
	assert.True(t, domain.IsValidation(err))

	_, _, err = domain.NewMenu(uuid.New(), domain.LocalizedText{}, domain.LocalizedText{})
	assert.True(t, domain.IsValidation(err))
}

func TestAddCategoryOrdering(t *testing.T) {
	menu := newTestMenu(t)

	first := addCategory(t, menu, "Starters")
	assert.Equal(t, 0, first.DisplayOrder())

	_, _, err := menu.AddCategory(domain.MustLocalizedText("Drinks", "en"), "", intPtr(7))
	require.NoError(t, err)

	next := addCategory(t, menu, "Desserts")
	assert.Equal(t, 8, next.DisplayOrder(), "default order is max+1")

	_, _, err = menu.AddCategory(domain.MustLocalizedText("Soups", "en"), "", intPtr(7))
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Len(t, menu.AllCategories(), 3)

	_, _, err = menu.AddCategory(domain.MustLocalizedText("Soups", "en"), "", intPtr(-1))
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateCategoryRejectsTakenOrder(t *testing.T) {
	menu := newTestMenu(t)
	a := addCategory(t, menu, "A")
	b := addCategory(t, menu, "B")

	_, err := menu.UpdateCategory(b.ID(), domain.MustLocalizedText("B", "en"), a.DisplayOrder(), "")
	assert.True(t, domain.IsConflict(err))

	events, err := menu.UpdateCategory(b.ID(), domain.MustLocalizedText("B2", "en"), 5, "icons/b.svg")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventCategoryUpdated, events[0].Type)
	assert.Equal(t, 5, b.DisplayOrder())
	assert.Equal(t, "icons/b.svg", b.Icon())

	_, err = menu.UpdateCategory(uuid.New(), domain.MustLocalizedText("X", "en"), 9, "")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestReorderCategoriesPermutationLaw(t *testing.T) {
	menu := newTestMenu(t)
	a := addCategory(t, menu, "A")
	b := addCategory(t, menu, "B")
	c := addCategory(t, menu, "C")

	t.Run("permutation", func(t *testing.T) {
		events, err := menu.ReorderCategories([]uuid.UUID{c.ID(), a.ID(), b.ID()})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, []uuid.UUID{c.ID(), a.ID(), b.ID()}, events[0].Order)
		assert.Equal(t, 0, c.DisplayOrder())
		assert.Equal(t, 1, a.DisplayOrder())
		assert.Equal(t, 2, b.DisplayOrder())
	})

	tests := []struct {
		name  string
		ids   []uuid.UUID
		check func(error) bool
	}{
		{"missing id", []uuid.UUID{a.ID(), b.ID()}, domain.IsConflict},
		{"extra id", []uuid.UUID{a.ID(), b.ID(), c.ID(), uuid.New()}, domain.IsConflict},
		{"duplicate id", []uuid.UUID{a.ID(), a.ID(), b.ID()}, domain.IsConflict},
		{"unknown id", []uuid.UUID{a.ID(), b.ID(), uuid.New()}, domain.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := categoryOrders(menu)
			_, err := menu.ReorderCategories(tt.ids)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.Equal(t, before, categoryOrders(menu))
		})
	}
}

func TestReorderMenuItems(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	x := addItem(t, menu, cat.ID(), "X")
	y := addItem(t, menu, cat.ID(), "Y")
	assert.Equal(t, 0, x.DisplayOrder())
	assert.Equal(t, 1, y.DisplayOrder())

	_, err := menu.ReorderMenuItems(cat.ID(), []uuid.UUID{y.ID(), x.ID()})
	require.NoError(t, err)

	items := cat.Items()
	require.Len(t, items, 2)
	assert.Equal(t, y.ID(), items[0].ID())
	assert.Equal(t, x.ID(), items[1].ID())

	_, err = menu.ReorderMenuItems(cat.ID(), []uuid.UUID{y.ID()})
	assert.True(t, domain.IsConflict(err))

	_, err = menu.ReorderMenuItems(cat.ID(), []uuid.UUID{y.ID(), uuid.New()})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestDisplayOrdersStayUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	menu := newTestMenu(t)

	for step := 0; step < 500; step++ {
		cats := menu.AllCategories()
		switch op := rng.Intn(5); {
		case op == 0 || len(cats) == 0:
			var order *int
			if rng.Intn(2) == 0 {
				order = intPtr(rng.Intn(10))
			}
			_, _, _ = menu.AddCategory(domain.MustLocalizedText("C", "en"), "", order)
		case op == 1:
			c := cats[rng.Intn(len(cats))]
			_, _ = menu.UpdateCategory(c.ID(), c.Name(), rng.Intn(10), "")
		case op == 2:
			ids := make([]uuid.UUID, 0, len(cats))
			for _, i := range rng.Perm(len(cats)) {
				ids = append(ids, cats[i].ID())
			}
			_, err := menu.ReorderCategories(ids)
			require.NoError(t, err)
		case op == 3:
			c := cats[rng.Intn(len(cats))]
			_, _, _ = menu.AddItem(c.ID(), domain.NewItem{
				Name:      domain.MustLocalizedText("I", "en"),
				BasePrice: domain.MustMoney("1", "USD"),
			})
		default:
			c := cats[rng.Intn(len(cats))]
			items := c.Items()
			ids := make([]uuid.UUID, 0, len(items))
			for _, i := range rng.Perm(len(items)) {
				ids = append(ids, items[i].ID())
			}
			_, err := menu.ReorderMenuItems(c.ID(), ids)
			require.NoError(t, err)
		}

		seen := map[int]bool{}
		for _, c := range menu.AllCategories() {
			require.False(t, seen[c.DisplayOrder()], "step %d: duplicate category order %d", step, c.DisplayOrder())
			seen[c.DisplayOrder()] = true

			itemSeen := map[int]bool{}
			for _, it := range c.Items() {
				require.False(t, itemSeen[it.DisplayOrder()], "step %d: duplicate item order", step)
				itemSeen[it.DisplayOrder()] = true
			}
		}
	}
}

func TestArchiveGate(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Kebab")

	events := menu.Archive()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventMenuArchived, events[0].Type)
	assert.Empty(t, menu.Archive(), "archiving twice raises nothing")

	name := domain.MustLocalizedText("X", "en")
	mutations := map[string]func() error{
		"rename": func() error { _, err := menu.Rename(name, domain.LocalizedText{}); return err },
		"set default": func() error { _, err := menu.SetDefault(true); return err },
		"add category": func() error { _, _, err := menu.AddCategory(name, "", nil); return err },
		"update category": func() error { _, err := menu.UpdateCategory(cat.ID(), name, 3, ""); return err },
		"archive category": func() error { _, err := menu.ArchiveCategory(cat.ID()); return err },
		"remove category": func() error { _, err := menu.RemoveCategory(cat.ID()); return err },
		"reorder categories": func() error { _, err := menu.ReorderCategories([]uuid.UUID{cat.ID()}); return err },
		"add item": func() error {
			_, _, err := menu.AddItem(cat.ID(), domain.NewItem{Name: name, BasePrice: domain.MustMoney("1", "USD")})
			return err
		},
		"remove item": func() error { _, err := menu.RemoveItem(cat.ID(), item.ID()); return err },
		"update details": func() error {
			_, err := menu.UpdateItemDetails(cat.ID(), item.ID(), name, domain.LocalizedText{}, "")
			return err
		},
		"update pricing": func() error {
			_, err := menu.UpdateItemPricing(cat.ID(), item.ID(), domain.MustMoney("2", "USD"), nil)
			return err
		},
		"update tags": func() error { _, err := menu.UpdateItemTags(cat.ID(), item.ID(), nil); return err },
		"availability": func() error { _, err := menu.UpdateItemAvailability(cat.ID(), item.ID(), false); return err },
		"inventory": func() error {
			_, err := menu.UpdateItemInventory(cat.ID(), item.ID(), domain.InfiniteInventory())
			return err
		},
		"adjust inventory": func() error { _, err := menu.AdjustInventory(cat.ID(), item.ID(), 1); return err },
		"reorder items": func() error { _, err := menu.ReorderMenuItems(cat.ID(), []uuid.UUID{item.ID()}); return err },
		"publish": func() error { _, _, err := menu.PublishNextVersion(); return err },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate()
			assert.ErrorIs(t, err, domain.ErrMenuArchived)
			assert.True(t, domain.IsConflict(err))
		})
	}

	events = menu.Restore()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventMenuRestored, events[0].Type)

	_, err := menu.Rename(name, domain.LocalizedText{})
	assert.NoError(t, err)
}

func TestArchivedCategoryGate(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Kebab")

	events, err := menu.ArchiveCategory(cat.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, menu.Categories())
	assert.Len(t, menu.AllCategories(), 1)

	_, _, err = menu.AddItem(cat.ID(), domain.NewItem{Name: domain.MustLocalizedText("X", "en"), BasePrice: domain.MustMoney("1", "USD")})
	assert.ErrorIs(t, err, domain.ErrCategoryArchived)

	_, err = menu.UpdateItemAvailability(cat.ID(), item.ID(), false)
	assert.ErrorIs(t, err, domain.ErrCategoryArchived)
	assert.False(t, errors.Is(err, domain.ErrMenuArchived))

	events, err = menu.RestoreCategory(cat.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventCategoryRestored, events[0].Type)
	assert.Len(t, menu.Categories(), 1)
}

func TestRemoveCategoryAndItem(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Kebab")

	events, err := menu.RemoveItem(cat.ID(), item.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.EventItemRemoved, events[0].Type)
	assert.Equal(t, item.ID(), events[0].ItemID)

	_, err = menu.RemoveItem(cat.ID(), item.ID())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = menu.RemoveCategory(cat.ID())
	require.NoError(t, err)
	_, err = menu.Category(cat.ID())
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestAddItemValidation(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")

	tests := []struct {
		name string
		in   domain.NewItem
	}{
		{"missing name", domain.NewItem{BasePrice: domain.MustMoney("1", "USD")}},
		{"missing price", domain.NewItem{Name: domain.MustLocalizedText("X", "en")}},
		{"channel currency mismatch", domain.NewItem{
			Name:          domain.MustLocalizedText("X", "en"),
			BasePrice:     domain.MustMoney("1", "USD"),
			ChannelPrices: map[domain.Channel]domain.Money{domain.ChannelDelivery: domain.MustMoney("2", "EUR")},
		}},
		{"bad image url", domain.NewItem{
			Name:      domain.MustLocalizedText("X", "en"),
			BasePrice: domain.MustMoney("1", "USD"),
			ImageURL:  "not a url",
		}},
		{"unknown tag", domain.NewItem{
			Name:      domain.MustLocalizedText("X", "en"),
			BasePrice: domain.MustMoney("1", "USD"),
			Tags:      []domain.Tag{domain.Tag(99)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, events, err := menu.AddItem(cat.ID(), tt.in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
			assert.Nil(t, events)
			assert.Equal(t, 0, cat.ItemCount())
		})
	}

	_, _, err := menu.AddItem(uuid.New(), domain.NewItem{Name: domain.MustLocalizedText("X", "en"), BasePrice: domain.MustMoney("1", "USD")})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestItemPricingEvents(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Kebab")

	events, err := menu.UpdateItemPricing(cat.ID(), item.ID(), domain.MustMoney("10", "USD"), map[domain.Channel]domain.Money{
		domain.ChannelDelivery: domain.MustMoney("12", "USD"),
	})
	require.NoError(t, err)
	require.Len(t, events, 1, "same base price raises no price change")
	assert.True(t, item.PriceFor(domain.ChannelDelivery).Equal(domain.MustMoney("12", "USD")))
	assert.True(t, item.PriceFor(domain.ChannelDineIn).Equal(domain.MustMoney("10", "USD")))

	events, err = menu.UpdateItemPricing(cat.ID(), item.ID(), domain.MustMoney("11.5", "USD"), nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventItemUpdated, events[0].Type)
	assert.Equal(t, domain.EventItemPriceChanged, events[1].Type)
	assert.True(t, events[1].OldPrice.Equal(domain.MustMoney("10", "USD")))
	assert.True(t, events[1].NewPrice.Equal(domain.MustMoney("11.5", "USD")))
	assert.Empty(t, item.ChannelPrices())
}

func TestItemTagsAreNormalized(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Falafel")

	_, err := menu.UpdateItemTags(cat.ID(), item.ID(), []domain.Tag{domain.TagVegan, domain.TagSpicy, domain.TagVegan})
	require.NoError(t, err)
	assert.Equal(t, []domain.Tag{domain.TagVegan, domain.TagSpicy}, item.Tags())
	assert.True(t, item.HasTag(domain.TagSpicy))
	assert.False(t, item.HasTag(domain.TagHalal))
}

func TestAvailabilityFollowsInventory(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	inv, err := domain.TrackInventory(2, nil)
	require.NoError(t, err)
	item, _, err := menu.AddItem(cat.ID(), domain.NewItem{
		Name:      domain.MustLocalizedText("Kebab", "en"),
		BasePrice: domain.MustMoney("1", "USD"),
		Inventory: &inv,
	})
	require.NoError(t, err)
	require.True(t, item.IsAvailable())

	events, err := menu.AdjustInventory(cat.ID(), item.ID(), -1)
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = menu.AdjustInventory(cat.ID(), item.ID(), -1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventItemAvailabilityChanged, events[0].Type)
	assert.False(t, *events[0].Available)
	assert.False(t, item.IsAvailable())
	assert.True(t, item.ExplicitlyAvailable())

	_, err = menu.AdjustInventory(cat.ID(), item.ID(), -1)
	assert.True(t, domain.IsInvariant(err))
	assert.Equal(t, 0, item.Inventory().Quantity())

	// explicit flag cannot override an empty stock
	events, err = menu.UpdateItemAvailability(cat.ID(), item.ID(), true)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.False(t, item.IsAvailable())

	events, err = menu.AdjustInventory(cat.ID(), item.ID(), 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, *events[0].Available)

	events, err = menu.UpdateItemAvailability(cat.ID(), item.ID(), false)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventItemAvailabilityChanged, events[1].Type)

	events, err = menu.UpdateItemInventory(cat.ID(), item.ID(), domain.InfiniteInventory())
	require.NoError(t, err)
	assert.Len(t, events, 1, "still explicitly unavailable")
	assert.False(t, item.IsAvailable())

	events, err = menu.AdjustInventory(cat.ID(), item.ID(), -5)
	require.NoError(t, err)
	assert.Nil(t, events, "infinite inventory ignores movements")
}

func TestAdjustInventoryOutOfRange(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	inv, err := domain.TrackInventory(1, nil)
	require.NoError(t, err)
	item, _, err := menu.AddItem(cat.ID(), domain.NewItem{
		Name:      domain.MustLocalizedText("Kebab", "en"),
		BasePrice: domain.MustMoney("1", "USD"),
		Inventory: &inv,
	})
	require.NoError(t, err)
	updatedAt := menu.UpdatedAt()

	_, err = menu.AdjustInventory(cat.ID(), item.ID(), math.MaxInt)
	assert.True(t, domain.IsInvariant(err))

	_, err = menu.AdjustInventory(cat.ID(), item.ID(), math.MinInt)
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, 1, item.Inventory().Quantity())
	assert.True(t, item.IsAvailable())
	assert.Equal(t, updatedAt, menu.UpdatedAt())
}

func TestPublishNextVersion(t *testing.T) {
	menu := newTestMenu(t)

	for want := 1; want <= 3; want++ {
		version, events, err := menu.PublishNextVersion()
		require.NoError(t, err)
		assert.Equal(t, want, version)
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventMenuPublished, events[0].Type)
		assert.Equal(t, want, events[0].Version)
	}
	assert.Equal(t, 3, menu.PublishedVersion())
}

func TestKebabScenario(t *testing.T) {
	tenantID := uuid.New()
	menu, _, err := domain.NewMenu(tenantID, domain.MustLocalizedText("Main", "en"), domain.LocalizedText{})
	require.NoError(t, err)

	mains, _, err := menu.AddCategory(domain.MustLocalizedText("Mains", "en"), "", intPtr(0))
	require.NoError(t, err)

	inv, err := domain.TrackInventory(18, intPtr(5))
	require.NoError(t, err)
	kebab, _, err := menu.AddItem(mains.ID(), domain.NewItem{
		Name:      domain.MustLocalizedText("Kebab", "en"),
		BasePrice: domain.MustMoney("420000", "IRR"),
		Inventory: &inv,
	})
	require.NoError(t, err)

	events, err := menu.AdjustInventory(mains.ID(), kebab.ID(), -18)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventItemAvailabilityChanged, events[0].Type)
	assert.Equal(t, tenantID, events[0].TenantID)
	assert.Equal(t, menu.ID(), events[0].MenuID)
	assert.Equal(t, kebab.ID(), events[0].ItemID)
	assert.False(t, kebab.IsAvailable())
	assert.True(t, kebab.Inventory().IsBelowThreshold())

	version, _, err := menu.PublishNextVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestMutationsLeaveAggregateUntouchedOnError(t *testing.T) {
	menu := newTestMenu(t)
	cat := addCategory(t, menu, "Mains")
	item := addItem(t, menu, cat.ID(), "Kebab")
	before := menu.State()

	_, err := menu.UpdateItemPricing(cat.ID(), item.ID(), domain.MustMoney("5", "USD"), map[domain.Channel]domain.Money{
		domain.ChannelTakeAway: domain.MustMoney("5", "EUR"),
	})
	require.Error(t, err)

	_, err = menu.UpdateItemDetails(cat.ID(), item.ID(), domain.LocalizedText{}, domain.LocalizedText{}, "")
	require.Error(t, err)

	_, err = menu.UpdateCategory(cat.ID(), domain.LocalizedText{}, 0, "")
	require.Error(t, err)

	assert.Equal(t, before, menu.State())
}
