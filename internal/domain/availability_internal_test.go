package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// every item must satisfy the derivation rule after every mutation
func requireAvailabilityDerived(t *testing.T, m *Menu) {
	t.Helper()
	for _, c := range m.categories {
		for _, it := range c.items {
			require.Equal(t, EffectiveAvailability(it.explicitAvailable, it.inventory), it.isAvailable, "item %s", it.id)
		}
	}
}

func TestAvailabilityDerivedAfterEveryMutation(t *testing.T) {
	m, _, err := NewMenu(uuid.New(), MustLocalizedText("Main", "en"), LocalizedText{})
	require.NoError(t, err)
	c, _, err := m.AddCategory(MustLocalizedText("Mains", "en"), "", nil)
	require.NoError(t, err)

	threshold := 1
	inv, err := TrackInventory(1, &threshold)
	require.NoError(t, err)
	off := false
	it, _, err := m.AddItem(c.id, NewItem{
		Name:      MustLocalizedText("Kebab", "en"),
		BasePrice: MustMoney("1", "USD"),
		Inventory: &inv,
		Available: &off,
	})
	require.NoError(t, err)
	requireAvailabilityDerived(t, m)

	steps := []func() error{
		func() error { _, err := m.UpdateItemAvailability(c.id, it.id, true); return err },
		func() error { _, err := m.AdjustInventory(c.id, it.id, -1); return err },
		func() error { _, err := m.AdjustInventory(c.id, it.id, 2); return err },
		func() error { _, err := m.UpdateItemInventory(c.id, it.id, InfiniteInventory()); return err },
		func() error { _, err := m.UpdateItemAvailability(c.id, it.id, false); return err },
		func() error {
			empty, err := TrackInventory(0, nil)
			if err != nil {
				return err
			}
			_, err = m.UpdateItemInventory(c.id, it.id, empty)
			return err
		},
		func() error { _, err := m.UpdateItemAvailability(c.id, it.id, true); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		requireAvailabilityDerived(t, m)
	}

	restored, err := RehydrateMenu(m.State())
	require.NoError(t, err)
	requireAvailabilityDerived(t, restored)
}
