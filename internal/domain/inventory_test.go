package domain_test

import (
	"math"
	"testing"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTrackInventoryValidation(t *testing.T) {
	_, err := domain.TrackInventory(-1, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = domain.TrackInventory(3, intPtr(5))
	assert.True(t, domain.IsValidation(err))

	_, err = domain.TrackInventory(3, intPtr(-1))
	assert.True(t, domain.IsValidation(err))

	inv, err := domain.TrackInventory(5, intPtr(5))
	require.NoError(t, err)
	assert.True(t, inv.IsBelowThreshold())
}

func TestInventoryDecreaseBelowZero(t *testing.T) {
	inv, err := domain.TrackInventory(3, nil)
	require.NoError(t, err)

	next, err := inv.Decrease(4)
	require.Error(t, err)
	assert.True(t, domain.IsInvariant(err))
	assert.Equal(t, 3, next.Quantity())
	assert.Equal(t, 3, inv.Quantity())
}

func TestInventoryIncreaseThenDecrease(t *testing.T) {
	inv, err := domain.TrackInventory(7, intPtr(2))
	require.NoError(t, err)

	up, err := inv.Increase(5)
	require.NoError(t, err)
	assert.Equal(t, 12, up.Quantity())

	down, err := up.Decrease(5)
	require.NoError(t, err)
	assert.True(t, inv.Equal(down))
}

func TestInventoryIncreaseOverflow(t *testing.T) {
	inv, err := domain.TrackInventory(1, nil)
	require.NoError(t, err)

	next, err := inv.Increase(math.MaxInt)
	require.Error(t, err)
	assert.True(t, domain.IsInvariant(err))
	assert.Equal(t, domain.CodeInventoryOverflow, err.(*domain.Error).Code)
	assert.Equal(t, 1, next.Quantity())

	full, err := inv.Increase(math.MaxInt - 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, full.Quantity())
}

func TestInventoryAvailability(t *testing.T) {
	assert.True(t, domain.InfiniteInventory().IsAvailable())
	assert.False(t, domain.InfiniteInventory().IsBelowThreshold())

	inv, err := domain.TrackInventory(1, intPtr(0))
	require.NoError(t, err)
	assert.True(t, inv.IsAvailable())
	assert.False(t, inv.IsBelowThreshold())

	empty, err := inv.Decrease(1)
	require.NoError(t, err)
	assert.False(t, empty.IsAvailable())
	assert.True(t, empty.IsBelowThreshold())

	noThreshold, err := domain.TrackInventory(0, nil)
	require.NoError(t, err)
	assert.False(t, noThreshold.IsBelowThreshold())
}

func TestInfiniteInventoryIgnoresMovements(t *testing.T) {
	inf := domain.InfiniteInventory()

	next, err := inf.Decrease(100)
	require.NoError(t, err)
	assert.True(t, next.Equal(inf))

	_, err = inf.Increase(-1)
	assert.True(t, domain.IsValidation(err))
}

func TestEffectiveAvailability(t *testing.T) {
	soldOut, err := domain.TrackInventory(0, nil)
	require.NoError(t, err)
	inStock, err := domain.TrackInventory(2, nil)
	require.NoError(t, err)

	tests := []struct {
		explicit bool
		inv      domain.InventoryState
		want     bool
	}{
		{true, domain.InfiniteInventory(), true},
		{false, domain.InfiniteInventory(), false},
		{true, inStock, true},
		{false, inStock, false},
		{true, soldOut, false},
		{false, soldOut, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.EffectiveAvailability(tt.explicit, tt.inv))
	}
}
