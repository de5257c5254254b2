package domain

import "math"

// InventoryState is the stock policy of a menu item. The zero value is not
// valid; use InfiniteInventory or TrackInventory.
type InventoryState struct {
	mode         InventoryMode
	quantity     int
	threshold    int
	hasThreshold bool
}

func InfiniteInventory() InventoryState {
	return InventoryState{mode: InventoryInfinite}
}

// TrackInventory counts stock. A nil threshold disables low-stock reporting.
func TrackInventory(quantity int, threshold *int) (InventoryState, error) {
	if quantity < 0 {
		return InventoryState{}, newValidation("negative_quantity", "inventory quantity must not be negative")
	}
	s := InventoryState{mode: InventoryTrack, quantity: quantity}
	if threshold != nil {
		if *threshold < 0 {
			return InventoryState{}, newValidation("negative_threshold", "inventory threshold must not be negative")
		}
		if *threshold > quantity {
			return InventoryState{}, newValidation("threshold_exceeds_quantity", "inventory threshold %d exceeds quantity %d", *threshold, quantity)
		}
		s.threshold = *threshold
		s.hasThreshold = true
	}
	return s, nil
}

func (s InventoryState) Mode() InventoryMode {
	if s.mode == 0 {
		return InventoryInfinite
	}
	return s.mode
}

func (s InventoryState) IsTracked() bool { return s.mode == InventoryTrack }

// Quantity is zero for infinite inventory.
func (s InventoryState) Quantity() int { return s.quantity }

func (s InventoryState) Threshold() (int, bool) {
	return s.threshold, s.hasThreshold
}

func (s InventoryState) IsAvailable() bool {
	return !s.IsTracked() || s.quantity > 0
}

func (s InventoryState) IsBelowThreshold() bool {
	return s.IsTracked() && s.hasThreshold && s.quantity <= s.threshold
}

// Increase adds stock and refuses to overflow. Infinite inventory is returned
// unchanged.
func (s InventoryState) Increase(amount int) (InventoryState, error) {
	if amount < 0 {
		return s, newValidation("negative_amount", "increase amount must not be negative")
	}
	if !s.IsTracked() {
		return s, nil
	}
	if amount > math.MaxInt-s.quantity {
		return s, newInvariant(CodeInventoryOverflow, "cannot increase inventory of %d by %d", s.quantity, amount)
	}
	s.quantity += amount
	return s, nil
}

// Decrease removes stock and refuses to go below zero. Infinite inventory is
// returned unchanged.
func (s InventoryState) Decrease(amount int) (InventoryState, error) {
	if amount < 0 {
		return s, newValidation("negative_amount", "decrease amount must not be negative")
	}
	if !s.IsTracked() {
		return s, nil
	}
	if amount > s.quantity {
		return s, newInvariant(CodeInsufficientStock, "cannot decrease inventory by %d, only %d left", amount, s.quantity)
	}
	s.quantity -= amount
	return s, nil
}

func (s InventoryState) Equal(other InventoryState) bool {
	return s.Mode() == other.Mode() &&
		s.quantity == other.quantity &&
		s.hasThreshold == other.hasThreshold &&
		s.threshold == other.threshold
}

// EffectiveAvailability is the one definition of item availability: the
// merchant wants it sold and the inventory can serve it.
func EffectiveAvailability(explicit bool, inv InventoryState) bool {
	return explicit && inv.IsAvailable()
}
