package domain

import (
	"github.com/google/uuid"
)

const (
	MaxImageURLSize = 512
	MaxIconSize     = 256
)

// NewItem carries the fields of an item being added to a category.
type NewItem struct {
	Name          LocalizedText
	Description   LocalizedText
	BasePrice     Money
	ChannelPrices map[Channel]Money
	Tags          []Tag
	// Inventory defaults to infinite.
	Inventory *InventoryState
	ImageURL  string
	// Available is the merchant's explicit flag and defaults to true.
	Available *bool
}

// MenuItem is owned by a MenuCategory and only changed through Menu.
type MenuItem struct {
	id                uuid.UUID
	name              LocalizedText
	description       LocalizedText
	basePrice         Money
	channelPrices     map[Channel]Money
	tags              []Tag
	inventory         InventoryState
	imageURL          string
	explicitAvailable bool
	isAvailable       bool
	displayOrder      int
}

func newMenuItem(in NewItem, order int) (*MenuItem, error) {
	if in.Name.IsZero() {
		return nil, newValidation("name_required", "item name is required")
	}
	prices, err := validatePricing(in.BasePrice, in.ChannelPrices)
	if err != nil {
		return nil, err
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	if err := validateImageURL(in.ImageURL); err != nil {
		return nil, err
	}

	inv := InfiniteInventory()
	if in.Inventory != nil {
		inv = *in.Inventory
	}
	explicit := true
	if in.Available != nil {
		explicit = *in.Available
	}

	item := &MenuItem{
		id:                uuid.New(),
		name:              in.Name,
		description:       in.Description,
		basePrice:         in.BasePrice,
		channelPrices:     prices,
		tags:              tags,
		inventory:         inv,
		imageURL:          in.ImageURL,
		explicitAvailable: explicit,
		displayOrder:      order,
	}
	item.recomputeAvailability()
	return item, nil
}

func validatePricing(base Money, channels map[Channel]Money) (map[Channel]Money, error) {
	if base.IsZero() {
		return nil, newValidation("price_required", "base price is required")
	}
	out := make(map[Channel]Money, len(channels))
	for ch, price := range channels {
		if !ch.valid() {
			return nil, newValidation("invalid_channel", "unsupported sales channel %s", ch)
		}
		if price.IsZero() {
			return nil, newValidation("price_required", "price for channel %s is required", ch)
		}
		if price.Currency() != base.Currency() {
			return nil, newValidation("currency_mismatch", "channel %s is priced in %s, base price is in %s", ch, price.Currency(), base.Currency())
		}
		out[ch] = price
	}
	return out, nil
}

func validateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	if err := validate.Var(raw, "max=512,uri"); err != nil {
		return newValidation("invalid_image_url", "image url must be a valid URI of at most %d characters", MaxImageURLSize)
	}
	return nil
}

// recomputeAvailability must run after any change to the explicit flag or
// the inventory. It reports whether the effective value flipped.
func (i *MenuItem) recomputeAvailability() bool {
	prev := i.isAvailable
	i.isAvailable = EffectiveAvailability(i.explicitAvailable, i.inventory)
	return prev != i.isAvailable
}

func (i *MenuItem) ID() uuid.UUID              { return i.id }
func (i *MenuItem) Name() LocalizedText        { return i.name }
func (i *MenuItem) Description() LocalizedText { return i.description }
func (i *MenuItem) BasePrice() Money           { return i.basePrice }
func (i *MenuItem) Inventory() InventoryState  { return i.inventory }
func (i *MenuItem) ImageURL() string           { return i.imageURL }
func (i *MenuItem) IsAvailable() bool          { return i.isAvailable }
func (i *MenuItem) ExplicitlyAvailable() bool  { return i.explicitAvailable }
func (i *MenuItem) DisplayOrder() int          { return i.displayOrder }

func (i *MenuItem) ChannelPrices() map[Channel]Money {
	out := make(map[Channel]Money, len(i.channelPrices))
	for ch, p := range i.channelPrices {
		out[ch] = p
	}
	return out
}

// PriceFor returns the channel override, or the base price if there is none.
func (i *MenuItem) PriceFor(ch Channel) Money {
	if p, ok := i.channelPrices[ch]; ok {
		return p
	}
	return i.basePrice
}

func (i *MenuItem) Tags() []Tag {
	return append([]Tag(nil), i.tags...)
}

func (i *MenuItem) HasTag(t Tag) bool {
	for _, tag := range i.tags {
		if tag == t {
			return true
		}
	}
	return false
}

func (i *MenuItem) updateDetails(name, description LocalizedText, imageURL string) error {
	if name.IsZero() {
		return newValidation("name_required", "item name is required")
	}
	if err := validateImageURL(imageURL); err != nil {
		return err
	}
	i.name = name
	i.description = description
	i.imageURL = imageURL
	return nil
}

// updatePricing reports whether the base price changed.
func (i *MenuItem) updatePricing(base Money, channels map[Channel]Money) (bool, error) {
	prices, err := validatePricing(base, channels)
	if err != nil {
		return false, err
	}
	changed := !i.basePrice.Equal(base)
	i.basePrice = base
	i.channelPrices = prices
	return changed, nil
}

func (i *MenuItem) updateTags(tags []Tag) error {
	normalized, err := normalizeTags(tags)
	if err != nil {
		return err
	}
	i.tags = normalized
	return nil
}

func (i *MenuItem) setExplicitAvailability(available bool) bool {
	i.explicitAvailable = available
	return i.recomputeAvailability()
}

func (i *MenuItem) setInventory(inv InventoryState) bool {
	i.inventory = inv
	return i.recomputeAvailability()
}
