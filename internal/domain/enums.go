package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Channel is a sales channel that may carry its own price.
type Channel int

const (
	ChannelDineIn Channel = iota + 1
	ChannelTakeAway
	ChannelDelivery
	ChannelOnlineExclusive
)

// Channels lists every channel in declaration order.
var Channels = []Channel{ChannelDineIn, ChannelTakeAway, ChannelDelivery, ChannelOnlineExclusive}

func (c Channel) String() string {
	switch c {
	case ChannelDineIn:
		return "DineIn"
	case ChannelTakeAway:
		return "TakeAway"
	case ChannelDelivery:
		return "Delivery"
	case ChannelOnlineExclusive:
		return "OnlineExclusive"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if strings.EqualFold(c.String(), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return 0, newValidation("invalid_channel", "unsupported sales channel %q", s)
}

func (c Channel) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("cannot encode %s", c)
	}
	return []byte(c.String()), nil
}

func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Channel) valid() bool {
	return c >= ChannelDineIn && c <= ChannelOnlineExclusive
}

// Tag is a dietary or merchandising label on a menu item.
type Tag int

const (
	TagVegetarian Tag = iota + 1
	TagVegan
	TagGlutenFree
	TagSpicy
	TagHalal
	TagNew
	TagPopular
	TagChefSpecial
)

var Tags = []Tag{TagVegetarian, TagVegan, TagGlutenFree, TagSpicy, TagHalal, TagNew, TagPopular, TagChefSpecial}

func (t Tag) String() string {
	switch t {
	case TagVegetarian:
		return "Vegetarian"
	case TagVegan:
		return "Vegan"
	case TagGlutenFree:
		return "GlutenFree"
	case TagSpicy:
		return "Spicy"
	case TagHalal:
		return "Halal"
	case TagNew:
		return "New"
	case TagPopular:
		return "Popular"
	case TagChefSpecial:
		return "ChefSpecial"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

func ParseTag(s string) (Tag, error) {
	for _, t := range Tags {
		if strings.EqualFold(t.String(), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return 0, newValidation("invalid_tag", "unsupported tag %q", s)
}

func (t Tag) MarshalText() ([]byte, error) {
	if t < TagVegetarian || t > TagChefSpecial {
		return nil, fmt.Errorf("cannot encode %s", t)
	}
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// normalizeTags deduplicates tags and returns them in declaration order.
func normalizeTags(tags []Tag) ([]Tag, error) {
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t < TagVegetarian || t > TagChefSpecial {
			return nil, newValidation("invalid_tag", "unsupported tag %s", t)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// InventoryMode says whether an item's stock is counted.
type InventoryMode int

const (
	InventoryInfinite InventoryMode = iota + 1
	InventoryTrack
)

func (m InventoryMode) String() string {
	switch m {
	case InventoryInfinite:
		return "Infinite"
	case InventoryTrack:
		return "Track"
	default:
		return fmt.Sprintf("InventoryMode(%d)", int(m))
	}
}

func ParseInventoryMode(s string) (InventoryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "infinite":
		return InventoryInfinite, nil
	case "track":
		return InventoryTrack, nil
	default:
		return 0, newValidation("invalid_inventory_mode", "unsupported inventory mode %q", s)
	}
}

func (m InventoryMode) MarshalText() ([]byte, error) {
	if m != InventoryInfinite && m != InventoryTrack {
		return nil, fmt.Errorf("cannot encode %s", m)
	}
	return []byte(m.String()), nil
}

func (m *InventoryMode) UnmarshalText(text []byte) error {
	parsed, err := ParseInventoryMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
