package mongo

import (
	"fmt"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type menuDocument struct {
	ID               string             `bson:"_id"`
	TenantID         string             `bson:"tenant_id"`
	Name             map[string]string  `bson:"name"`
	Description      map[string]string  `bson:"description,omitempty"`
	IsDefault        bool               `bson:"is_default"`
	IsArchived       bool               `bson:"is_archived"`
	PublishedVersion int                `bson:"published_version"`
	Revision         int64              `bson:"revision"`
	Categories       []categoryDocument `bson:"categories"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

type categoryDocument struct {
	ID           string            `bson:"id"`
	Name         map[string]string `bson:"name"`
	Icon         string            `bson:"icon,omitempty"`
	IsArchived   bool              `bson:"is_archived"`
	DisplayOrder int               `bson:"display_order"`
	Items        []itemDocument    `bson:"items"`
}

type itemDocument struct {
	ID                  string                          `bson:"id"`
	Name                map[string]string               `bson:"name"`
	Description         map[string]string               `bson:"description,omitempty"`
	BasePrice           primitive.Decimal128            `bson:"base_price"`
	Currency            string                          `bson:"currency"`
	ChannelPrices       map[string]primitive.Decimal128 `bson:"channel_prices,omitempty"`
	Tags                []string                        `bson:"tags,omitempty"`
	Inventory           inventoryDocument               `bson:"inventory"`
	ImageURL            string                          `bson:"image_url,omitempty"`
	ExplicitlyAvailable bool                            `bson:"explicitly_available"`
	// IsAvailable is derived and only stored for queries; it is recomputed on load.
	IsAvailable  bool `bson:"is_available"`
	DisplayOrder int  `bson:"display_order"`
}

type inventoryDocument struct {
	Mode      string `bson:"mode"`
	Quantity  int    `bson:"quantity"`
	Threshold *int   `bson:"threshold,omitempty"`
}

func newMenuDocument(s domain.MenuState) (menuDocument, error) {
	doc := menuDocument{
		ID:               s.ID.String(),
		TenantID:         s.TenantID.String(),
		Name:             s.Name.Map(),
		IsDefault:        s.IsDefault,
		IsArchived:       s.IsArchived,
		PublishedVersion: s.PublishedVersion,
		Revision:         s.Revision,
		Categories:       make([]categoryDocument, 0, len(s.Categories)),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if !s.Description.IsZero() {
		doc.Description = s.Description.Map()
	}

	for _, cs := range s.Categories {
		cd := categoryDocument{
			ID:           cs.ID.String(),
			Name:         cs.Name.Map(),
			Icon:         cs.Icon,
			IsArchived:   cs.IsArchived,
			DisplayOrder: cs.DisplayOrder,
			Items:        make([]itemDocument, 0, len(cs.Items)),
		}
		for _, is := range cs.Items {
			id, err := newItemDocument(is)
			if err != nil {
				return menuDocument{}, err
			}
			cd.Items = append(cd.Items, id)
		}
		doc.Categories = append(doc.Categories, cd)
	}
	return doc, nil
}

func newItemDocument(s domain.ItemState) (itemDocument, error) {
	base, err := toDecimal128(s.BasePrice.Amount())
	if err != nil {
		return itemDocument{}, err
	}

	doc := itemDocument{
		ID:                  s.ID.String(),
		Name:                s.Name.Map(),
		BasePrice:           base,
		Currency:            s.BasePrice.Currency(),
		ImageURL:            s.ImageURL,
		ExplicitlyAvailable: s.ExplicitlyAvailable,
		IsAvailable:         domain.EffectiveAvailability(s.ExplicitlyAvailable, s.Inventory),
		DisplayOrder:        s.DisplayOrder,
		Inventory: inventoryDocument{
			Mode:     s.Inventory.Mode().String(),
			Quantity: s.Inventory.Quantity(),
		},
	}
	if !s.Description.IsZero() {
		doc.Description = s.Description.Map()
	}
	if t, ok := s.Inventory.Threshold(); ok {
		doc.Inventory.Threshold = &t
	}
	if len(s.ChannelPrices) > 0 {
		doc.ChannelPrices = make(map[string]primitive.Decimal128, len(s.ChannelPrices))
		for ch, price := range s.ChannelPrices {
			d, err := toDecimal128(price.Amount())
			if err != nil {
				return itemDocument{}, err
			}
			doc.ChannelPrices[ch.String()] = d
		}
	}
	for _, t := range s.Tags {
		doc.Tags = append(doc.Tags, t.String())
	}
	return doc, nil
}

func (d menuDocument) toDomain() (*domain.Menu, error) {
	state, err := d.toState()
	if err != nil {
		return nil, fmt.Errorf("failed to decode menu %s: %w", d.ID, err)
	}
	return domain.RehydrateMenu(state)
}

func (d menuDocument) toState() (domain.MenuState, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.MenuState{}, err
	}
	tenantID, err := uuid.Parse(d.TenantID)
	if err != nil {
		return domain.MenuState{}, err
	}
	name, err := domain.LocalizedTextFromMap(d.Name)
	if err != nil {
		return domain.MenuState{}, err
	}
	description, err := optionalText(d.Description)
	if err != nil {
		return domain.MenuState{}, err
	}

	s := domain.MenuState{
		ID:               id,
		TenantID:         tenantID,
		Name:             name,
		Description:      description,
		IsDefault:        d.IsDefault,
		IsArchived:       d.IsArchived,
		PublishedVersion: d.PublishedVersion,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Revision:         d.Revision,
	}

	for _, cd := range d.Categories {
		cs, err := cd.toState()
		if err != nil {
			return domain.MenuState{}, err
		}
		s.Categories = append(s.Categories, cs)
	}
	return s, nil
}

func (d categoryDocument) toState() (domain.CategoryState, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.CategoryState{}, err
	}
	name, err := domain.LocalizedTextFromMap(d.Name)
	if err != nil {
		return domain.CategoryState{}, err
	}

	s := domain.CategoryState{
		ID:           id,
		Name:         name,
		Icon:         d.Icon,
		IsArchived:   d.IsArchived,
		DisplayOrder: d.DisplayOrder,
	}
	for _, itd := range d.Items {
		is, err := itd.toState()
		if err != nil {
			return domain.CategoryState{}, err
		}
		s.Items = append(s.Items, is)
	}
	return s, nil
}

func (d itemDocument) toState() (domain.ItemState, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.ItemState{}, err
	}
	name, err := domain.LocalizedTextFromMap(d.Name)
	if err != nil {
		return domain.ItemState{}, err
	}
	description, err := optionalText(d.Description)
	if err != nil {
		return domain.ItemState{}, err
	}
	base, err := fromDecimal128(d.BasePrice, d.Currency)
	if err != nil {
		return domain.ItemState{}, err
	}

	channelPrices := make(map[domain.Channel]domain.Money, len(d.ChannelPrices))
	for raw, amount := range d.ChannelPrices {
		ch, err := domain.ParseChannel(raw)
		if err != nil {
			return domain.ItemState{}, err
		}
		price, err := fromDecimal128(amount, d.Currency)
		if err != nil {
			return domain.ItemState{}, err
		}
		channelPrices[ch] = price
	}

	tags := make([]domain.Tag, 0, len(d.Tags))
	for _, raw := range d.Tags {
		t, err := domain.ParseTag(raw)
		if err != nil {
			return domain.ItemState{}, err
		}
		tags = append(tags, t)
	}

	inv, err := d.Inventory.toDomain()
	if err != nil {
		return domain.ItemState{}, err
	}

	return domain.ItemState{
		ID:                  id,
		Name:                name,
		Description:         description,
		BasePrice:           base,
		ChannelPrices:       channelPrices,
		Tags:                tags,
		Inventory:           inv,
		ImageURL:            d.ImageURL,
		ExplicitlyAvailable: d.ExplicitlyAvailable,
		DisplayOrder:        d.DisplayOrder,
	}, nil
}

func (d inventoryDocument) toDomain() (domain.InventoryState, error) {
	mode, err := domain.ParseInventoryMode(d.Mode)
	if err != nil {
		return domain.InventoryState{}, err
	}
	switch mode {
	case domain.InventoryTrack:
		return domain.RestoreTrackedInventory(d.Quantity, d.Threshold)
	default:
		return domain.InfiniteInventory(), nil
	}
}

func optionalText(m map[string]string) (domain.LocalizedText, error) {
	if len(m) == 0 {
		return domain.LocalizedText{}, nil
	}
	return domain.LocalizedTextFromMap(m)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to encode amount %s: %w", d, err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128, currency string) (domain.Money, error) {
	amount, err := decimal.NewFromString(d.String())
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to decode amount %s: %w", d, err)
	}
	return domain.NewMoney(amount, currency)
}
