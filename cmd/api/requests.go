package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type MoneyRequest struct {
	Amount   string `json:"amount" validate:"required,numeric"`
	Currency string `json:"currency" validate:"required,iso4217"`
}

func (m MoneyRequest) toDomain() (domain.Money, error) {
	return domain.ParseMoney(m.Amount, m.Currency)
}

type InventoryRequest struct {
	Mode      string `json:"mode" validate:"required,oneof=Infinite Track"`
	Quantity  int    `json:"quantity" validate:"min=0"`
	Threshold *int   `json:"threshold" validate:"omitempty,min=0"`
}

func (i InventoryRequest) toDomain() (domain.InventoryState, error) {
	mode, err := domain.ParseInventoryMode(i.Mode)
	if err != nil {
		return domain.InventoryState{}, err
	}
	if mode == domain.InventoryInfinite {
		return domain.InfiniteInventory(), nil
	}
	return domain.TrackInventory(i.Quantity, i.Threshold)
}

func localizedText(values map[string]string) (domain.LocalizedText, error) {
	if len(values) == 0 {
		return domain.LocalizedText{}, nil
	}
	return domain.LocalizedTextFromMap(values)
}

func channelPrices(req map[string]MoneyRequest) (map[domain.Channel]domain.Money, error) {
	if len(req) == 0 {
		return nil, nil
	}
	prices := make(map[domain.Channel]domain.Money, len(req))
	for raw, mr := range req {
		ch, err := domain.ParseChannel(raw)
		if err != nil {
			return nil, err
		}
		price, err := mr.toDomain()
		if err != nil {
			return nil, err
		}
		prices[ch] = price
	}
	return prices, nil
}

func parseTags(raw []string) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(raw))
	for _, s := range raw {
		tag, err := domain.ParseTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, name)
	}
	return id, nil
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// readRequest decodes and validates a JSON body, answering 400 on failure.
func (app *application) readRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := readJson(w, r, req); err != nil {
		app.badRequestResponse(w, r, err)
		return false
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return false
	}

	return true
}

// menuParams reads the tenant and menu ids of a menu route.
func (app *application) menuParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := uuidParam(r, "tenant_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	menuID, err := uuidParam(r, "menu_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, menuID, true
}
