package main

import (
	"net/http"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
)

type AddItemRequest struct {
	Name          map[string]string       `json:"name" validate:"required,min=1"`
	Description   map[string]string       `json:"description"`
	BasePrice     MoneyRequest            `json:"base_price"`
	ChannelPrices map[string]MoneyRequest `json:"channel_prices" validate:"omitempty,dive"`
	Tags          []string                `json:"tags"`
	Inventory     *InventoryRequest       `json:"inventory"`
	ImageURL      string                  `json:"image_url" validate:"omitempty,max=512,uri"`
	Available     *bool                   `json:"available"`
}

type UpdateItemDetailsRequest struct {
	Name        map[string]string `json:"name" validate:"required,min=1"`
	Description map[string]string `json:"description"`
	ImageURL    string            `json:"image_url" validate:"omitempty,max=512,uri"`
}

type UpdateItemPricingRequest struct {
	BasePrice     MoneyRequest            `json:"base_price"`
	ChannelPrices map[string]MoneyRequest `json:"channel_prices" validate:"omitempty,dive"`
}

type UpdateItemTagsRequest struct {
	Tags []string `json:"tags"`
}

type UpdateItemAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type AdjustInventoryRequest struct {
	Delta  int    `json:"delta" validate:"ne=0"`
	Reason string `json:"reason" validate:"max=256"`
	// Async queues the adjustment for the inventory worker.
	Async bool `json:"async"`
}

// addItemHandler godoc
//
//	@Summary		Add menu item
//	@Description	Appends an item to an active category
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string			true	"Tenant ID"
//	@Param			menu_id		path		string			true	"Menu ID"
//	@Param			category_id	path		string			true	"Category ID"
//	@Param			request		body		AddItemRequest	true	"Item"
//	@Success		200			{object}	MenuView
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items [post]
func (app *application) addItemHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuidParam(r, "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req AddItemRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	in, err := req.toDomain()
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		_, events, err := m.AddItem(categoryID, in)
		return events, err
	})
}

func (req AddItemRequest) toDomain() (domain.NewItem, error) {
	name, err := localizedText(req.Name)
	if err != nil {
		return domain.NewItem{}, err
	}
	description, err := localizedText(req.Description)
	if err != nil {
		return domain.NewItem{}, err
	}
	basePrice, err := req.BasePrice.toDomain()
	if err != nil {
		return domain.NewItem{}, err
	}
	prices, err := channelPrices(req.ChannelPrices)
	if err != nil {
		return domain.NewItem{}, err
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		return domain.NewItem{}, err
	}

	in := domain.NewItem{
		Name:          name,
		Description:   description,
		BasePrice:     basePrice,
		ChannelPrices: prices,
		Tags:          tags,
		ImageURL:      req.ImageURL,
		Available:     req.Available,
	}
	if req.Inventory != nil {
		inv, err := req.Inventory.toDomain()
		if err != nil {
			return domain.NewItem{}, err
		}
		in.Inventory = &inv
	}

	return in, nil
}

// removeItemHandler godoc
//
//	@Summary	Remove menu item
//	@Tags		items
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Param		category_id	path		string	true	"Category ID"
//	@Param		item_id		path		string	true	"Item ID"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id} [delete]
func (app *application) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	app.itemCommand(w, r, func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error) {
		return m.RemoveItem(categoryID, itemID)
	})
}

// updateItemDetailsHandler godoc
//
//	@Summary	Update item name, description and image
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string						true	"Tenant ID"
//	@Param		menu_id		path		string						true	"Menu ID"
//	@Param		category_id	path		string						true	"Category ID"
//	@Param		item_id		path		string						true	"Item ID"
//	@Param		request		body		UpdateItemDetailsRequest	true	"Details"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id}/details [put]
func (app *application) updateItemDetailsHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemDetailsRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	name, err := localizedText(req.Name)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	description, err := localizedText(req.Description)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.itemCommand(w, r, func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error) {
		return m.UpdateItemDetails(categoryID, itemID, name, description, req.ImageURL)
	})
}

// updateItemPricingHandler godoc
//
//	@Summary	Update item prices
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string						true	"Tenant ID"
//	@Param		menu_id		path		string						true	"Menu ID"
//	@Param		category_id	path		string						true	"Category ID"
//	@Param		item_id		path		string						true	"Item ID"
//	@Param		request		body		UpdateItemPricingRequest	true	"Pricing"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id}/pricing [put]
func (app *application) updateItemPricingHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemPricingRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	basePrice, err := req.BasePrice.toDomain()
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	prices, err := channelPrices(req.ChannelPrices)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.itemCommand(w, r, func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error) {
		return m.UpdateItemPricing(categoryID, itemID, basePrice, prices)
	})
}

// updateItemTagsHandler godoc
//
//	@Summary	Replace item tags
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string					true	"Tenant ID"
//	@Param		menu_id		path		string					true	"Menu ID"
//	@Param		category_id	path		string					true	"Category ID"
//	@Param		item_id		path		string					true	"Item ID"
//	@Param		request		body		UpdateItemTagsRequest	true	"Tags"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id}/tags [put]
func (app *application) updateItemTagsHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemTagsRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	tags, err := parseTags(req.Tags)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.itemCommand(w, r, func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error) {
		return m.UpdateItemTags(categoryID, itemID, tags)
	})
}

// updateItemAvailabilityHandler godoc
//
//	@Summary	Set the merchant's availability flag
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string							true	"Tenant ID"
//	@Param		menu_id		path		string							true	"Menu ID"
//	@Param		category_id	path		string							true	"Category ID"
//	@Param		item_id		path		string							true	"Item ID"
//	@Param		request		body		UpdateItemAvailabilityRequest	true	"Availability"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id}/availability [put]
func (app *application) updateItemAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemAvailabilityRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	app.itemCommand(w, r, func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error) {
		return m.UpdateItemAvailability(categoryID, itemID, *req.Available)
	})
}

// updateItemInventoryHandler godoc
//
//	@Summary	Replace item inventory policy
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string				true	"Tenant ID"
//	@Param		menu_id		path		string				true	"Menu ID"
//	@Param		category_id	path		string				true	"Category ID"
//	@Param		item_id		path		string				true	"Item ID"
//	@Param		request		body		InventoryRequest	true	"Inventory"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id}/inventory [put]
func (app *application) updateItemInventoryHandler(w http.ResponseWriter, r *http.Request) {
	var req InventoryRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	inv, err := req.toDomain()
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.itemCommand(w, r, func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error) {
		return m.UpdateItemInventory(categoryID, itemID, inv)
	})
}

// adjustInventoryHandler godoc
//
//	@Summary		Adjust tracked stock
//	@Description	Applies a stock delta now, or queues it when async is set
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string					true	"Tenant ID"
//	@Param			menu_id		path		string					true	"Menu ID"
//	@Param			category_id	path		string					true	"Category ID"
//	@Param			item_id		path		string					true	"Item ID"
//	@Param			request		body		AdjustInventoryRequest	true	"Adjustment"
//	@Success		200			{object}	MenuView
//	@Success		202			{object}	map[string]interface{}
//	@Failure		422			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/{item_id}/inventory/adjust [post]
func (app *application) adjustInventoryHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, menuID, ok := app.menuParams(w, r)
	if !ok {
		return
	}
	categoryID, itemID, ok := app.itemParams(w, r)
	if !ok {
		return
	}

	var req AdjustInventoryRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	if req.Async {
		err := app.catalogService.RequestInventoryAdjustment(r.Context(), domain.InventoryAdjustmentMessage{
			TenantID:   tenantID.String(),
			MenuID:     menuID.String(),
			CategoryID: categoryID.String(),
			ItemID:     itemID.String(),
			Delta:      req.Delta,
			Reason:     req.Reason,
		})
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}

		response := map[string]interface{}{
			"success": true,
			"message": "Inventory adjustment queued",
		}
		if err := app.jsonRespone(w, http.StatusAccepted, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	menu, err := app.catalogService.AdjustInventory(r.Context(), tenantID, menuID, categoryID, itemID, req.Delta)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, newMenuView(menu)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// reorderItemsHandler godoc
//
//	@Summary		Reorder items of a category
//	@Description	ids must list every item of the category exactly once
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string			true	"Tenant ID"
//	@Param			menu_id		path		string			true	"Menu ID"
//	@Param			category_id	path		string			true	"Category ID"
//	@Param			request		body		ReorderRequest	true	"New order"
//	@Success		200			{object}	MenuView
//	@Router			/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/items/order [put]
func (app *application) reorderItemsHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuidParam(r, "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req ReorderRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		return m.ReorderMenuItems(categoryID, ids)
	})
}

func (app *application) itemParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	categoryID, err := uuidParam(r, "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err := uuidParam(r, "item_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return categoryID, itemID, true
}

func (app *application) itemCommand(w http.ResponseWriter, r *http.Request, op func(m *domain.Menu, categoryID, itemID uuid.UUID) ([]domain.Event, error)) {
	categoryID, itemID, ok := app.itemParams(w, r)
	if !ok {
		return
	}

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		return op(m, categoryID, itemID)
	})
}
