package main

import (
	"net/http"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/google/uuid"
)

type AddCategoryRequest struct {
	Name         map[string]string `json:"name" validate:"required,min=1"`
	Icon         string            `json:"icon" validate:"omitempty,max=256"`
	DisplayOrder *int              `json:"display_order" validate:"omitempty,min=0"`
}

type UpdateCategoryRequest struct {
	Name         map[string]string `json:"name" validate:"required,min=1"`
	Icon         string            `json:"icon" validate:"omitempty,max=256"`
	DisplayOrder *int              `json:"display_order" validate:"required,min=0"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,dive,uuid"`
}

// addCategoryHandler godoc
//
//	@Summary		Add category
//	@Description	Adds a category; without display_order it goes last
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string				true	"Tenant ID"
//	@Param			menu_id		path		string				true	"Menu ID"
//	@Param			request		body		AddCategoryRequest	true	"Category"
//	@Success		200			{object}	MenuView
//	@Failure		400			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus/{menu_id}/categories [post]
func (app *application) addCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCategoryRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	name, err := localizedText(req.Name)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		_, events, err := m.AddCategory(name, req.Icon, req.DisplayOrder)
		return events, err
	})
}

// updateCategoryHandler godoc
//
//	@Summary	Update category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string					true	"Tenant ID"
//	@Param		menu_id		path		string					true	"Menu ID"
//	@Param		category_id	path		string					true	"Category ID"
//	@Param		request		body		UpdateCategoryRequest	true	"Category"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id} [put]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuidParam(r, "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req UpdateCategoryRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	name, err := localizedText(req.Name)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		return m.UpdateCategory(categoryID, name, *req.DisplayOrder, req.Icon)
	})
}

// removeCategoryHandler godoc
//
//	@Summary	Remove category with its items
//	@Tags		categories
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Param		category_id	path		string	true	"Category ID"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id} [delete]
func (app *application) removeCategoryHandler(w http.ResponseWriter, r *http.Request) {
	app.categoryCommand(w, r, (*domain.Menu).RemoveCategory)
}

// archiveCategoryHandler godoc
//
//	@Summary	Archive category
//	@Tags		categories
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Param		category_id	path		string	true	"Category ID"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/archive [post]
func (app *application) archiveCategoryHandler(w http.ResponseWriter, r *http.Request) {
	app.categoryCommand(w, r, (*domain.Menu).ArchiveCategory)
}

// restoreCategoryHandler godoc
//
//	@Summary	Restore category
//	@Tags		categories
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Param		category_id	path		string	true	"Category ID"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/categories/{category_id}/restore [post]
func (app *application) restoreCategoryHandler(w http.ResponseWriter, r *http.Request) {
	app.categoryCommand(w, r, (*domain.Menu).RestoreCategory)
}

// reorderCategoriesHandler godoc
//
//	@Summary		Reorder categories
//	@Description	ids must list every category of the menu exactly once
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string			true	"Tenant ID"
//	@Param			menu_id		path		string			true	"Menu ID"
//	@Param			request		body		ReorderRequest	true	"New order"
//	@Success		200			{object}	MenuView
//	@Failure		409			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus/{menu_id}/categories/order [put]
func (app *application) reorderCategoriesHandler(w http.ResponseWriter, r *http.Request) {
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
		return m.ReorderCategories(ids)
	})
}

func (app *application) categoryCommand(w http.ResponseWriter, r *http.Request, op func(*domain.Menu, uuid.UUID) ([]domain.Event, error)) {
	categoryID, err := uuidParam(r, "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		return op(m, categoryID)
	})
}
