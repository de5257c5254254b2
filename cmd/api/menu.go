package main

import (
	"net/http"
	"strconv"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/service"
)

type CreateMenuRequest struct {
	Name        map[string]string `json:"name" validate:"required,min=1"`
	Description map[string]string `json:"description"`
}

type UpdateMenuRequest struct {
	Name        map[string]string `json:"name" validate:"required,min=1"`
	Description map[string]string `json:"description"`
	IsDefault   *bool             `json:"is_default"`
}

// createMenuHandler godoc
//
//	@Summary		Create menu
//	@Description	Creates an empty menu for the tenant
//	@Tags			menus
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string				true	"Tenant ID"
//	@Param			request		body		CreateMenuRequest	true	"Menu"
//	@Success		201			{object}	MenuView
//	@Failure		400			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus [post]
func (app *application) createMenuHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuidParam(r, "tenant_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req CreateMenuRequest
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

	menu, err := app.catalogService.CreateMenu(r.Context(), tenantID, name, description)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, newMenuView(menu)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMenusHandler godoc
//
//	@Summary	List menus
//	@Tags		menus
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Success	200			{array}		MenuView
//	@Router		/tenants/{tenant_id}/menus [get]
func (app *application) listMenusHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuidParam(r, "tenant_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	menus, err := app.catalogService.ListMenus(r.Context(), tenantID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	views := make([]MenuView, 0, len(menus))
	for _, m := range menus {
		views = append(views, newMenuView(m))
	}

	if err := app.jsonRespone(w, http.StatusOK, views); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMenuHandler godoc
//
//	@Summary		Get menu by ID
//	@Description	Get the working copy of a menu, archived categories included
//	@Tags			menus
//	@Produce		json
//	@Param			tenant_id	path		string	true	"Tenant ID"
//	@Param			menu_id		path		string	true	"Menu ID"
//	@Success		200			{object}	MenuView
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus/{menu_id} [get]
func (app *application) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, menuID, ok := app.menuParams(w, r)
	if !ok {
		return
	}

	menu, err := app.catalogService.GetMenu(r.Context(), tenantID, menuID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, newMenuView(menu)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateMenuHandler godoc
//
//	@Summary	Rename menu or change its default flag
//	@Tags		menus
//	@Accept		json
//	@Produce	json
//	@Param		tenant_id	path		string				true	"Tenant ID"
//	@Param		menu_id		path		string				true	"Menu ID"
//	@Param		request		body		UpdateMenuRequest	true	"Menu"
//	@Success	200			{object}	MenuView
//	@Failure	409			{object}	map[string]string
//	@Router		/tenants/{tenant_id}/menus/{menu_id} [patch]
func (app *application) updateMenuHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateMenuRequest
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

	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		events, err := m.Rename(name, description)
		if err != nil {
			return nil, err
		}
		if req.IsDefault != nil {
			more, err := m.SetDefault(*req.IsDefault)
			if err != nil {
				return nil, err
			}
			events = append(events, more...)
		}
		return events, nil
	})
}

// archiveMenuHandler godoc
//
//	@Summary	Archive menu
//	@Tags		menus
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/archive [post]
func (app *application) archiveMenuHandler(w http.ResponseWriter, r *http.Request) {
	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		return m.Archive(), nil
	})
}

// restoreMenuHandler godoc
//
//	@Summary	Restore archived menu
//	@Tags		menus
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Success	200			{object}	MenuView
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/restore [post]
func (app *application) restoreMenuHandler(w http.ResponseWriter, r *http.Request) {
	app.executeMenuCommand(w, r, func(m *domain.Menu) ([]domain.Event, error) {
		return m.Restore(), nil
	})
}

// getMenuEventsHandler godoc
//
//	@Summary	Menu event log
//	@Tags		menus
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Param		limit		query		int		false	"Max events"
//	@Success	200			{array}		domain.MenuEventRecord
//	@Router		/tenants/{tenant_id}/menus/{menu_id}/events [get]
func (app *application) getMenuEventsHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, menuID, ok := app.menuParams(w, r)
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			app.badRequestResponse(w, r, errInvalidLimit)
			return
		}
		limit = v
	}

	records, err := app.catalogService.MenuEvents(r.Context(), tenantID, menuID, limit)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, records); err != nil {
		app.internalServerError(w, r, err)
	}
}

// executeMenuCommand runs cmd against the menu of the route and renders the
// updated menu.
func (app *application) executeMenuCommand(w http.ResponseWriter, r *http.Request, cmd service.MenuCommand) {
	tenantID, menuID, ok := app.menuParams(w, r)
	if !ok {
		return
	}

	menu, err := app.catalogService.Execute(r.Context(), tenantID, menuID, cmd)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, newMenuView(menu)); err != nil {
		app.internalServerError(w, r, err)
	}
}
