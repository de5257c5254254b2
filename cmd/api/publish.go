package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

var errNotPublished = errors.New("menu has not been published")

type PublishMenuRequest struct {
	RequestedBy string `json:"requested_by" validate:"max=128"`
	// Async queues the publish for the publish worker.
	Async bool `json:"async"`
}

// publishMenuHandler godoc
//
//	@Summary		Publish menu
//	@Description	Freezes the current menu as the next version
//	@Tags			publishing
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string				true	"Tenant ID"
//	@Param			menu_id		path		string				true	"Menu ID"
//	@Param			request		body		PublishMenuRequest	false	"Options"
//	@Success		201			{object}	publication.PublishedMenu
//	@Success		202			{object}	map[string]interface{}
//	@Failure		404			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/menus/{menu_id}/publish [post]
func (app *application) publishMenuHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, menuID, ok := app.menuParams(w, r)
	if !ok {
		return
	}

	var req PublishMenuRequest
	if r.ContentLength != 0 && r.Body != http.NoBody {
		if !app.readRequest(w, r, &req) {
			return
		}
	}

	if req.Async {
		if err := app.publishingService.RequestPublish(r.Context(), tenantID, menuID, req.RequestedBy); err != nil {
			app.internalServerError(w, r, err)
			return
		}

		response := map[string]interface{}{
			"success": true,
			"message": "Publish queued",
		}
		if err := app.jsonRespone(w, http.StatusAccepted, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	snapshot, err := app.publishingService.Publish(r.Context(), tenantID, menuID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, snapshot); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPublishedMenuHandler godoc
//
//	@Summary		Latest published menu
//	@Description	Newest snapshot of the tenant, or of one menu when menu_id is given
//	@Tags			public
//	@Produce		json
//	@Param			tenant_id	path		string	true	"Tenant ID"
//	@Param			menu_id		path		string	false	"Menu ID"
//	@Success		200			{object}	publication.PublishedMenu
//	@Failure		404			{object}	map[string]string
//	@Router			/public/tenants/{tenant_id}/menu [get]
//	@Router			/public/tenants/{tenant_id}/menus/{menu_id} [get]
func (app *application) getPublishedMenuHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuidParam(r, "tenant_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var menuID *uuid.UUID
	if chi.URLParam(r, "menu_id") != "" {
		id, err := uuidParam(r, "menu_id")
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		menuID = &id
	}

	snapshot, err := app.publishingService.Latest(r.Context(), tenantID, menuID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if snapshot == nil {
		app.notFoundError(w, r, errNotPublished)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, snapshot); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMenuVersionHandler godoc
//
//	@Summary	Published menu version
//	@Tags		public
//	@Produce	json
//	@Param		tenant_id	path		string	true	"Tenant ID"
//	@Param		menu_id		path		string	true	"Menu ID"
//	@Param		version		path		int		true	"Version"
//	@Success	200			{object}	publication.PublishedMenu
//	@Failure	404			{object}	map[string]string
//	@Router		/public/tenants/{tenant_id}/menus/{menu_id}/versions/{version} [get]
func (app *application) getMenuVersionHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, menuID, ok := app.menuParams(w, r)
	if !ok {
		return
	}

	version, err := intParam(r, "version")
	if err != nil || version < 1 {
		app.badRequestResponse(w, r, errInvalidVersion)
		return
	}

	snapshot, err := app.publishingService.Version(r.Context(), tenantID, menuID, version)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if snapshot == nil {
		app.notFoundError(w, r, errNotPublished)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, snapshot); err != nil {
		app.internalServerError(w, r, err)
	}
}
