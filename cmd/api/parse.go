package main

import (
	"net/http"

	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateParseTaskRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
	MenuName      string `json:"menu_name" validate:"required,max=1024"`
	Culture       string `json:"culture" validate:"omitempty,max=16"`
}

// createParseTaskHandler godoc
//
//	@Summary		Create menu import task
//	@Description	Imports a menu from Google Sheets into the tenant's catalog
//	@Tags			imports
//	@Accept			json
//	@Produce		json
//	@Param			tenant_id	path		string					true	"Tenant ID"
//	@Param			request		body		CreateParseTaskRequest	true	"Import task request"
//	@Success		201			{object}	map[string]string
//	@Failure		400			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/imports [post]
func (app *application) createParseTaskHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuidParam(r, "tenant_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req CreateParseTaskRequest
	if !app.readRequest(w, r, &req) {
		return
	}

	taskID, err := app.importService.CreateParsingTask(r.Context(), tenantID, req.SpreadsheetID, req.MenuName, req.Culture)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	response := map[string]string{
		"task_id": taskID.Hex(),
		"status":  "queued",
	}

	if err := app.jsonRespone(w, http.StatusCreated, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getParseTaskHandler godoc
//
//	@Summary		Get import task status
//	@Description	Get the status of a menu import task
//	@Tags			imports
//	@Produce		json
//	@Param			tenant_id	path		string	true	"Tenant ID"
//	@Param			task_id		path		string	true	"Task ID"
//	@Success		200			{object}	domain.ParsingTask
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/tenants/{tenant_id}/imports/{task_id} [get]
func (app *application) getParseTaskHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuidParam(r, "tenant_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	taskIDStr := chi.URLParam(r, "task_id")
	if taskIDStr == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(taskIDStr)
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	task, err := app.importService.GetTaskStatus(r.Context(), taskID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	// tasks of other tenants are invisible
	if task.TenantID != tenantID.String() {
		app.notFoundError(w, r, ErrInvalidID)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, task); err != nil {
		app.internalServerError(w, r, err)
	}
}
