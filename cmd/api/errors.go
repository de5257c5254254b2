package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/domain"
	"github.com/Beka01247/kwaaka-menu/internal/repo"
)

var (
	ErrInvalidID      = errors.New("invalid ID format")
	errInvalidLimit   = errors.New("limit must be a positive integer")
	errInvalidVersion = errors.New("version must be a positive integer")
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusNotFound, "not found")
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusConflict, err.Error())
}

func (app *application) unprocessableEntityResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unprocessable entity", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJsonError(w, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	seconds := int(retryAfter.Seconds()) + 1
	w.Header().Set("Retry-After", strconv.Itoa(seconds))

	writeJsonError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+strconv.Itoa(seconds)+"s")
}

// errorResponse maps service and domain errors to a status code.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch kind := domain.KindOf(err); {
	case errors.Is(err, repo.ErrNotFound), kind == domain.KindNotFound:
		app.notFoundError(w, r, err)
	case errors.Is(err, repo.ErrConcurrentUpdate), kind == domain.KindConflict:
		app.conflictResponse(w, r, err)
	case kind == domain.KindValidation:
		app.badRequestResponse(w, r, err)
	case kind == domain.KindInvariant:
		app.unprocessableEntityResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
