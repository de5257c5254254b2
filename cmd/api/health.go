package main

import (
	"context"
	"net/http"
	"time"
)

const (
	statusOK       = "ok"
	statusError    = "error"
	statusMemory   = "memory"
	statusDisabled = "disabled"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// healthcheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Reports the state of the database and the queue
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Version:   version,
		Timestamp: time.Now().UTC(),
		Services: map[string]string{
			"database": app.databaseStatus(r.Context()),
			"queue":    app.queueStatus(),
		},
	}

	status := http.StatusOK
	if response.Services["database"] == statusError {
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	if err := writeJson(w, status, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) databaseStatus(ctx context.Context) string {
	if app.storage == nil {
		return statusMemory
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := app.storage.Ping(ctx); err != nil {
		app.logger.Warnw("database ping failed", "error", err)
		return statusError
	}
	return statusOK
}

// queueStatus only tells whether a broker is wired; a broker that cannot
// connect stops the process at startup.
func (app *application) queueStatus() string {
	if app.broker == nil {
		return statusDisabled
	}
	return statusOK
}
