package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/ratelimiter"
	"github.com/Beka01247/kwaaka-menu/internal/service"
	"github.com/Beka01247/kwaaka-menu/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()
	db := memory.New()
	logger := zap.NewNop().Sugar()

	return &application{
		config:            config{addr: ":0", env: "test"},
		logger:            logger,
		catalogService:    service.NewCatalogService(db.Menus(), db.MenuEvents(), db, nil, logger),
		publishingService: service.NewPublishingService(db.Menus(), db.Publications(), db.MenuEvents(), db, nil, logger),
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

type menuResponse struct {
	ID               uuid.UUID `json:"id"`
	PublishedVersion int       `json:"published_version"`
	Categories       []struct {
		ID    uuid.UUID `json:"id"`
		Items []struct {
			ID          uuid.UUID `json:"id"`
			IsAvailable bool      `json:"is_available"`
			Inventory   struct {
				Quantity *int `json:"quantity"`
			} `json:"inventory"`
		} `json:"items"`
	} `json:"categories"`
}

type snapshotResponse struct {
	MenuID     uuid.UUID `json:"menuId"`
	Version    int       `json:"version"`
	Categories []struct {
		Items []struct {
			BasePrice string   `json:"basePrice"`
			Tags      []string `json:"tags"`
		} `json:"items"`
	} `json:"categories"`
}

func TestMenuLifecycleOverHTTP(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()
	tenant := uuid.New()
	base := fmt.Sprintf("/api/v1/tenants/%s/menus", tenant)

	rr := do(t, mux, http.MethodPost, base, map[string]any{"name": map[string]string{"en": "Main"}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var menu menuResponse
	decodeData(t, rr, &menu)
	menuPath := base + "/" + menu.ID.String()

	rr = do(t, mux, http.MethodPost, menuPath+"/categories", map[string]any{"name": map[string]string{"en": "Kebabs"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &menu)
	require.Len(t, menu.Categories, 1)
	categoryPath := fmt.Sprintf("%s/categories/%s", menuPath, menu.Categories[0].ID)

	rr = do(t, mux, http.MethodPost, categoryPath+"/items", map[string]any{
		"name":       map[string]string{"en": "Adana"},
		"base_price": map[string]string{"amount": "12.50", "currency": "USD"},
		"tags":       []string{"Spicy"},
		"inventory":  map[string]any{"mode": "Track", "quantity": 1},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &menu)
	require.Len(t, menu.Categories[0].Items, 1)
	itemPath := fmt.Sprintf("%s/items/%s", categoryPath, menu.Categories[0].Items[0].ID)

	rr = do(t, mux, http.MethodPost, menuPath+"/publish", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var snap snapshotResponse
	decodeData(t, rr, &snap)
	assert.Equal(t, 1, snap.Version)
	require.Len(t, snap.Categories, 1)
	require.Len(t, snap.Categories[0].Items, 1)
	assert.Equal(t, "12.5", snap.Categories[0].Items[0].BasePrice)
	assert.Equal(t, []string{"Spicy"}, snap.Categories[0].Items[0].Tags)

	rr = do(t, mux, http.MethodPost, itemPath+"/inventory/adjust", map[string]any{"delta": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	rr = do(t, mux, http.MethodPost, itemPath+"/inventory/adjust", map[string]any{"delta": -1})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &menu)
	item := menu.Categories[0].Items[0]
	assert.False(t, item.IsAvailable)
	require.NotNil(t, item.Inventory.Quantity)
	assert.Equal(t, 0, *item.Inventory.Quantity)

	// the published snapshot is unaffected by later edits
	rr = do(t, mux, http.MethodGet, fmt.Sprintf("/api/v1/public/tenants/%s/menu", tenant), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &snap)
	assert.Equal(t, menu.ID, snap.MenuID)
	assert.Equal(t, 1, snap.Version)

	rr = do(t, mux, http.MethodGet, fmt.Sprintf("/api/v1/public/tenants/%s/menus/%s/versions/1", tenant, menu.ID), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, mux, http.MethodGet, fmt.Sprintf("/api/v1/public/tenants/%s/menus/%s/versions/2", tenant, menu.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, mux, http.MethodGet, fmt.Sprintf("/api/v1/public/tenants/%s/menus/%s/versions/0", tenant, menu.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, mux, http.MethodPost, menuPath+"/archive", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = do(t, mux, http.MethodPost, menuPath+"/publish", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = do(t, mux, http.MethodGet, menuPath+"/events?limit=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var events []struct {
		EventType string `json:"event_type"`
	}
	decodeData(t, rr, &events)
	require.Len(t, events, 2)
	assert.Equal(t, "menu.archived", events[0].EventType)
}

func TestErrorStatusCodes(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()
	tenant := uuid.New()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"invalid tenant", http.MethodGet, "/api/v1/tenants/abc/menus", nil, http.StatusBadRequest},
		{"unknown menu", http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/menus/%s", tenant, uuid.New()), nil, http.StatusNotFound},
		{"nothing published", http.MethodGet, fmt.Sprintf("/api/v1/public/tenants/%s/menu", tenant), nil, http.StatusNotFound},
		{"missing name", http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/menus", tenant), map[string]any{}, http.StatusBadRequest},
		{"unsupported culture", http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/menus", tenant), map[string]any{"name": map[string]string{"xx": "Main"}}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/menus", tenant), map[string]any{"name": map[string]string{"en": "Main"}, "colour": "red"}, http.StatusBadRequest},
		{"bad limit", http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/menus/%s/events?limit=0", tenant, uuid.New()), nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, mux, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t)

	rr := do(t, app.mount(), http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, version, resp.Version)
	assert.Equal(t, "memory", resp.Services["database"])
	assert.Equal(t, "disabled", resp.Services["queue"])
}

func TestRateLimiterMiddleware(t *testing.T) {
	app := newTestApplication(t)
	app.config.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: true}
	app.rateLimiter = ratelimiter.NewTokenBucketLimiter(1, time.Minute)
	mux := app.mount()

	rr := do(t, mux, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, mux, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}
