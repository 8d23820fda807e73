package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exostandards/application"
	"exostandards/database"
	"exostandards/infrastructure/config"
	"exostandards/logging"
	"exostandards/test/helpers"
)

func newTestDependencies(t *testing.T) (*Dependencies, *config.AppConfig) {
	t.Helper()
	cfg := config.LoadAppConfigFromEnv()
	cfg.Database.Path = filepath.Join(t.TempDir(), "server.db")

	logger := logging.NewLogger(&logging.Config{Level: "error"})
	db, err := database.New(*cfg.Database, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := helpers.NewMockCollaborators()
	services := &ApplicationServices{
		SendReceiveLimit: application.NewSendReceiveLimitService(application.StandardDependencies{
			Licenses: m.Licenses, Plans: m.Plans, Logs: m.Logs, Alerts: m.Alerts, Reports: m.Reports, Normalizer: m.Normalizer,
		}),
		Compliance: application.NewTenantComplianceService(nil, nil, nil),
	}

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		Services:     services,
		Presentation: buildPresentationLayer(services, cfg),
	}, cfg
}

func TestSetupRoutes_Health(t *testing.T) {
	deps, cfg := newTestDependencies(t)
	router := setupRoutes(deps, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotNil(t, body["database"])
}

func TestSetupRoutes_UnknownRoute(t *testing.T) {
	deps, cfg := newTestDependencies(t)
	router := setupRoutes(deps, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tenants/contoso/nothing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDToLogger(t *testing.T) {
	var seen string
	handler := middleware.RequestID(requestIDToLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(logging.RequestIDKey).(string)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", seen)
}
