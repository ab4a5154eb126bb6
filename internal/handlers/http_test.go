package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prasertsri/fleet-radar/internal/fleet"
	"github.com/prasertsri/fleet-radar/internal/handlers"
	"github.com/prasertsri/fleet-radar/internal/metrics_collectors"
	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/internal/services"
	"github.com/prasertsri/fleet-radar/internal/transport"
	"github.com/prasertsri/fleet-radar/internal/transport/ws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routeLocations = []models.Location{
	{ID: "city_center", DisplayName: "City Center", Lat: 18.7883, Lng: 98.9853},
	{ID: "nimman", DisplayName: "Nimman", Lat: 18.8002, Lng: 98.9679},
}

func newTestEngine(t *testing.T) (*gin.Engine, *services.BroadcastService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	hub := ws.NewHub(logger)
	broadcast := services.NewBroadcastService(
		time.Second,
		routeLocations,
		fleet.NewSyntheticFetcher(1, logger),
		transport.NewFanout(hub),
		logger,
	)

	engine := gin.New()
	router := handlers.NewRouter(broadcast, hub, metrics_collectors.NewRegistry(logger), true, logger)
	router.Register(engine)
	return engine, broadcast
}

func doRequest(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(recorder, req)
	return recorder
}

// TestRouter_ListLocations verifies the static location accessor.
func TestRouter_ListLocations(t *testing.T) {
	engine, _ := newTestEngine(t)

	recorder := doRequest(engine, "/api/locations")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Locations []models.Location `json:"locations"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Locations, 2)
	assert.Equal(t, "city_center", body.Locations[0].ID)
}

// TestRouter_TestFetch verifies the synchronous one-cycle route.
func TestRouter_TestFetch(t *testing.T) {
	engine, _ := newTestEngine(t)

	recorder := doRequest(engine, "/api/test")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Success        bool             `json:"success"`
		Mode           string           `json:"mode"`
		VehicleCount   int              `json:"vehicle_count"`
		LocationsCount int              `json:"locations_count"`
		Sample         []models.Vehicle `json:"vehicles_sample"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, "TEST", body.Mode)
	assert.Equal(t, 2, body.LocationsCount)
	assert.Greater(t, body.VehicleCount, 0)
	assert.LessOrEqual(t, len(body.Sample), 5)
}

// TestRouter_LatestVehicles_NoSnapshotYet verifies the 404 before the first
// broadcast cycle completes.
func TestRouter_LatestVehicles_NoSnapshotYet(t *testing.T) {
	engine, _ := newTestEngine(t)

	recorder := doRequest(engine, "/api/vehicles")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// TestRouter_LatestVehicles_AfterCycle verifies the latest-snapshot route
// once the broadcast loop has run.
func TestRouter_LatestVehicles_AfterCycle(t *testing.T) {
	engine, broadcast := newTestEngine(t)

	require.NoError(t, broadcast.Start())
	require.Eventually(t, func() bool {
		return broadcast.LastSnapshot() != nil
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, broadcast.Stop())

	recorder := doRequest(engine, "/api/vehicles")
	require.Equal(t, http.StatusOK, recorder.Code)

	var snapshot models.FleetSnapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	assert.Equal(t, 2, snapshot.LocationsTotal)
	assert.Greater(t, snapshot.Count, 0)
}

// TestRouter_Health verifies the health route shape.
func TestRouter_Health(t *testing.T) {
	engine, _ := newTestEngine(t)

	recorder := doRequest(engine, "/api/health")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "system")
	assert.Contains(t, body, "subscribers")
}
