package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasertsri/fleet-radar/internal/metrics_collectors"
	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/internal/services"
	"github.com/prasertsri/fleet-radar/internal/transport/ws"
	"github.com/rs/zerolog"
)

const vehiclesSampleSize = 5

// Router exposes the snapshot pipeline over HTTP and upgrades websocket
// subscribers. It is a thin layer: all pipeline behavior lives in the
// broadcast service.
type Router struct {
	broadcast *services.BroadcastService
	hub       *ws.Hub
	metrics   *metrics_collectors.Registry
	testMode  bool
	logger    zerolog.Logger
}

// NewRouter creates the route layer around the given collaborators.
func NewRouter(broadcast *services.BroadcastService, hub *ws.Hub,
	metrics *metrics_collectors.Registry, testMode bool, logger zerolog.Logger) *Router {
	return &Router{
		broadcast: broadcast,
		hub:       hub,
		metrics:   metrics,
		testMode:  testMode,
		logger:    logger,
	}
}

// Register attaches all routes to the engine.
func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/api/health", r.health)
	engine.GET("/api/locations", r.listLocations)
	engine.GET("/api/vehicles", r.latestVehicles)
	engine.GET("/api/test", r.testFetch)
	engine.GET("/ws", gin.WrapF(r.hub.HandleConnection))
}

// health reports process liveness, system stats and the last cycle outcome.
func (r *Router) health(c *gin.Context) {
	body := gin.H{
		"status":      "ok",
		"subscribers": r.hub.SubscriberCount(),
		"system":      r.metrics.CollectAll(c.Request.Context()),
	}

	if last := r.broadcast.LastSnapshot(); last != nil {
		body["last_cycle"] = gin.H{
			"generated_at":     last.GeneratedAt,
			"vehicle_count":    last.Count,
			"locations_total":  last.LocationsTotal,
			"failed_locations": len(last.FailedLocations),
			"fetch_time":       last.FetchDurationSeconds,
		}
	}

	c.JSON(http.StatusOK, body)
}

// listLocations returns the static configured vantage point set.
func (r *Router) listLocations(c *gin.Context) {
	locations := r.broadcast.Locations()
	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// latestVehicles returns the most recently broadcast snapshot.
func (r *Router) latestVehicles(c *gin.Context) {
	last := r.broadcast.LastSnapshot()
	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, last)
}

// testFetch runs one synchronous fetch+merge cycle outside the broadcast
// cadence and returns the snapshot with a small vehicle sample.
func (r *Router) testFetch(c *gin.Context) {
	snapshot := r.broadcast.Snapshot(c.Request.Context())

	mode := "REAL"
	if r.testMode {
		mode = "TEST"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"mode":              mode,
		"vehicle_count":     snapshot.Count,
		"locations_count":   snapshot.LocationsTotal,
		"fetch_time":        fmt.Sprintf("%.2fs", snapshot.FetchDurationSeconds),
		"success_locations": snapshot.SuccessLocations,
		"failed_locations":  snapshot.FailedLocations,
		"vehicles_sample":   sampleVehicles(snapshot.Vehicles),
	})
}

func sampleVehicles(vehicles []models.Vehicle) []models.Vehicle {
	if len(vehicles) <= vehiclesSampleSize {
		return vehicles
	}
	return vehicles[:vehiclesSampleSize]
}
