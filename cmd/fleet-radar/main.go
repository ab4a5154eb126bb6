package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prasertsri/fleet-radar/internal/fleet"
	"github.com/prasertsri/fleet-radar/internal/handlers"
	"github.com/prasertsri/fleet-radar/internal/metrics_collectors"
	"github.com/prasertsri/fleet-radar/internal/service_registry"
	"github.com/prasertsri/fleet-radar/internal/services"
	"github.com/prasertsri/fleet-radar/internal/transport"
	"github.com/prasertsri/fleet-radar/internal/transport/mqttbridge"
	"github.com/prasertsri/fleet-radar/internal/transport/ws"
	"github.com/prasertsri/fleet-radar/internal/utils"
	"github.com/prasertsri/fleet-radar/pkg/bolt"
	"github.com/prasertsri/fleet-radar/pkg/file"
	"github.com/prasertsri/fleet-radar/pkg/mqtt"
	"github.com/rs/zerolog"
)

func main() {
	// Set up structured logging with JSON output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize file operations handler
	fileClient := file.NewFileService()

	// Load configuration from file
	configPath := os.Getenv("FLEET_RADAR_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	config, err := utils.LoadConfig(configPath, fileClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := config.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	locations := config.LocationSet()
	logger.Info().
		Int("locations", len(locations)).
		Int("workers", config.Fetch.Workers).
		Int("interval_seconds", config.Fetch.IntervalSeconds).
		Bool("test_mode", config.Fetch.TestMode).
		Msg("Starting fleet-radar")

	// Websocket hub is always on; the MQTT bridge only when configured.
	hub := ws.NewHub(logger)
	publishers := []transport.Publisher{hub}

	var mqttClient *mqtt.MqttService
	if config.MQTT.Enabled {
		// Generate a unique MQTT Client ID by appending a UUID
		clientID := config.MQTT.ClientID + "-" + uuid.New().String()

		mqttClient = mqtt.NewMqttService(fileClient)
		if err := mqttClient.Initialize(config.MQTT.Broker, clientID, config.MQTT.CACertificate); err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
		}
		publishers = append(publishers, mqttbridge.New(config.MQTT.Topic, config.MQTT.QOS, mqttClient, logger))
	}

	var fetcher fleet.Fetcher
	if config.Fetch.TestMode {
		fetcher = fleet.NewSyntheticFetcher(time.Now().UnixNano(), logger)
	} else {
		credentials := bolt.NewSession(
			config.Bolt.AuthToken,
			config.Bolt.DeviceID,
			config.Bolt.DeviceName,
			config.Bolt.DeviceOSVersion,
			config.Bolt.UserID,
			config.Bolt.Country,
			config.Bolt.Language,
		)
		client := bolt.NewHTTPClient(config.Bolt.Endpoint, config.FetchTimeout(),
			config.Fetch.ViewportPadding, credentials, logger)
		fetcher = fleet.NewCoordinator(client, config.Fetch.Workers, logger)
	}

	broadcast := services.NewBroadcastService(config.FetchInterval(), locations,
		fetcher, transport.NewFanout(publishers...), logger)

	// Create a new service registry to manage long-running services
	registry := service_registry.NewServiceRegistry(logger)
	registry.RegisterService("broadcast", broadcast)

	if err := registry.StartServices(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start services")
	}

	// Wire the route layer
	engine := gin.Default()
	router := handlers.NewRouter(broadcast, hub, metrics_collectors.NewRegistry(logger),
		config.Fetch.TestMode, logger)
	router.Register(engine)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.HTTP.Port),
		Handler: engine,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	logger.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := registry.StopServices(); err != nil {
		logger.Error().Err(err).Msg("Service shutdown failed")
	}
	if mqttClient != nil {
		mqttClient.Disconnect(250)
	}
}
