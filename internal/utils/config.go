package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/pkg/file"
)

// Default values applied by Validate when the configuration omits them.
const (
	DefaultFetchIntervalSeconds = 1
	DefaultFetchTimeoutSeconds  = 5
	DefaultWorkers              = 10
	DefaultViewportPadding      = 0.018
)

// Config represents the structure of the configuration file.
type Config struct {
	HTTP struct {
		Port int `yaml:"port"` // Port the route layer listens on
	} `yaml:"http"`

	Fetch struct {
		IntervalSeconds int     `yaml:"interval_seconds"` // Pause between broadcast cycles
		TimeoutSeconds  int     `yaml:"timeout_seconds"`  // Per-request timeout against the upstream API
		Workers         int     `yaml:"workers"`          // Maximum concurrent upstream requests
		ViewportPadding float64 `yaml:"viewport_padding"` // Degrees of bounding box around each pickup point
		TestMode        bool    `yaml:"test_mode"`        // Use synthetic vehicles instead of the live API
	} `yaml:"fetch"`

	Bolt struct {
		Endpoint        string `yaml:"endpoint"`          // Search-poll endpoint (defaults to production)
		AuthToken       string `yaml:"auth_token"`        // Bearer token for the upstream API
		DeviceID        string `yaml:"device_id"`         // Device identifier (generated when empty)
		DeviceName      string `yaml:"device_name"`       // Device name reported upstream
		DeviceOSVersion string `yaml:"device_os_version"` // Device OS version reported upstream
		UserID          string `yaml:"user_id"`           // Upstream user identifier
		Country         string `yaml:"country"`           // Country code sent with every request
		Language        string `yaml:"language"`          // Locale sent with every request
	} `yaml:"bolt"`

	MQTT struct {
		Enabled       bool   `yaml:"enabled"`        // Enable/disable the MQTT snapshot bridge
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID
		Topic         string `yaml:"topic"`          // Topic snapshots are published on
		QOS           int    `yaml:"qos"`            // MQTT QoS level for snapshot messages
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate (empty for plain TCP)
	} `yaml:"mqtt"`

	Locations []LocationConfig `yaml:"locations"`
}

// LocationConfig is one polling vantage point as written in the config file.
type LocationConfig struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	District string  `yaml:"district"`
	Type     string  `yaml:"type"`
	Priority int     `yaml:"priority"`
	Lat      float64 `yaml:"lat"`
	Lng      float64 `yaml:"lng"`
}

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate applies defaults and rejects configurations the system must not
// start with. Missing upstream credentials outside test mode are fatal.
func (c *Config) Validate() error {
	if len(c.Locations) == 0 {
		return errors.New("at least one polling location is required")
	}

	seen := make(map[string]struct{}, len(c.Locations))
	for _, loc := range c.Locations {
		if loc.ID == "" {
			return errors.New("every location needs an id")
		}
		if _, dup := seen[loc.ID]; dup {
			return fmt.Errorf("duplicate location id %q", loc.ID)
		}
		seen[loc.ID] = struct{}{}
	}

	if !c.Fetch.TestMode {
		if c.Bolt.AuthToken == "" {
			return errors.New("bolt.auth_token is required outside test mode")
		}
		if c.Bolt.UserID == "" {
			return errors.New("bolt.user_id is required outside test mode")
		}
	}

	if c.Fetch.IntervalSeconds <= 0 {
		c.Fetch.IntervalSeconds = DefaultFetchIntervalSeconds
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = DefaultFetchTimeoutSeconds
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = DefaultWorkers
	}
	if c.Fetch.ViewportPadding <= 0 {
		c.Fetch.ViewportPadding = DefaultViewportPadding
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}

	return nil
}

// FetchInterval returns the cycle interval as a duration.
func (c *Config) FetchInterval() time.Duration {
	return time.Duration(c.Fetch.IntervalSeconds) * time.Second
}

// FetchTimeout returns the per-request timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// LocationSet converts the configured locations into the model type.
func (c *Config) LocationSet() []models.Location {
	locations := make([]models.Location, 0, len(c.Locations))
	for _, loc := range c.Locations {
		locations = append(locations, models.Location{
			ID:          loc.ID,
			DisplayName: loc.Name,
			District:    loc.District,
			Type:        loc.Type,
			Priority:    loc.Priority,
			Lat:         loc.Lat,
			Lng:         loc.Lng,
		})
	}
	return locations
}
