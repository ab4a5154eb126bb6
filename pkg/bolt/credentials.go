package bolt

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/prasertsri/fleet-radar/internal/models"
)

const (
	appVersion         = "CA.180.0"
	defaultDeviceName  = "XiaomiMi 11 Lite 4G"
	defaultDeviceOS    = "12"
	defaultGPSAccuracy = "10.0"
)

// Credentials carries the opaque identifiers the upstream API expects on
// every request. It is read-only after construction and safe to share across
// concurrent workers.
type Credentials struct {
	AuthToken       string
	DeviceID        string
	DeviceName      string
	DeviceOSVersion string
	UserID          string
	Country         string
	Language        string

	sessionID   string
	rhSessionID string
	distinctID  string
}

// NewSession builds the per-process credential set. Session identifiers are
// derived once at construction, mirroring how the mobile client pins them for
// the lifetime of a session.
func NewSession(authToken, deviceID, deviceName, deviceOS, userID, country, language string) Credentials {
	if deviceID == "" {
		deviceID = uuid.New().String()
	}
	if deviceName == "" {
		deviceName = defaultDeviceName
	}
	if deviceOS == "" {
		deviceOS = defaultDeviceOS
	}

	now := time.Now()
	return Credentials{
		AuthToken:       authToken,
		DeviceID:        deviceID,
		DeviceName:      deviceName,
		DeviceOSVersion: deviceOS,
		UserID:          userID,
		Country:         country,
		Language:        language,
		sessionID:       fmt.Sprintf("%su%d", userID, now.UnixMilli()),
		rhSessionID:     fmt.Sprintf("%su%d", userID, now.Unix()),
		distinctID:      "client-" + userID,
	}
}

// queryParams builds the request query string for one location.
func (c Credentials) queryParams(loc models.Location) url.Values {
	params := url.Values{}
	params.Add("version", appVersion)
	params.Add("deviceId", c.DeviceID)
	params.Add("device_name", c.DeviceName)
	params.Add("device_os_version", c.DeviceOSVersion)
	params.Add("channel", "googleplay")
	params.Add("brand", "bolt")
	params.Add("deviceType", "android")
	params.Add("signup_session_id", "")
	params.Add("country", c.Country)
	params.Add("is_local_authentication_available", "false")
	params.Add("language", c.Language)
	params.Add("gps_lat", fmt.Sprintf("%.6f", loc.Lat))
	params.Add("gps_lng", fmt.Sprintf("%.6f", loc.Lng))
	params.Add("gps_accuracy_m", defaultGPSAccuracy)
	params.Add("gps_age", "0")
	params.Add("user_id", c.UserID)
	params.Add("session_id", c.sessionID)
	params.Add("distinct_id", c.distinctID)
	params.Add("rh_session_id", c.rhSessionID)
	return params
}
