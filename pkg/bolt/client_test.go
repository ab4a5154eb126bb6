package bolt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/pkg/bolt"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLocation = models.Location{
	ID:          "nimman",
	DisplayName: "Nimman",
	Lat:         18.8002,
	Lng:         98.9679,
}

const samplePollResponse = `{
	"code": 0,
	"message": "OK",
	"data": {
		"vehicles": {
			"taxi": {
				"economy": [
					{"id": "v1", "lat": 18.8010, "lng": 98.9680, "bearing": 120, "icon_id": "economy"},
					{"id": "v2", "lat": 18.8020, "lng": 98.9690}
				],
				"comfort": {"unexpected": "object instead of list"}
			},
			"icons": {
				"taxi": {
					"economy": {"icon_url": "https://icons/economy.png"}
				}
			},
			"category_details": {
				"taxi": {
					"economy": {"name": "Economy"}
				}
			}
		}
	}
}`

func testCredentials() bolt.Credentials {
	return bolt.NewSession("test-token", "test-device", "", "", "1234567", "th", "th")
}

func newClient(endpoint string, timeout time.Duration) *bolt.HTTPClient {
	return bolt.NewHTTPClient(endpoint, timeout, 0.018, testCredentials(), zerolog.Nop())
}

// TestHTTPClient_FetchVehicles_Success checks request construction and the
// typed decode, including the malformed category group being dropped.
func TestHTTPClient_FetchVehicles_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1234567", r.URL.Query().Get("user_id"))
		assert.Equal(t, "test-device", r.URL.Query().Get("deviceId"))
		assert.Equal(t, "18.800200", r.URL.Query().Get("gps_lat"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePollResponse))
	}))
	defer server.Close()

	result := newClient(server.URL, time.Second).FetchVehicles(context.Background(), testLocation)

	require.True(t, result.Success)
	require.NotNil(t, result.Payload)
	assert.Equal(t, models.ErrorNone, result.ErrorKind)
	assert.Equal(t, http.StatusOK, result.StatusCode)

	require.Contains(t, result.Payload.Groups, "economy")
	assert.NotContains(t, result.Payload.Groups, "comfort", "malformed category group should be dropped")
	require.Len(t, result.Payload.Groups["economy"], 2)

	first := result.Payload.Groups["economy"][0]
	assert.Equal(t, "v1", first.ID)
	require.NotNil(t, first.Lat)
	assert.Equal(t, 18.8010, *first.Lat)
	assert.Equal(t, 120.0, first.Bearing)

	// Absent bearing defaults to zero.
	assert.Zero(t, result.Payload.Groups["economy"][1].Bearing)

	assert.Equal(t, "https://icons/economy.png", result.Payload.Icons["economy"].IconURL)
	assert.Equal(t, "Economy", result.Payload.Categories["economy"].Name)
}

// TestHTTPClient_FetchVehicles_HTTPStatus verifies non-2xx handling.
func TestHTTPClient_FetchVehicles_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	result := newClient(server.URL, time.Second).FetchVehicles(context.Background(), testLocation)

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrorHTTPStatus, result.ErrorKind)
	assert.Equal(t, http.StatusTooManyRequests, result.StatusCode)
	assert.Nil(t, result.Payload)
}

// TestHTTPClient_FetchVehicles_MalformedBody verifies decode failures surface
// as a typed malformed-response result.
func TestHTTPClient_FetchVehicles_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": not json`))
	}))
	defer server.Close()

	result := newClient(server.URL, time.Second).FetchVehicles(context.Background(), testLocation)

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrorMalformedResponse, result.ErrorKind)
}

// TestHTTPClient_FetchVehicles_Timeout verifies a hung upstream is cut off by
// the per-request timeout.
func TestHTTPClient_FetchVehicles_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	result := newClient(server.URL, 50*time.Millisecond).FetchVehicles(context.Background(), testLocation)

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrorTimeout, result.ErrorKind)
}

// TestHTTPClient_FetchVehicles_MissingCoordinates verifies an invalid
// location is rejected before any request is issued.
func TestHTTPClient_FetchVehicles_MissingCoordinates(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	result := newClient(server.URL, time.Second).FetchVehicles(context.Background(), models.Location{ID: "empty"})

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrorMissingCoordinates, result.ErrorKind)
	assert.Zero(t, atomic.LoadInt32(&requests), "no request should be issued for an invalid location")
}
