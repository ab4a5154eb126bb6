package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/rs/zerolog"
)

// DefaultEndpoint is the production search-poll endpoint.
const DefaultEndpoint = "https://user.live.boltsvc.net/mobility/search/poll"

// Client issues one vehicle-search request per location. Implementations
// never panic or return errors past this boundary; every outcome is folded
// into the FetchResult.
type Client interface {
	FetchVehicles(ctx context.Context, loc models.Location) models.FetchResult
}

// HTTPClient is the live implementation of Client against the upstream API.
// It is safe for concurrent use; credentials are read-only after construction.
type HTTPClient struct {
	endpoint        string
	viewportPadding float64
	credentials     Credentials
	httpClient      *http.Client
	logger          zerolog.Logger
}

// NewHTTPClient creates a client with a hard per-request timeout so a hung
// upstream source can never stall a whole batch.
func NewHTTPClient(endpoint string, timeout time.Duration, viewportPadding float64,
	credentials Credentials, logger zerolog.Logger) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &HTTPClient{
		endpoint:        endpoint,
		viewportPadding: viewportPadding,
		credentials:     credentials,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchVehicles polls the upstream API from a single vantage point.
func (c *HTTPClient) FetchVehicles(ctx context.Context, loc models.Location) models.FetchResult {
	if loc.Lat == 0 && loc.Lng == 0 {
		return failure(loc, models.ErrorMissingCoordinates, "location has no coordinates")
	}

	body, err := json.Marshal(newSearchRequestBody(loc, c.viewportPadding))
	if err != nil {
		return failure(loc, models.ErrorInternal, fmt.Sprintf("failed to marshal request body: %v", err))
	}

	fullURL := c.endpoint + "?" + c.credentials.queryParams(loc).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
	if err != nil {
		return failure(loc, models.ErrorInternal, fmt.Sprintf("failed to build request: %v", err))
	}

	req.Header.Set("Authorization", "Bearer "+c.credentials.AuthToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("User-Agent", "okhttp/4.12.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return failure(loc, models.ErrorTimeout, err.Error())
		}
		return failure(loc, models.ErrorTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result := failure(loc, models.ErrorHTTPStatus, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
		result.StatusCode = resp.StatusCode
		return result
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(loc, models.ErrorMalformedResponse, fmt.Sprintf("failed to read response body: %v", err))
	}

	var decoded pollResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return failure(loc, models.ErrorMalformedResponse, fmt.Sprintf("failed to decode response: %v", err))
	}

	c.logger.Debug().
		Str("location_id", loc.ID).
		Int("category_groups", len(decoded.Data.Vehicles.Taxi)).
		Msg("Upstream poll succeeded")

	return models.FetchResult{
		Location:   loc,
		Success:    true,
		Payload:    decoded.toPayload(c.logger),
		StatusCode: resp.StatusCode,
	}
}

func failure(loc models.Location, kind models.ErrorKind, detail string) models.FetchResult {
	return models.FetchResult{
		Location:  loc,
		Success:   false,
		ErrorKind: kind,
		Error:     detail,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
