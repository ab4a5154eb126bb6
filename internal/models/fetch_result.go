package models

// ErrorKind classifies why a per-location fetch failed.
type ErrorKind string

const (
	ErrorNone               ErrorKind = ""
	ErrorTimeout            ErrorKind = "timeout"
	ErrorTransport          ErrorKind = "transport"
	ErrorHTTPStatus         ErrorKind = "http_status"
	ErrorMalformedResponse  ErrorKind = "malformed_response"
	ErrorMissingCoordinates ErrorKind = "missing_coordinates"
	ErrorInternal           ErrorKind = "internal"
)

// FetchResult is the outcome of polling one location in one cycle. Exactly
// one of Payload or ErrorKind is set, depending on Success.
type FetchResult struct {
	Location   Location
	Success    bool
	Payload    *VehiclePayload
	ErrorKind  ErrorKind
	StatusCode int
	Error      string
}
