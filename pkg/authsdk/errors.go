package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Detail is the server's explanation, e.g. "Invalid code"
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("identity: %d %s", e.StatusCode, e.Detail)
}

// parseErrorResponse turns an error response into an *APIError. Bodies that
// are not {"detail": ...} fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: errResp.Detail}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Detail:     http.StatusText(resp.StatusCode),
	}
}
