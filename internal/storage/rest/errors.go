package rest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the table API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unexpected response"
	}
	if e.Code != "" {
		return fmt.Sprintf("table api: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("table api: %d: %s", e.Status, msg)
}

func newAPIError(status int, payload []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(payload, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(payload))
	}
	apiErr.Status = status
	return apiErr
}
