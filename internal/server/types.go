// Package server provides the HTTP and WebSocket surface of the AfroVids API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// GenerateRequest is the HTTP request body for starting a video generation.
type GenerateRequest struct {
	// Topic is the subject the narration is written about.
	Topic string `json:"topic" validate:"required"`
	// Language selects narration language and voice. Optional.
	Language string `json:"language"`
	// DurationSec is the target video duration in seconds. Optional.
	DurationSec int `json:"duration" validate:"omitempty,min=1,max=60"`
	// ClientID addresses progress events to a connected WebSocket client.
	ClientID string `json:"clientId"`
}

// GenerateResponse is the HTTP response after the script was generated and
// the rest of the pipeline was scheduled.
type GenerateResponse struct {
	// Message is a human-readable acknowledgement.
	Message string `json:"message"`
	// Script is the generated narration text.
	Script string `json:"script"`
	// Status is always "processing"; later stages report over WebSocket.
	Status string `json:"status"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

// registerMessage is the first frame a WebSocket client must send.
type registerMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}
