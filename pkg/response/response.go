package response

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform response body: status plus an optional message
// and an optional data payload.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// Success writes a success envelope with HTTP 200.
func Success(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Err writes an error envelope. Most failures ship with HTTP 200; callers
// distinguish outcomes by the status field, not the status code.
func Err(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Envelope{
		Status:  StatusError,
		Message: message,
	})
}
