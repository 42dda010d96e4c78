package server

import (
	"encoding/json"
	"log"
	"net/http"

	"solara/pkg/errors"
)

// envelope is the JSON response shape shared by every API endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// respondError maps an AppError to its status and client message. AppError
// messages are client-safe by construction; the underlying cause is only
// ever logged.
func respondError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondJSON(w, appErr.HTTPStatus(), envelope{Success: false, Message: appErr.Message})
		return
	}
	log.Printf("[HTTP] Unclassified error: %v", err)
	respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "خطأ في الخادم"})
}
