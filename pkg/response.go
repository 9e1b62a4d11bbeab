package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.Text, message, http.StatusOK)
}

func WriteJSONResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.JSON, message, http.StatusOK)
}

// WriteJSON marshals v and writes it with the given status code.
// A marshal failure ends up as a 500.
func WriteJSON(w http.ResponseWriter, v any, statusCode int) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respBytes, statusCode)
}
