package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"signaldesk/src/strategy"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeGenerateError maps a generation failure to its status code. Server side
// failures share one static message; the cause is only logged. When no provider
// answered the upstream is at fault, so that case is 502 rather than 500.
func writeGenerateError(w http.ResponseWriter, err error) {
	kind := strategy.ErrorKind(err)
	log := logger.WithError(err).WithField("kind", kind)

	switch {
	case errors.Is(err, strategy.ErrInvalidPair):
		writeMessage(w, http.StatusBadRequest, strategy.ErrInvalidPair.Error())
	case errors.Is(err, strategy.ErrAllProvidersFailed):
		log.Error("signal generation failed: no provider answered")
		writeMessage(w, http.StatusBadGateway, "Failed to generate signal")
	default:
		log.Error("signal generation failed")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate signal")
	}
}
