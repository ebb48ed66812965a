package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	logger "github.com/sirupsen/logrus"

	"signaldesk/src/model"
)

type signalLister interface {
	List(ctx context.Context) ([]model.Signal, error)
}

type latestSignalFinder interface {
	Latest(ctx context.Context) (*model.Signal, error)
}

type signalGenerator interface {
	Generate(ctx context.Context, pair string) (*model.Signal, error)
}

type signalClearer interface {
	Clear(ctx context.Context) error
}

type createSignalRequest struct {
	Pair string `json:"pair" validate:"required,max=32"`
}

var validate = validator.New()

// ListSignalsHandler returns all signals, newest first. An empty history is [].
func ListSignalsHandler(svc signalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signals, err := svc.List(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to list signals")
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch signals")
			return
		}
		if signals == nil {
			signals = []model.Signal{}
		}
		writeJSON(w, http.StatusOK, signals)
	}
}

// LatestSignalHandler returns the newest signal or null.
func LatestSignalHandler(svc latestSignalFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signal, err := svc.Latest(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to fetch latest signal")
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch latest signal")
			return
		}
		// a nil pointer encodes as null
		writeJSON(w, http.StatusOK, signal)
	}
}

// CreateSignalHandler runs one consensus generation for the requested pair.
func CreateSignalHandler(svc signalGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSignalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeMessage(w, http.StatusBadRequest, "pair is required and must be at most 32 characters")
			return
		}

		signal, err := svc.Generate(r.Context(), req.Pair)
		if err != nil {
			writeGenerateError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, signal)
	}
}

// ClearSignalsHandler deletes the whole history.
func ClearSignalsHandler(svc signalClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			logger.WithError(err).Error("failed to clear signals")
			writeMessage(w, http.StatusInternalServerError, "Failed to clear signals")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
