package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/hwenergy"
)

type energyService interface {
	Data(ctx context.Context) (*hwenergy.MeteredData, error)
	State(ctx context.Context) (*hwenergy.State, error)
	SetState(ctx context.Context, update hwenergy.StateUpdate) error
	Identify(ctx context.Context) error
}

type server struct {
	energy energyService
	logger *zap.Logger
}

func New(es energyService) *server {
	return &server{energy: es, logger: zap.L()}
}

// Routes wires the handlers onto a fresh mux.
func (s *server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/data", s.GetData)
	mux.HandleFunc("GET /api/state", s.GetState)
	mux.HandleFunc("PUT /api/state", s.PutState)
	mux.HandleFunc("PUT /api/identify", s.PutIdentify)
	return mux
}

func (s *server) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := s.energy.Data(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, data)
}

func (s *server) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.energy.State(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	if state == nil {
		handleError(w, &hwenergy.UnsupportedError{Operation: "State"})
		return
	}
	writeJSON(w, state)
}

func (s *server) PutState(w http.ResponseWriter, r *http.Request) {
	update, err := unmarshalPayload[hwenergy.StateUpdate](r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	if err := s.energy.SetState(r.Context(), *update); err != nil {
		handleError(w, err)
		return
	}
	s.logger.Info("switch state changed")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("success"))
}

func (s *server) PutIdentify(w http.ResponseWriter, r *http.Request) {
	if err := s.energy.Identify(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("success"))
}

// handleError translates client failures into meaningful statuses instead of
// a blanket 500.
func handleError(w http.ResponseWriter, err error) {
	var invalidArg *hwenergy.InvalidArgumentError
	var unsupported *hwenergy.UnsupportedError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalidArg):
		status = http.StatusBadRequest
	case errors.As(err, &unsupported):
		status = http.StatusNotFound
	case errors.Is(err, hwenergy.ErrAPIDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, hwenergy.ErrTimeout):
		status = http.StatusGatewayTimeout
	}
	w.WriteHeader(status)
	w.Write([]byte(err.Error()))
}

func writeJSON(w http.ResponseWriter, out any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func unmarshalPayload[T any](r *http.Request) (*T, error) {
	var out T
	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
