package mgmt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"asconsole/pkg/config"
	"asconsole/pkg/dispatch"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const maxOperationBodyBytes = 1 << 20 // 1 MiB

type Server struct {
	mu sync.Mutex

	model    *Model
	registry *prometheus.Registry
	stats    *TxStats
	workload *Workload
	cancel   context.CancelFunc
	log      *logrus.Entry
}

func NewServer(cfg config.EndpointConfig, log *logrus.Entry) (*Server, error) {
	model, err := DefaultModel()
	if err != nil {
		return nil, err
	}
	return NewServerWithModel(cfg, model, log), nil
}

func NewServerWithModel(cfg config.EndpointConfig, model *Model, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	stats := newTxStats()
	registry := prometheus.NewRegistry()
	registry.MustRegister(stats.collectors()...)

	return &Server{
		model:    model,
		registry: registry,
		stats:    stats,
		workload: NewWorkload(cfg.WorkloadTPS, stats, model),
		log:      log,
	}
}

func (s *Server) Model() *Model {
	return s.model
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/management", s.handleManagement).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

// Start launches the simulated workload. Calling it twice is a no-op.
func (s *Server) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.workload.Run(ctx)
}

func (s *Server) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (s *Server) handleManagement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxOperationBodyBytes)
	defer r.Body.Close()

	var op dispatch.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeResponse(w, http.StatusBadRequest, dispatch.Response{
			Outcome:            dispatch.OutcomeFailed,
			FailureDescription: fmt.Sprintf("invalid operation payload: %v", err),
		})
		return
	}

	resp := s.model.Execute(op)
	entry := s.log.WithFields(logrus.Fields{"operation": op.Operation, "address": op.Address.String()})
	if resp.Outcome == dispatch.OutcomeFailed {
		entry.WithField("failure", resp.FailureDescription).Info("operation failed")
		writeResponse(w, http.StatusInternalServerError, resp)
		return
	}
	entry.Debug("operation succeeded")
	writeResponse(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeResponse(w http.ResponseWriter, status int, resp dispatch.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
