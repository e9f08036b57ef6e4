// Package server exposes the simulator and optimizer over a small JSON
// API. Requests carry a YAML configuration body; responses are JSON.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hfinch/household-forecast/internal/config"
	"github.com/hfinch/household-forecast/internal/optimizer"
	"github.com/hfinch/household-forecast/internal/policy"
	"github.com/hfinch/household-forecast/internal/simulation"
	"github.com/hfinch/household-forecast/pkg/constants"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/simulate", h.handleSimulate)
	mux.HandleFunc("/api/optimize", h.handleOptimize)
	mux.HandleFunc("/api/version", h.handleVersion)
	return mux
}

type snapshotJSON struct {
	Day                  int     `json:"day"`
	HomeLoanBalance      float64 `json:"homeLoanBalance"`
	StudentLoanBalance   float64 `json:"studentLoanBalance"`
	PortfolioBalance     float64 `json:"portfolioBalance"`
	AccumulatedDividends float64 `json:"accumulatedDividends"`
	FortnightlySpareCash float64 `json:"fortnightlySpareCash"`
	Equity               float64 `json:"equity"`
	NetWorth             float64 `json:"netWorth"`
}

type strategyJSON struct {
	HomeLoanPercent    float64 `json:"homeLoanPercent"`
	StudentLoanPercent float64 `json:"studentLoanPercent"`
	InvestingPercent   float64 `json:"investingPercent"`
}

type simulateResponse struct {
	Strategy              strategyJSON   `json:"strategy"`
	NetWorth              float64        `json:"netWorth"`
	HomeLoanPaidOffDay    int            `json:"homeLoanPaidOffDay"`
	StudentLoanPaidOffDay int            `json:"studentLoanPaidOffDay"`
	Trajectory            []snapshotJSON `json:"trajectory"`
	Duration              string         `json:"duration"`
}

type optimizeResponse struct {
	simulateResponse
	Improved   bool `json:"improved"`
	Candidates int  `json:"candidates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	conf, ok := h.readConfiguration(w, r)
	if !ok {
		return
	}
	if conf.Strategy == nil {
		h.respondError(w, http.StatusBadRequest, "simulate requires an explicit strategy; use /api/optimize to search for one")
		return
	}

	sim, err := simulation.NewSimulator(h.logger, conf)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	strategy := policy.Strategy{
		HomeLoanPercent:    conf.Strategy.HomeLoanPercent,
		StudentLoanPercent: conf.Strategy.StudentLoanPercent,
	}
	run, err := sim.Run(strategy)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newSimulateResponse(run, time.Since(start)))
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	conf, ok := h.readConfiguration(w, r)
	if !ok {
		return
	}

	runner, err := optimizer.NewRunner(h.logger, conf)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *optimizer.Result
	if conf.Strategy != nil {
		baseline := policy.Strategy{
			HomeLoanPercent:    conf.Strategy.HomeLoanPercent,
			StudentLoanPercent: conf.Strategy.StudentLoanPercent,
		}
		result, err = runner.RunWithBaseline(r.Context(), baseline)
	} else {
		result, err = runner.Run(r.Context())
	}
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, optimizeResponse{
		simulateResponse: newSimulateResponse(result.Run, time.Since(start)),
		Improved:         result.Improved,
		Candidates:       result.Candidates,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// readConfiguration parses and validates the YAML request body. On
// failure it writes the error response itself and returns ok=false.
func (h *handler) readConfiguration(w http.ResponseWriter, r *http.Request) (*config.Configuration, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize))
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return nil, false
	}

	var conf config.Configuration
	if err := yaml.Unmarshal(body, &conf); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err))
		return nil, false
	}
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &conf, true
}

func newSimulateResponse(run *simulation.Result, elapsed time.Duration) simulateResponse {
	resp := simulateResponse{
		Strategy: strategyJSON{
			HomeLoanPercent:    run.Strategy.HomeLoanPercent,
			StudentLoanPercent: run.Strategy.StudentLoanPercent,
			InvestingPercent:   run.Strategy.InvestingPercent(),
		},
		NetWorth:              run.NetWorth,
		HomeLoanPaidOffDay:    run.HomeLoanPaidOffDay,
		StudentLoanPaidOffDay: run.StudentLoanPaidOffDay,
		Trajectory:            make([]snapshotJSON, 0, len(run.Trajectory)),
		Duration:              elapsed.String(),
	}
	for _, snap := range run.Trajectory {
		resp.Trajectory = append(resp.Trajectory, snapshotJSON(snap))
	}
	return resp
}

// respondRunError maps the error taxonomy onto HTTP statuses: bad
// configuration is the caller's fault, an invariant violation is ours.
func (h *handler) respondRunError(w http.ResponseWriter, err error) {
	var confErr *config.ConfigurationError
	if errors.As(err, &confErr) {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var invariantErr *simulation.InvariantViolation
	if errors.As(err, &invariantErr) {
		h.logger.Error("simulation invariant violated", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondError(w, http.StatusInternalServerError, err.Error())
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}
