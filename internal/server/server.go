// Package server exposes the simulation service over HTTP.
package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"renewable_simulator/internal/cashflow"
	"renewable_simulator/internal/metrics"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/report"
	"renewable_simulator/internal/service"
	"renewable_simulator/internal/store"
	"renewable_simulator/internal/ws"
)

const (
	maxBodyBytes     = 8 << 20
	defaultListLimit = 50
)

// Server routes HTTP requests to the simulation service.
type Server struct {
	service *service.Service
	series  ws.SeriesCatalog
	metrics *metrics.Metrics
	ws      http.Handler
	logger  *zap.Logger
	static  string
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves the registry on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithWebSocket mounts h on /ws.
func WithWebSocket(h http.Handler) Option {
	return func(s *Server) { s.ws = h }
}

// WithSeries lists preloaded series on /api/series.
func WithSeries(c ws.SeriesCatalog) Option {
	return func(s *Server) { s.series = c }
}

// WithStatic serves a frontend build from dir.
func WithStatic(dir string) Option {
	return func(s *Server) { s.static = dir }
}

func New(svc *service.Service, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{service: svc, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("POST /api/simulate/wind", s.handleWind)
	mux.HandleFunc("POST /api/simulate/solar", s.handleSolar)
	mux.HandleFunc("POST /api/optimize/solar", s.handleOptimize)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/runs/{id}/report", s.handleReport)
	mux.HandleFunc("GET /api/technologies", s.handleTechnologies)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	if s.metrics != nil {
		s.metrics.Register(mux)
	}
	if s.ws != nil {
		mux.Handle("/ws", s.ws)
	}
	if s.static != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.static)))
	}
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to the WebSocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) handleWind(w http.ResponseWriter, r *http.Request) {
	var req model.WindRequest
	if !s.decode(w, r, &req) {
		return
	}
	run, err := s.service.SimulateWind(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleSolar(w http.ResponseWriter, r *http.Request) {
	var req model.SolarRequest
	if !s.decode(w, r, &req) {
		return
	}
	run, err := s.service.SimulateSolar(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req service.OptimizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	opt, err := s.service.OptimizeSolar(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opt)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	runs, err := s.service.Runs().List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Runs().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Runs().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	title := fmt.Sprintf("%s investment report %s", run.Technology, run.ID)

	switch r.URL.Query().Get("format") {
	case "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		fmt.Fprint(w, report.Markdown(title, run.Result))
	case "", "html":
		html, err := report.HTML(title, run.Result)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "format must be html or md"})
	}
}

// TechnologyEntry describes one supported technology.
type TechnologyEntry struct {
	ID   model.Technology     `json:"id"`
	Info model.TechnologyInfo `json:"info"`
}

type technologiesBody struct {
	Technologies []TechnologyEntry   `json:"technologies"`
	Scenarios    []cashflow.Scenario `json:"scenarios"`
}

func (s *Server) handleTechnologies(w http.ResponseWriter, r *http.Request) {
	var body technologiesBody
	for id, info := range model.TechnologyCatalog {
		body.Technologies = append(body.Technologies, TechnologyEntry{ID: id, Info: info})
	}
	sort.Slice(body.Technologies, func(i, j int) bool { return body.Technologies[i].ID < body.Technologies[j].ID })
	for _, name := range cashflow.ScenarioNames() {
		body.Scenarios = append(body.Scenarios, cashflow.Scenarios[name])
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	series := []model.Series{}
	if s.series != nil {
		series = append(series, s.series.Series()...)
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		body.Field = ve.Field
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, body)
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
