// Package http exposes the engine over a JSON API: graph introspection,
// static analysis, rule evaluation, and session-based simulation.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lorekeep/loom/internal/logging"
	"github.com/lorekeep/loom/internal/metrics"
	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/lorekeep/loom/pkg/eval"
	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/session"
	"github.com/lorekeep/loom/pkg/sim"
	"github.com/lorekeep/loom/pkg/story"
)

// Server wires the engine components behind HTTP handlers.
type Server struct {
	loader   ports.GraphLoader
	sessions *session.Manager
	analyzer *analyze.Analyzer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithAnalyzer overrides the default analyzer.
func WithAnalyzer(a *analyze.Analyzer) Option {
	return func(s *Server) { s.analyzer = a }
}

// WithMetrics attaches instrumentation and enables the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger attaches a request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler builds the router.
func NewHandler(loader ports.GraphLoader, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		loader:   loader,
		sessions: sessions,
		analyzer: analyze.New(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Get("/graph", s.getGraph)
	r.Get("/graph/conflicts", s.getConflicts)
	r.Get("/graph/dependencies", s.getDependencies)
	r.Get("/graph/nodes/{nodeID}/category", s.getCategory)
	r.Get("/graph/nodes/{nodeID}/reachable", s.getReachable)

	r.Post("/eval/conditions", s.evalConditions)
	r.Post("/eval/effects", s.evalEffects)

	r.Get("/runs", s.listRuns)
	r.Route("/runs/{runID}", func(r chi.Router) {
		r.Get("/", s.getRun)
		r.Post("/reset", s.resetRun)
		r.Post("/step", s.stepRun)
		r.Post("/roll", s.rollRun)
		r.Delete("/", s.deleteRun)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// RunResponse is the simulation view returned by the run endpoints.
type RunResponse struct {
	State     *sim.Snapshot `json:"state"`
	Available []story.Edge  `json:"available"`
	Terminal  bool          `json:"terminal"`
}

// StepRequest selects a transition.
type StepRequest struct {
	EdgeID string `json:"edgeId"`
}

// StepResponse reports whether the transition was taken. Illegal or dangling
// selections are not errors; the state simply does not advance.
type StepResponse struct {
	Stepped bool `json:"stepped"`
	RunResponse
}

// RollRequest names the scene to roll from; empty means the current scene.
type RollRequest struct {
	SourceID string `json:"sourceId,omitempty"`
}

// RollResponse carries the weighted-random selection result.
type RollResponse struct {
	Edge     *story.Edge `json:"edge,omitempty"`
	Selected bool        `json:"selected"`
}

// EvalConditionsRequest evaluates predicates against an explicit snapshot.
type EvalConditionsRequest struct {
	Conditions []story.Condition `json:"conditions"`
	Variables  []story.Variable  `json:"variables"`
}

// EvalEffectsRequest applies effects to an explicit snapshot.
type EvalEffectsRequest struct {
	Effects   []story.Effect   `json:"effects"`
	Variables []story.Variable `json:"variables"`
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, g)
}

func (s *Server) getConflicts(w http.ResponseWriter, r *http.Request) {
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	conflicts := s.analyzer.DetectConflicts(g)
	if s.metrics != nil {
		s.metrics.AnalysisRuns.Inc()
		for _, c := range conflicts {
			s.metrics.ConflictsFound.WithLabelValues(string(c.Kind)).Inc()
		}
	}
	s.respond(w, http.StatusOK, conflicts)
}

func (s *Server) getDependencies(w http.ResponseWriter, r *http.Request) {
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, analyze.ExtractDependencies(g))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	category := story.Classify(chi.URLParam(r, "nodeID"), g)
	s.respond(w, http.StatusOK, map[string]story.Category{"category": category})
}

func (s *Server) getReachable(w http.ResponseWriter, r *http.Request) {
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	reachable := analyze.Reachable(chi.URLParam(r, "nodeID"), g)
	s.respond(w, http.StatusOK, map[string]bool{"reachable": reachable})
}

func (s *Server) evalConditions(w http.ResponseWriter, r *http.Request) {
	var req EvalConditionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	result := eval.Conditions(req.Conditions, req.Variables)
	s.respond(w, http.StatusOK, map[string]bool{"result": result})
}

func (s *Server) evalEffects(w http.ResponseWriter, r *http.Request) {
	var req EvalEffectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	result := eval.ApplyEffects(req.Effects, req.Variables)
	s.respond(w, http.StatusOK, map[string][]story.Variable{"variables": result})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.sessions.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []string{}
	}
	s.respond(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	snap, err := s.sessions.Load(r.Context(), runID)
	if errors.Is(err, ports.ErrRunNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	run := sim.New(g)
	run.Restore(*snap)
	s.respond(w, http.StatusOK, runView(run))
}

func (s *Server) resetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	run := sim.New(g)
	err = s.sessions.WithLock(r.Context(), runID, func(ctx context.Context) error {
		snap := run.Snapshot()
		return s.sessions.Store().Save(ctx, runID, &snap)
	})
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, runView(run))
}

func (s *Server) stepRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	run := sim.New(g)
	var stepped bool
	err = s.sessions.WithLock(r.Context(), runID, func(ctx context.Context) error {
		snap, err := s.sessions.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		run.Restore(*snap)
		stepped = run.Step(req.EdgeID)
		if !stepped {
			return nil
		}
		next := run.Snapshot()
		return s.sessions.Store().Save(ctx, runID, &next)
	})
	if errors.Is(err, ports.ErrRunNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	if stepped && s.metrics != nil {
		s.metrics.SimulationSteps.Inc()
	}
	s.respond(w, http.StatusOK, StepResponse{Stepped: stepped, RunResponse: runView(run)})
}

func (s *Server) rollRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	var req RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	g, err := s.loader.Load(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	snap, err := s.sessions.Load(r.Context(), runID)
	if errors.Is(err, ports.ErrRunNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	run := sim.New(g)
	run.Restore(*snap)

	source := req.SourceID
	if source == "" {
		source = run.CurrentNodeID()
	}
	edge, ok := run.PoolRoll(source)
	resp := RollResponse{Selected: ok}
	if ok {
		resp.Edge = &edge
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "runID")); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func runView(run *sim.Simulation) RunResponse {
	snap := run.Snapshot()
	available := run.Available()
	if available == nil {
		available = []story.Edge{}
	}
	return RunResponse{
		State:     &snap,
		Available: available,
		Terminal:  run.Terminal(),
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// countRequests records per-route request counts when metrics are enabled.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}
