package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/copyleftdev/noviz/internal/config"
	apperrors "github.com/copyleftdev/noviz/internal/errors"
	"github.com/copyleftdev/noviz/internal/engine"
	"github.com/copyleftdev/noviz/internal/logging"
	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/objective"
	"github.com/copyleftdev/noviz/internal/playback"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
	Zap() *zap.Logger
}

// RunState is a computed run held for playback. Cursor moves on one run are
// serialized by its mutex; the buffer itself is read-only.
type RunState struct {
	mu      sync.Mutex
	ID      string
	Run     *engine.Run
	Player  *playback.Controller
	Created time.Time
}

// Server implements the HTTP and JSON-RPC surface over calculated runs.
type Server struct {
	cfg     *config.Config
	logger  Logger
	engine  *engine.Engine
	metrics *Metrics

	runs   map[string]*RunState
	order  []string // insertion order, oldest first
	runsMu sync.RWMutex
}

// NewServer creates a new server instance. Metrics are registered with reg
// when it is not nil.
func NewServer(cfg *config.Config, logger Logger, reg prometheus.Registerer) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		engine:  engine.New(logger.Zap()),
		metrics: NewMetrics(reg),
		runs:    make(map[string]*RunState),
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/functions", s.handleFunctions)
		r.Get("/methods", s.handleMethods)
		r.Post("/runs", s.handleCalculate)
		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", s.handleRun)
			r.Delete("/", s.handleDiscard)
			r.Get("/steps/{index}", s.handleStep)
			r.Post("/cursor", s.handleCursor)
		})
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// calculate computes and stores a run.
func (s *Server) calculate(body calculateRequest) (*RunState, error) {
	req, err := body.toEngine(s.cfg.Runs.Seed)
	if err != nil {
		return nil, err
	}

	method := body.Method
	if req.Method != nil {
		method = req.Method.String()
	}

	run, err := s.engine.Calculate(req)
	if err != nil {
		s.metrics.observeRun(method, outcomeFailed, 0, 0)
		return nil, err
	}
	s.metrics.observeRun(method, outcomeOK, run.Buffer().Len(), run.Duration.Seconds())

	player, err := playback.New(run.Buffer(),
		playback.WithLogger(s.logger.Zap()),
		playback.WithDelay(s.cfg.Playback.Delay),
	)
	if err != nil {
		return nil, err
	}

	state := &RunState{
		ID:      uuid.NewString(),
		Run:     run,
		Player:  player,
		Created: time.Now(),
	}
	s.store(state)

	s.logger.Info("Run stored", map[string]interface{}{
		"run_id":  state.ID,
		"method":  method,
		"records": run.Buffer().Len(),
	})
	return state, nil
}

// store adds a run, evicting the oldest ones beyond the configured limit.
func (s *Server) store(state *RunState) {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	s.runs[state.ID] = state
	s.order = append(s.order, state.ID)
	for len(s.order) > s.cfg.Runs.MaxStored {
		evicted := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, evicted)
		s.logger.Debug("Run evicted", map[string]interface{}{"run_id": evicted})
	}
	s.metrics.storedRuns.Set(float64(len(s.runs)))
}

func (s *Server) lookup(id string) (*RunState, error) {
	s.runsMu.RLock()
	defer s.runsMu.RUnlock()

	state, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %q: %w", id, apperrors.ErrNotFound)
	}
	return state, nil
}

func (s *Server) discard(id string) error {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("run %q: %w", id, apperrors.ErrNotFound)
	}
	delete(s.runs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.metrics.storedRuns.Set(float64(len(s.runs)))

	s.logger.Info("Run discarded", map[string]interface{}{"run_id": id})
	return nil
}

// seek applies a cursor action and returns the record under the cursor.
func (s *Server) seek(state *RunState, req seekRequest) (seekView, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	var moved bool
	switch req.Action {
	case "next":
		_, moved = state.Player.Next()
	case "prev":
		_, moved = state.Player.Prev()
	case "first":
		_, moved = state.Player.First()
	case "last":
		_, moved = state.Player.Last()
	case "jump":
		_, moved = state.Player.JumpTo(req.Index)
	default:
		return seekView{}, optimization.ConfigurationError("unknown cursor action %q", req.Action).
			WithComponent("server").WithOperation("seek")
	}

	cursor := state.Player.Cursor()
	step, _ := newStepView(state.Run, cursor, false)
	return seekView{Moved: moved, Cursor: cursor, Step: &step}, nil
}

func (s *Server) view(state *RunState) runView {
	state.mu.Lock()
	defer state.mu.Unlock()

	run := state.Run
	cursor := state.Player.Cursor()
	v := runView{
		ID:         state.ID,
		Function:   run.Function.Kind().String(),
		Formula:    run.Function.Formula(),
		AxisHint:   run.Function.AxisHint(),
		Method:     run.Method.String(),
		Params:     run.Algorithm.Values(),
		Start:      run.Start,
		Iterations: run.Algorithm.Iterations(),
		Length:     run.Buffer().Len(),
		Cursor:     cursor,
		Pseudocode: run.Algorithm.Pseudocode(),
		Scatter:    run.Algorithm.Scatter(),
		Created:    state.Created,
	}
	if step, ok := newStepView(run, cursor, false); ok {
		v.Current = &step
	}
	return v
}

// Close drops every stored run.
func (s *Server) Close() error {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	s.runs = make(map[string]*RunState)
	s.order = nil
	s.metrics.storedRuns.Set(0)
	return nil
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	kinds := objective.Kinds()
	out := make([]functionView, len(kinds))
	for i, k := range kinds {
		out[i] = newFunctionView(k)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	methods := engine.Methods()
	out := make([]methodView, len(methods))
	for i, m := range methods {
		out[i] = newMethodView(m)
	}
	respondJSON(w, http.StatusOK, out)
}

// handleCalculate handles POST /api/v1/runs
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var body calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, r, optimization.ConfigurationError("invalid request body: %v", err))
		return
	}

	state, err := s.calculate(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.view(state))
}

// handleRun handles GET /api/v1/runs/{id}
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	state, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.view(state))
}

// handleStep handles GET /api/v1/runs/{id}/steps/{index}. The scatter trail
// up to the step is included with ?scatter=true.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	state, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.respondError(w, r, optimization.ConfigurationError("step index must be an integer"))
		return
	}
	withScatter, _ := strconv.ParseBool(r.URL.Query().Get("scatter"))

	step, ok := newStepView(state.Run, index, withScatter)
	if !ok {
		s.respondError(w, r, fmt.Errorf("step %d of run %q: %w", index, state.ID, apperrors.ErrNotFound))
		return
	}
	respondJSON(w, http.StatusOK, step)
}

// handleCursor handles POST /api/v1/runs/{id}/cursor
func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	state, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var body seekRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, r, optimization.ConfigurationError("invalid request body: %v", err))
		return
	}

	result, err := s.seek(state, body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleDiscard handles DELETE /api/v1/runs/{id}
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.discard(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondError logs err on the request logger and writes it as JSON. A
// failure tied to a recorded step carries that step.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	logger := logging.FromContext(r.Context()).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("Handler error")
	} else {
		logger.Debug("Handler error")
	}

	body := map[string]interface{}{"error": apperrors.PublicMessage(err)}
	if e, ok := optimization.IsOptimizationError(err); ok {
		if kind := optimization.KindOf(e); kind != optimization.KindUnknown {
			body["kind"] = kind.String()
		}
		if e.Step >= 0 {
			body["step"] = e.Step
		}
	}
	respondJSON(w, status, body)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
