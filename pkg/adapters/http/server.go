package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// RunRequest is the body of POST /runs.
type RunRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	Input       string `json:"input"`
	MaxSteps    int    `json:"max_steps,omitempty"`
	// Blank is the blank symbol as a one-byte string; empty means the server default.
	Blank string `json:"blank,omitempty"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Description string `json:"description"`
	Strict      bool   `json:"strict,omitempty"`
}

// ValidateResponse is returned by POST /validate for loadable descriptions.
type ValidateResponse struct {
	Valid   bool              `json:"valid"`
	States  int               `json:"states"`
	Rules   int               `json:"rules"`
	Issues  []validator.Issue `json:"issues"`
	Machine *domain.Machine   `json:"machine"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Server serves the run API.
type Server struct {
	Store   ports.ResultStore
	Streams *StreamManager

	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	maxSteps int
	blank    byte
	metrics  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists every run; without it GET /runs answers 404.
func WithStore(store ports.ResultStore) Option {
	return func(s *Server) { s.Store = store }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithLifecycleHooks attaches hooks to every run.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) { s.hooks = s.hooks.Merge(hooks) }
}

// WithMaxSteps caps every run; requests may only lower the cap.
func WithMaxSteps(n int) Option {
	return func(s *Server) { s.maxSteps = n }
}

// WithBlank sets the default blank symbol.
func WithBlank(b byte) Option {
	return func(s *Server) { s.blank = b }
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a Server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		Streams: NewStreamManager(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the run API.
func NewHandler(opts ...Option) http.Handler {
	return NewServer(opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/validate", s.Validate)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.CreateRun)
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRun handles POST /runs.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}

	opts, err := s.engineOptions(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var eng ports.Runner = turing.New(opts...)

	m, err := eng.Load(r.Context(), memory.NewSource(body.Description))
	if err != nil {
		s.logger.Warn("CreateRun: description rejected", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	m.Name = body.Name

	result, err := eng.Execute(r.Context(), m, body.Input)
	if result == nil {
		s.logger.Error("CreateRun: run failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// Stuck and bounded runs are outcomes, reported through result.Status.
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) engineOptions(body RunRequest) ([]turing.Option, error) {
	blank := s.blank
	switch len(body.Blank) {
	case 0:
	case 1:
		blank = body.Blank[0]
	default:
		return nil, fmt.Errorf("blank must be a single byte, got %q", body.Blank)
	}

	limit := s.maxSteps
	if body.MaxSteps < 0 {
		return nil, fmt.Errorf("max_steps must not be negative")
	}
	if body.MaxSteps > 0 && (limit == 0 || body.MaxSteps < limit) {
		limit = body.MaxSteps
	}

	opts := []turing.Option{
		turing.WithLogger(s.logger),
		turing.WithBlank(blank),
		turing.WithMaxSteps(limit),
		turing.WithLifecycleHooks(s.hooks),
		turing.WithLifecycleHooks(domain.LifecycleHooks{OnRunEnd: s.broadcast}),
	}
	if s.Store != nil {
		opts = append(opts, turing.WithStore(s.Store))
	}
	return opts, nil
}

func (s *Server) broadcast(ctx context.Context, e *domain.HaltEvent) {
	if e.Result == nil {
		return
	}
	data, err := json.Marshal(e.Result)
	if err != nil {
		s.logger.Error("broadcast: encode failed", "error", err)
		return
	}
	s.Streams.Broadcast(e.Result.Machine, string(data))
}

// Validate handles POST /validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if !s.decode(w, r, &body) {
		return
	}

	m, err := turing.New(turing.WithLogger(s.logger)).Load(r.Context(), memory.NewSource(body.Description))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	report := validator.Validate(m)
	issues := report.Issues
	if issues == nil {
		issues = []validator.Issue{}
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:   report.OK(body.Strict),
		States:  len(m.States()),
		Rules:   len(m.Table),
		Issues:  issues,
		Machine: m,
	})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.logger.Error("ListRuns failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	result, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("GetRun failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.logger.Error("DeleteRun failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		writeError(w, http.StatusNotFound, errors.New("no result store configured"))
		return false
	}
	return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		resp.Line, resp.Column = perr.Line, perr.Column
	}
	writeJSON(w, status, resp)
}
