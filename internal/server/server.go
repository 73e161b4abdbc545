// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/synthesize  {plan, options} -> layout.Result
//	POST /v1/zones       {plan, options} -> layout.ZoneResult
//	GET  /healthz
//	GET  /version
//
// Errors are JSON {code, message}. INVALID_* codes map to 400, NOT_FOUND to
// 404, TIMEOUT to 504 and everything else to 500.
//
// Requests under /v1 run with a deadline (DefaultRequestTimeout unless
// changed with SetRequestTimeout). A run that outlives it answers 504 with
// code TIMEOUT.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/boxplan/pkg/buildinfo"
	boxerrors "github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/observability"
	"github.com/matzehuels/boxplan/pkg/pipeline"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 16 << 20

// DefaultRequestTimeout bounds one synthesis request.
const DefaultRequestTimeout = 2 * time.Minute

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	hooks   observability.HTTPHooks
	timeout time.Duration
	router  chi.Router
}

// New creates a server backed by runner. A nil hooks logs through logger.
func New(runner *pipeline.Runner, logger *log.Logger, hooks observability.HTTPHooks) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if hooks == nil {
		hooks = observability.NewLogHTTPHooks(logger)
	}
	s := &Server{runner: runner, logger: logger, hooks: hooks, timeout: DefaultRequestTimeout}
	s.router = s.routes()
	return s
}

// SetRequestTimeout replaces the /v1 deadline. Zero or negative disables it.
// Call it before serving.
func (s *Server) SetRequestTimeout(d time.Duration) {
	s.timeout = d
	s.router = s.routes()
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		if s.timeout > 0 {
			r.Use(middleware.Timeout(s.timeout))
		}
		r.Post("/synthesize", s.handleSynthesize)
		r.Post("/zones", s.handleZones)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Middleware
// =============================================================================

const requestIDHeader = "X-Request-ID"

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// Request is the body of the synthesis endpoints.
type Request struct {
	Plan    floorplan.Document `json:"plan"`
	Options pipeline.Options   `json:"options"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	plan, opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := s.runner.Run(r.Context(), plan, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(out.CacheHit))
	writeJSON(w, http.StatusOK, out.Layout)
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	plan, opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := s.runner.RunZones(r.Context(), plan, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(out.CacheHit))
	writeJSON(w, http.StatusOK, out.Zones)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (floorplan.Plan, pipeline.Options, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return floorplan.Plan{}, pipeline.Options{}, boxerrors.Wrap(boxerrors.ErrCodeInvalidInput, err, "decode request")
	}
	// Refresh is a client-side cache control, not a request option.
	req.Options.Refresh = r.URL.Query().Get("refresh") == "true"

	plan, report := floorplan.Normalize(req.Plan)
	if n := report.Skipped(); n > 0 {
		s.logger.Warn("skipped malformed records", "count", n, "id", observability.RequestID(r.Context()))
	}
	return plan, req.Options, nil
}

// =============================================================================
// Responses
// =============================================================================

// ErrorBody is the JSON body of error responses.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := boxerrors.GetCode(err)
	if code == "" {
		code = boxerrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), ErrorBody{Code: string(code), Message: boxerrors.UserMessage(err)})
}

func statusFor(code boxerrors.Code) int {
	switch {
	case code.Invalid():
		return http.StatusBadRequest
	case code.Missing():
		return http.StatusNotFound
	case code == boxerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
