// Package server exposes the build pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz    liveness and build information
//	POST /v1/layout  breakpoint summary of every container
//	POST /v1/build   generated HTML and CSS of every page
//
// Both POST routes take a project inline:
//
//	{
//	  "app": "site",
//	  "widgets": {"page": {"children": ["a", "b"]}},
//	  "leaves": {"a": "<!-- \"width\": 100, \"height\": 40 -->\n<p>a</p>", ...},
//	  "css": "...",
//	  "options": {"width_algorithm": "flex-dag"}
//	}
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/erwd/pkg/buildinfo"
	"github.com/matzehuels/erwd/pkg/errors"
	"github.com/matzehuels/erwd/pkg/pipeline"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves the pipeline over HTTP.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New returns a server running projects through runner. base supplies the
// options a request does not set.
func New(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, base: base, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/build", s.build)
	})
	s.router = r
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}

// request is the body of both POST routes.
type request struct {
	pipeline.Sources
	Options json.RawMessage `json:"options,omitempty"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Sources, pipeline.Options, error) {
	var req request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return pipeline.Sources{}, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	opts := s.base.Copy()
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			return pipeline.Sources{}, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options")
		}
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	return req.Sources, opts, nil
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Resolve()})
}

type layoutResponse struct {
	*pipeline.Summary
	CacheHit bool `json:"cache_hit"`
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	src, opts, err := s.decode(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := pipeline.LoadSources(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, hit, err := s.runner.Summarize(r.Context(), p, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Summary: summary, CacheHit: hit})
}

type buildResponse struct {
	Pages     []string          `json:"pages"`
	Artifacts map[string]string `json:"artifacts"`
	CacheHit  bool              `json:"cache_hit"`
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) {
	src, opts, err := s.decode(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := pipeline.LoadSources(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.runner.ExecuteProject(r.Context(), p, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := buildResponse{
		Pages:     result.Pages,
		Artifacts: make(map[string]string, len(result.Artifacts)),
		CacheHit:  result.CacheInfo.EmitHit,
	}
	for name, data := range result.Artifacts {
		resp.Artifacts[name] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := Status(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// Status maps an error code to an HTTP status.
func Status(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidWidget, errors.ErrCodeInvalidSizeComment,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidRange, errors.ErrCodeCyclicConstraint, errors.ErrCodeDomain:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
