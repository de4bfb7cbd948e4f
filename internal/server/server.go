// Package server exposes the solver pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz    liveness check with the build version
//	POST /v1/solve   solve an inline graph or a generated grid
//
// A solve request carries pipeline options and, optionally, a graph document
// in the same JSON form as graph files. Without a graph, the options must
// name a grid size; file sources are rejected since the server never reads
// from its own disk on behalf of a client. The response body is the artifact
// for the requested ?format= (json by default).
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stoproute/pkg/buildinfo"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/pipeline"
)

// MaxBodyBytes bounds the size of a solve request.
const MaxBodyBytes = 32 << 20

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Options pipeline.Options `json:"options"`
	Graph   json.RawMessage  `json:"graph,omitempty"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// Server serves solve requests with a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	return &Server{runner: runner, logger: logger}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	req := SolveRequest{Options: pipeline.DefaultOptions()}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	opts := req.Options
	if opts.Graph != "" || opts.Roads != "" {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "file sources are not accepted; send the graph inline"))
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	opts.Formats = []string{format}
	opts.Logger = s.logger

	var (
		result *pipeline.Result
		err    error
	)
	if len(req.Graph) > 0 {
		g, stored, rerr := stio.ReadJSON(bytes.NewReader(req.Graph))
		if rerr != nil {
			s.writeError(w, r, rerr)
			return
		}
		result, err = s.runner.ExecuteGraph(r.Context(), g, stored, opts)
	} else {
		result, err = s.runner.Execute(r.Context(), opts)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeNodeNotFound, errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported, errs.ErrCodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeInternal, "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	// Only an oversized body is 413; solver and grid limits are 422.
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		code, status = errs.ErrCodeLimitExceeded, http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errs.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
