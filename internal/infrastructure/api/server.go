// Package api exposes the read-side resolution endpoints over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appservices "github.com/slicerhub/slicerhub/internal/application/services"
	"github.com/slicerhub/slicerhub/internal/domain/entities"
	"github.com/slicerhub/slicerhub/internal/domain/services"
	"github.com/slicerhub/slicerhub/internal/infrastructure/config"
)

// Server serves dependency and resolution queries for one repository.
// Resolution services (and their caches) are created lazily per
// (slicer, type) pair and shared across requests.
type Server struct {
	root   string
	logger *slog.Logger

	mu       sync.Mutex
	services map[string]*appservices.ResolutionService
}

// NewServer creates a server over a repository directory.
func NewServer(root string, logger *slog.Logger) *Server {
	return &Server{
		root:     root,
		logger:   logger,
		services: make(map[string]*appservices.ResolutionService),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dependencies/{slicer}/{type}/*", s.handleDependencies)
		r.Get("/resolved/{slicer}/{type}/*", s.handleResolved)
	})
	return r
}

func (s *Server) service(slicer, configType string) *appservices.ResolutionService {
	key := slicer + "/" + configType
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[key]
	if !ok {
		svc = appservices.NewResolutionService(config.NewStore(s.root, slicer, configType))
		s.services[key] = svc
	}
	return svc
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	svc := s.service(chi.URLParam(r, "slicer"), chi.URLParam(r, "type"))
	rel := chi.URLParam(r, "*")

	q := r.URL.Query()
	withTree := q.Get("format") == "tree"
	withMeta := boolParam(q.Get("include_metadata"))
	depth, err := depthParam(q.Get("depth"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	report, err := svc.Dependencies(r.Context(), rel, depth, withTree, withMeta)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type resolvedResponse struct {
	ResolvedConfig   any               `json:"resolved_config"`
	InheritanceChain []string          `json:"inheritance_chain"`
	Instantiable     bool              `json:"instantiable"`
	SourceMap        map[string]string `json:"source_map,omitempty"`
	ValidationErrors []string          `json:"validation_errors,omitempty"`
}

func (s *Server) handleResolved(w http.ResponseWriter, r *http.Request) {
	svc := s.service(chi.URLParam(r, "slicer"), chi.URLParam(r, "type"))
	rel := chi.URLParam(r, "*")

	q := r.URL.Query()
	depth, err := depthParam(q.Get("depth"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	res, err := svc.ResolveTarget(r.Context(), rel, depth)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	resp := resolvedResponse{
		ResolvedConfig:   res.Config.ToGo(),
		InheritanceChain: res.Chain,
		Instantiable:     res.Instantiable,
	}
	if boolParam(q.Get("include_source_map")) {
		resp.SourceMap = res.SourceMap
	}
	if boolParam(q.Get("validate")) {
		var problems []string
		if !res.Instantiable {
			problems = append(problems, "config is declared non-instantiable and should not be offered for slicing")
		}
		resp.ValidationErrors = problems
	}
	writeJSON(w, http.StatusOK, resp)
}

// apiError is the machine-readable error body. Kind is stable across
// releases; clients should switch on it, not on the message.
type apiError struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Chain   []string `json:"chain,omitempty"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		notFound *entities.ConfigNotFoundError
		circular *entities.CircularDependencyError
		invalid  *entities.InvalidInheritanceError
		depth    *entities.DepthExceededError
		badParam *badParamError
	)
	status := http.StatusInternalServerError
	body := apiError{Kind: "internal", Message: "internal server error"}

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		body = apiError{Kind: "config_not_found", Message: err.Error()}
	case errors.As(err, &circular):
		status = http.StatusBadRequest
		body = apiError{Kind: "circular_dependency", Message: err.Error(), Chain: circular.Cycle}
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
		body = apiError{Kind: "invalid_inheritance", Message: err.Error()}
	case errors.As(err, &depth):
		status = http.StatusBadRequest
		body = apiError{Kind: "depth_exceeded", Message: err.Error(), Chain: depth.Chain}
	case errors.As(err, &badParam):
		status = http.StatusBadRequest
		body = apiError{Kind: "bad_parameter", Message: err.Error()}
	default:
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]apiError{"error": body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// badParamError reports an unusable query parameter.
type badParamError struct {
	param  string
	reason string
}

func (e *badParamError) Error() string {
	return fmt.Sprintf("invalid %s parameter: %s", e.param, e.reason)
}

func depthParam(raw string) (int, error) {
	if raw == "" {
		return services.DefaultMaxDepth, nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 1 {
		return 0, &badParamError{param: "depth", reason: "must be a positive integer"}
	}
	return depth, nil
}

func boolParam(raw string) bool {
	return raw == "true" || raw == "1"
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
