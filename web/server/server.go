package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/integrator"
	"github.com/df07/go-recursive-raytracer/pkg/loaders"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// Server renders and inspects scenes over HTTP
type Server struct {
	scenesDir string
	logger    core.Logger
	registry  *prometheus.Registry
	metrics   *Metrics
	handler   http.Handler
}

// NewServer creates a server that resolves file: scenes in scenesDir
func NewServer(scenesDir string, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		scenesDir: scenesDir,
		logger:    logger,
		registry:  registry,
		metrics:   NewMetrics(registry),
	}
	s.handler = s.routes()
	return s
}

// RenderRequest holds the parameters of a render or inspect request
type RenderRequest struct {
	Scene    string
	Width    int
	Height   int
	Samples  int // Samples per axis
	Depth    int // 0 keeps the scene's
	Seed     int64
	RowOrder renderer.RowOrder
	Gamma    float64
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/scenes", s.handleScenes).Methods("GET")
	api.HandleFunc("/scenes/{id}/render", s.handleRender).Methods("GET")
	api.HandleFunc("/scenes/{id}/inspect", s.handleInspect).Methods("GET")

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	// Browser clients load images from other origins
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler(r)
}

// Handler returns the HTTP handler with every route and middleware installed
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting web server on http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleRender renders the scene and responds with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.metrics.RendersTotal.WithLabelValues("error").Inc()
		writeSceneError(w, req.Scene, err)
		return
	}

	rt := renderer.NewRaytracer(sceneObj, renderer.Options{
		RowOrder: req.RowOrder,
		Seed:     req.Seed,
	}, s.logger)

	width, height := rt.GetResolution()
	fb := renderer.NewImageFramebuffer(width, height, req.Gamma)

	// The request context cancels the render when the client disconnects
	stats, err := rt.Render(r.Context(), fb)
	if err != nil {
		status, code := renderFailure(err)
		s.metrics.RendersTotal.WithLabelValues(status).Inc()
		writeError(w, code, "Render error: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := fb.WritePNG(&buf); err != nil {
		s.metrics.RendersTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.observeRender(stats)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Mean-Luminance", strconv.FormatFloat(stats.MeanLuminance, 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// createScene builds the requested scene with the request's size and sampling
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := loaders.LoadScene(req.Scene, s.scenesDir, s.logger, geometry.CameraConfig{
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		return nil, err
	}

	sceneObj.SamplingConfig.SamplesPerAxis = req.Samples
	if req.Depth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.Depth
	}
	return sceneObj, nil
}

// renderFailure maps a render error to its metric label and status code
func renderFailure(err error) (string, int) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled", http.StatusServiceUnavailable
	}
	return "error", http.StatusInternalServerError
}

// parseRenderRequest parses the scene ID from the path and the rest from the query
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: mux.Vars(r)["id"]}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 300, 16, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 2, 1, 16); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, 0, integrator.MaxSupportedDepth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	if req.Gamma, err = parseFloatParam(query, "gamma", 2.2, 1, 4); err != nil {
		return nil, err
	}
	if req.RowOrder, err = renderer.ParseRowOrder(query.Get("rowOrder")); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSceneError maps scene resolution failures to status codes
func writeSceneError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		writeError(w, http.StatusNotFound, "Unknown scene: "+id)
	case errors.Is(err, loaders.ErrInvalidScene):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
