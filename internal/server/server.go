package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/PolarWolf314/securehide/internal/configs"
	logger "github.com/PolarWolf314/securehide/internal/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "SecureHide API"

// Server is the HTTP boundary around the stego codec.
type Server struct {
	cfg     *configs.Config
	log     logger.Logger
	version string

	pool    *Pool
	metrics *Metrics
	handler http.Handler
}

// New builds a server from cfg. A nil cfg means defaults.
func New(cfg *configs.Config, log logger.Logger, version string) *Server {
	if cfg == nil {
		cfg = configs.Default()
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		version: version,
		metrics: NewMetrics(),
	}
	s.pool = NewPool(cfg.Server.MaxConcurrent, time.Duration(cfg.Server.RequestTimeoutSeconds)*time.Second, s.metrics)

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("POST /hide", s.instrument("hide", s.limitUpload(http.HandlerFunc(s.handleHide))))
	mux.Handle("POST /extract", s.instrument("extract", s.limitUpload(http.HandlerFunc(s.handleExtract))))
	mux.Handle("GET /capacity", s.instrument("capacity", http.HandlerFunc(s.handleCapacityQuery)))
	mux.Handle("POST /capacity", s.instrument("capacity", s.limitUpload(http.HandlerFunc(s.handleCapacityUpload))))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	// The original API mounted the codec under /api; keep those paths working.
	mux.Handle("GET /api/health", s.instrument("health", http.HandlerFunc(s.handleAPIHealth)))
	mux.Handle("POST /api/hide", s.instrument("hide", s.limitUpload(http.HandlerFunc(s.handleHide))))
	mux.Handle("POST /api/extract", s.instrument("extract", s.limitUpload(http.HandlerFunc(s.handleExtract))))

	s.handler = withRequestID(withCORS(cfg.Server.AllowedOrigins, mux))
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on cfg.Server.Listen until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Listen,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// limitUpload caps the request body at cfg.Server.MaxUploadBytes.
func (s *Server) limitUpload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
		next.ServeHTTP(w, r)
	})
}
