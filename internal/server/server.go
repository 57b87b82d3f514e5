// Package server serves the web dashboard.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/render"
	"github.com/naka-gawa/repo-metrics/internal/usecase"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
)

// Views builds the data of the dashboard pages.
type Views interface {
	Contributors(ctx context.Context) (*usecase.ContributorsView, error)
	Commits(ctx context.Context) (*usecase.CommitsView, error)
}

// Server maps dashboard routes to views.
type Server struct {
	repository string
	views      Views
	registry   metrics.Registry
	logger     logrus.FieldLogger
	router     *httprouter.Router
}

// New creates a Server and registers its routes.
func New(repository string, views Views, registry metrics.Registry, logger logrus.FieldLogger) *Server {
	s := &Server{
		repository: repository,
		views:      views,
		registry:   registry,
		logger:     logger.WithField("component", "server"),
		router:     httprouter.New(),
	}

	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, err interface{}) {
		s.logger.Errorf("%s %s: %+v", r.Method, r.RequestURI, err)
		s.renderError(w, http.StatusInternalServerError, "Internal Server Error", "unexpected failure")
	}
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warnf("not found %s", r.RequestURI)
		s.renderError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), r.URL.Path)
	})

	s.router.GET("/", s.middleware(s.homeHandler))
	s.router.GET("/contributors", s.middleware(s.contributorsHandler))
	s.router.GET("/commits", s.middleware(s.commitsHandler))
	s.router.GET("/debug/metrics", s.middleware(s.metricsHandler))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) middleware(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		w.Header().Set("Server", "repo-metrics")
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rec, r, params)
		s.logger.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"elapsed": time.Since(start),
		}).Info("request")
	}
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.renderPage(w, render.PageHome, struct{ Repository string }{s.repository})
}

func (s *Server) contributorsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := s.views.Contributors(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderPage(w, render.PageContributors, view)
}

func (s *Server) commitsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := s.views.Commits(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderPage(w, render.PageCommits, view)
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(s.registry); err != nil {
		s.logger.Errorf("encode metrics: %v", err)
	}
}

// renderPage buffers the page so a template failure can still become an error
// response.
func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := render.Page(&buf, name, data); err != nil {
		s.logger.Error(err)
		s.renderError(w, http.StatusInternalServerError, "Render Error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// fail maps a pipeline error to a distinguishable response: upstream fetch
// failures are 502, unusable data is 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *domain.FetchFailedError
	status, title := http.StatusInternalServerError, "Report Failed"
	if errors.As(err, &fetchErr) {
		status, title = http.StatusBadGateway, "GitHub Request Failed"
	}
	s.logger.WithField("path", r.URL.Path).Errorf("%s: %v", title, err)
	s.renderError(w, status, title, err.Error())
}

func (s *Server) renderError(w http.ResponseWriter, status int, title, message string) {
	var buf bytes.Buffer
	if err := render.Page(&buf, render.PageError, render.ErrorData{Status: status, Title: title, Message: message}); err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
