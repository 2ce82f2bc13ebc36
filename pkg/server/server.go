// Package server implements the DICOMweb subset: QIDO-RS search over the
// index plus WADO-RS metadata backed by the files themselves.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/semaphore"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/index"
)

const (
	// DefaultTimeout bounds one request's wall clock.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxConns bounds concurrent index reads.
	DefaultMaxConns = 16

	contentTypeJSON      = "application/json"
	contentTypeDICOMJSON = "application/dicom+json"
	contentTypeDICOMXML  = "application/dicom+xml"
)

// Server serves the DICOMweb API over an index database and the scanned
// files. The tag dictionary and config are immutable; requests share no
// mutable state beyond the pooled database handle.
type Server struct {
	db      *sql.DB
	cfg     *index.Config
	log     *slog.Logger
	timeout time.Duration
	sem     *semaphore.Weighted
}

// Option tunes a Server.
type Option func(*Server)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithMaxConns overrides the read-concurrency bound.
func WithMaxConns(n int64) Option {
	return func(s *Server) { s.sem = semaphore.NewWeighted(n) }
}

// WithLogger overrides the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds a Server over an open index database.
func New(db *sql.DB, cfg *index.Config, opts ...Option) *Server {
	s := &Server{
		db:      db,
		cfg:     cfg,
		log:     slog.Default(),
		timeout: DefaultTimeout,
		sem:     semaphore.NewWeighted(DefaultMaxConns),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with logging and timeout middleware
// applied.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		fmt.Fprintln(w, "DICOM Web Server")
	})
	router.GET("/capabilities", s.handleCapabilities)

	// QIDO-RS search.
	router.GET("/studies", s.search(index.Studies, nil))
	router.GET("/series", s.search(index.Series, nil))
	router.GET("/instances", s.search(index.Instances, nil))
	router.GET("/studies/:study/series", s.search(index.Series, pathFilters{"study": "StudyInstanceUID"}))
	router.GET("/studies/:study/series/:series/instances", s.search(index.Instances, pathFilters{
		"study":  "StudyInstanceUID",
		"series": "SeriesInstanceUID",
	}))

	// WADO-RS metadata.
	router.GET("/studies/:study/metadata", s.metadata(index.Studies))
	router.GET("/studies/:study/series/:series/metadata", s.metadata(index.Series))
	router.GET("/studies/:study/series/:series/instances/:instance/metadata", s.metadata(index.Instances))

	// Storage is not implemented; the contract is an explicit 501.
	notImplemented := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.respondError(w, http.StatusNotImplemented, errors.New("not implemented"))
	}
	router.POST("/studies", notImplemented)
	router.POST("/studies/:study", notImplemented)
	router.DELETE("/studies", notImplemented)

	return s.middleware(router)
}

// middleware logs each request, assigns it an id and bounds its wall
// clock. On timeout the handler's context is cancelled and nothing
// partial is written.
func (s *Server) middleware(next http.Handler) http.Handler {
	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		s.log.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start))
	}))
	return http.TimeoutHandler(handler, s.timeout, "request timed out\n")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// acquire takes a read slot on the index, respecting the request
// deadline.
func (s *Server) acquire(ctx context.Context) (release func(), err error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.sem.Release(1) }, nil
}

// validUID accepts the characters a UID path segment may carry.
func validUID(uid string) bool {
	if uid == "" {
		return false
	}
	for _, c := range uid {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '.':
		default:
			return false
		}
	}
	return true
}

// wantsXML inspects Accept for the XML projection.
func wantsXML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeDICOMXML)
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// mapError translates the core taxonomy to an HTTP status.
func (s *Server) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, tag.ErrUnknownField):
		s.respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, errNotFound):
		s.respondError(w, http.StatusNotFound, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.respondError(w, http.StatusServiceUnavailable, err)
	default:
		s.log.Error("request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, err)
	}
}

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errors.New("not found")
)
