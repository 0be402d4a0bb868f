// Package http exposes the tracker over a localhost JSON API. It is the
// presentation boundary: commands map to controller entry points, views map
// to derived-state accessors, and currency formatting happens only here.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"violet/internal/cache"
	"violet/internal/log"
	"violet/internal/tracker"
)

type contextKey string

const requestIDKey contextKey = "request_id"

type Server struct {
	http.Server

	tracker     *tracker.Tracker
	logger      *log.Logger
	rateLimiter *rateLimiter

	// Month views are cached briefly and purged on every mutation, so a
	// view is never served from a snapshot older than the last command.
	dashboardCache *cache.LRU[tracker.DashboardView]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tr *tracker.Tracker, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		tracker:        tr,
		logger:         logger.WithComponent(log.ComponentHTTP),
		rateLimiter:    newRateLimiter(),
		dashboardCache: cache.NewLRU[tracker.DashboardView](100, 5*time.Minute),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("/api/breakdown", s.withMiddleware(s.handleBreakdown))
	mux.HandleFunc("/api/days", s.withMiddleware(s.handleDays))
	mux.HandleFunc("/api/days/more", s.withMiddleware(s.handleLoadMore))
	mux.HandleFunc("/api/months", s.withMiddleware(s.handleMonths))
	mux.HandleFunc("/api/month/navigate", s.withMiddleware(s.handleNavigateMonth))
	mux.HandleFunc("/api/month/select", s.withMiddleware(s.handleSelectMonth))
	mux.HandleFunc("/api/history", s.withMiddleware(s.handleHistory))
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/clear", s.withMiddleware(s.handleClear))
	mux.HandleFunc("/api/settings", s.withMiddleware(s.handleSettings))

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine before shutting the
// HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateViews drops cached views after a mutation.
func (s *Server) invalidateViews() {
	s.dashboardCache.Purge()
}

// withMiddleware adds request ids, structured request logging, security
// headers and rate limiting of mutating requests.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
