package api

import (
	"net/http"
	"time"
)

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs the request and counts it under route.
func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("handler panic", "route", route, "panic", p)
				rec.WriteHeader(http.StatusInternalServerError)
				s.metrics.RecordRequest(route, rec.status)
			}
		}()

		h(rec, r)

		s.metrics.RecordRequest(route, rec.status)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"elapsed", time.Since(started),
		)
	})
}
