package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps streaming responses flowing through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.opts.Metrics.RecordRequest(route, status)
	}
}

func (s *Server) limit(route string, next http.HandlerFunc) http.HandlerFunc {
	if s.opts.Floodgate == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		client := clientID(r)
		ok, retryAfter := s.opts.Floodgate.Allow(route, client)
		if !ok {
			s.opts.Metrics.RecordFloodRejection()
			s.logger.Debug("Request rejected by flood limit",
				zap.String("route", route),
				zap.String("client", client),
				zap.Duration("retry_after", retryAfter))

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:   "TooManyRequests",
				Message: "too many requests, slow down",
			})
			return
		}
		next(w, r)
	}
}

// clientID identifies the caller by remote host.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
