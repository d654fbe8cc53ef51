package sampleapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// requestIDHeader carries the request ID back to the caller.
const requestIDHeader = "X-Request-ID"

// requestID assigns a UUID to every request unless the caller supplied one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		writer.Header().Set(requestIDHeader, id)
		next.ServeHTTP(writer, req)
	})
}

// requestLogger logs one structured entry per request.
func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			wrapped := chimiddleware.NewWrapResponseWriter(writer, req.ProtoMajor)

			next.ServeHTTP(wrapped, req)

			logger.WithFields(logrus.Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     wrapped.Status(),
				"bytes":      wrapped.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": wrapped.Header().Get(requestIDHeader),
			}).Info("request completed")
		})
	}
}

// instrument records request count, latency and in-flight gauge. The chi
// route pattern is used as the endpoint label so path parameters do not
// explode metric cardinality.
func instrument(m *metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()

			m.requestsActive.Inc()
			defer m.requestsActive.Dec()

			wrapped := chimiddleware.NewWrapResponseWriter(writer, req.ProtoMajor)

			next.ServeHTTP(wrapped, req)

			endpoint := chi.RouteContext(req.Context()).RoutePattern()
			if endpoint == "" {
				endpoint = req.URL.Path
			}

			status := strconv.Itoa(wrapped.Status())

			m.requestsTotal.WithLabelValues(req.Method, endpoint, status).Inc()
			m.requestDuration.WithLabelValues(req.Method, endpoint).
				Observe(time.Since(start).Seconds())

			if wrapped.Status() >= http.StatusInternalServerError {
				m.errorsTotal.WithLabelValues("http_5xx").Inc()
			}
		})
	}
}
