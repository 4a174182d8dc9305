package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/markjakearzadon/announcements-gobackend/internal/metrics"
	"go.uber.org/zap"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// NewRouter builds the service router. m may be nil, which leaves out
// /metrics and request instrumentation.
func NewRouter(announcementHandler *AnnouncementHandler, m *metrics.Metrics, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods("GET")
		router.Use(m.Middleware)
	}
	router.Use(RequestLogger(logger.Named("http")))

	announcementHandler.RegisterRoutes(router)
	return router
}
