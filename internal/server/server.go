// Package server exposes the HTTP surface: alert CRUD, VIP upgrade, the
// admin panel, the dashboard payload and health/metrics endpoints.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"

	"crypto-alerts-bot/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	alerts        *store.Alerts
	users         *store.Users
	content       *store.Content
	adminPassword string
	requests      *prometheus.CounterVec
}

func New(alerts *store.Alerts, users *store.Users, content *store.Content, adminPassword string, reg prometheus.Registerer) *Server {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptoalerts",
			Subsystem: "bot",
			Name:      "http_requests",
			Help:      "The total number of HTTP requests per route and status",
		},
		[]string{"route", "status"},
	)
	if reg != nil {
		reg.MustRegister(requests)
	}
	return &Server{
		alerts:        alerts,
		users:         users,
		content:       content,
		adminPassword: adminPassword,
		requests:      requests,
	}
}

// Routes builds the mux with every handler wrapped in the recovery and
// metrics middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", s.wrap("/alerts", s.handleAlerts))
	mux.HandleFunc("/upgrade-vip", s.wrap("/upgrade-vip", s.handleUpgradeVIP))
	mux.HandleFunc("/admin", s.wrap("/admin", s.handleAdmin))
	mux.HandleFunc("/health", s.wrap("/health", s.handleHealth))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.wrap("/", s.handleDashboard))
	return mux
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) wrap(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if rc := recover(); rc != nil {
				stackBuf := make([]byte, 1024)
				stackSize := runtime.Stack(stackBuf, false)
				stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
				log.Errorf("recovered from panic in %s %s: %v\n%s", r.Method, route, rc, stackTrace)
				writeError(rec, http.StatusInternalServerError, "internal server error")
			}
			s.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			log.Debugf("%s %s -> %d", r.Method, r.URL.Path, rec.status)
		}()

		handler(rec, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
