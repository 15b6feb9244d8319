package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/matching"
	"github.com/mommatch/mommatch-backend/internal/messaging"
	"github.com/mommatch/mommatch-backend/internal/profile"
)

var startTime = time.Now()

// serverDeps is everything the root router mounts
type serverDeps struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Profile        *profile.Handler
	Matching       *matching.Handler
	Messaging      *messaging.Handler
	Hub            *messaging.Hub
	AllowedOrigins []string
	EnableMetrics  bool
}

// newServer builds the root handler: gorilla/mux routes wrapped in CORS
func newServer(deps serverDeps) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	if deps.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	deps.Auth.RegisterRoutes(router, deps.AuthMiddleware)
	matching.RegisterRoutes(router, deps.Matching, deps.AuthMiddleware)
	messaging.RegisterRoutes(router, deps.Messaging, deps.Hub, deps.AuthMiddleware)
	router.PathPrefix(profile.PathPrefix).Handler(profile.NewRouter(deps.Profile, deps.AuthMiddleware))

	router.Use(loggingMiddleware)

	return cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade through the wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
