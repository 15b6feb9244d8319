// internal/messaging/routes.go

package messaging

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mommatch/mommatch-backend/internal/auth"
)

// RegisterRoutes registers the conversation routes and the websocket endpoint
func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	// WebSocket endpoint - requires authentication
	router.Handle("/ws", authMiddleware.Authenticate(http.HandlerFunc(hub.ServeWS))).Methods("GET")

	api := router.PathPrefix("/api/v1/conversations").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetConversations).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}", handler.GetConversation).Methods("GET")
	api.HandleFunc("/with/{userId:[0-9]+}", handler.CanMessage).Methods("GET")
}
