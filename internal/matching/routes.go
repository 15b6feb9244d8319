package matching

import (
	"github.com/gorilla/mux"

	"github.com/mommatch/mommatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Match engine
	api.HandleFunc("/interest", handler.RecordInterest).Methods("POST")
	api.HandleFunc("/retract", handler.RetractLike).Methods("POST")
	api.HandleFunc("/reinsert", handler.ReinsertProfile).Methods("POST")

	// Read models
	api.HandleFunc("", handler.GetMatches).Methods("GET")
	api.HandleFunc("/likes", handler.GetLikes).Methods("GET")
	api.HandleFunc("/rejected", handler.GetRejected).Methods("GET")
}
