package signaling

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(authMiddleware.Authenticate)

	ws.HandleFunc("/meeting/{connectionID:[0-9]+}", handler.ServeMeeting).Methods("GET")
}
