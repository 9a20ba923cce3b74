package sessions

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/sessions").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.Create).Methods("POST")
	api.HandleFunc("", handler.List).Methods("GET")
	api.HandleFunc("/mine", handler.MySessions).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}", handler.Get).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}/join", handler.Join).Methods("POST")
	api.HandleFunc("/{id:[0-9]+}/attendees", handler.Attendees).Methods("GET")
}
