package signaling

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/knownet-app/knownet-backend/internal/common/utils"
	"github.com/knownet-app/knownet-backend/internal/connections"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the frontend domain is fixed
		return true
	},
}

type Handler struct {
	hub         *Hub
	connections connections.Service
}

func NewHandler(hub *Hub, connService connections.Service) *Handler {
	return &Handler{
		hub:         hub,
		connections: connService,
	}
}

// ServeMeeting upgrades an authenticated participant into the meeting
// room for the given connection. Access checks happen before the upgrade
// so rejections arrive as plain HTTP status codes.
func (h *Handler) ServeMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	connectionID, err := strconv.ParseInt(mux.Vars(r)["connectionID"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	if err := h.connections.EnsureParticipant(r.Context(), connectionID, userID); err != nil {
		switch {
		case errors.Is(err, connections.ErrConnectionNotFound):
			utils.ErrorResponse(w, "Connection not found", http.StatusNotFound)
		case errors.Is(err, connections.ErrNotParticipant):
			utils.ErrorResponse(w, "Not a participant of this connection", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to verify participant", http.StatusInternalServerError)
		}
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	client := NewClient(h.hub, conn, userID, connectionID)
	h.hub.register <- client
	client.Start()
}
