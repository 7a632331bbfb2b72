package feed

import (
	"errors"
	"log"
	"net/http"
	"time"

	"meetspace/internal/domain"
	"meetspace/internal/modules/room"
	jwtsvc "meetspace/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend host list is settled
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub   *Hub
	jwt   *jwtsvc.Service
	guard *room.Guard

	// pongWait bounds how long a peer may stay silent; pingPeriod must be
	// shorter so a live peer always gets a ping before the deadline expires.
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewHandler(hub *Hub, jwt *jwtsvc.Service, guard *room.Guard) *Handler {
	return &Handler{
		hub:        hub,
		jwt:        jwt,
		guard:      guard,
		pongWait:   60 * time.Second,
		pingPeriod: 30 * time.Second,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/rooms/:id", h.HandleRoomFeed)
}

// HandleRoomFeed upgrades the connection and streams booking events for one
// room. Auth comes in as ?token= because browsers cannot set headers on
// websocket dials. Only room members may subscribe.
func (h *Handler) HandleRoomFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	roomID := c.Param("id")
	if _, err := h.guard.Authorize(c.Request.Context(), roomID, claims.UserID, domain.ActionViewBookings); err != nil {
		if errors.Is(err, room.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this room"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve room role"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.Subscribe(roomID, conn)
	defer h.hub.Unsubscribe(roomID, conn)

	// Arm the deadline before the first read: a peer that connects and then
	// goes silent without ever ponging is dropped after pongWait instead of
	// holding the read open forever.
	_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	go h.pingLoop(conn)

	// The feed is one-way; the read loop only notices the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}
