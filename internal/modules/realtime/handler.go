package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"carsure/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// readTimeout is refreshed on every pong; a peer that dies without a
	// close frame times the read loop out instead of leaking it.
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// Origin checks are handled by the CORS layer in front; the token is the
	// actual authentication.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is what the frontend sends over the socket. join_user and
// leave_user are kept for contract compatibility; the room membership is
// actually derived from the authenticated token.
type clientMessage struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id,omitempty"`
}

type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{hub: hub, jwtService: jwtService}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and keeps it registered for the
// lifetime of the socket. Authentication is via ?token= since websocket
// clients cannot set headers.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Token is required"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	userID := claims.UserID
	cl := newClient(conn)
	h.hub.register(userID, cl)
	log.Printf("user %d connected via websocket", userID)

	defer func() {
		h.hub.unregister(userID, cl)
		log.Printf("user %d disconnected from websocket", userID)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(cl, done)

	h.readLoop(cl, userID)
}

func (h *Handler) pingLoop(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cl.writePing(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) readLoop(cl *client, userID int64) {
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure) {
				log.Printf("websocket error for user %d: %v", userID, err)
			}
			return
		}

		// Any traffic proves the peer is alive.
		_ = cl.conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "join_user":
			// Already registered at connect time; acknowledge only.
			_ = cl.writeJSON(gin.H{"type": "joined", "user_id": userID})
		case "leave_user":
			return
		case "ping":
			_ = cl.writeJSON(gin.H{"type": "pong"})
		default:
			// The push channel is one-way; anything else is ignored.
		}
	}
}
