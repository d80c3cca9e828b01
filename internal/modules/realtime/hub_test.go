package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jwtsvc "carsure/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSocketServer(t *testing.T) (*Hub, *jwtsvc.Service, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	jwt := jwtsvc.New("test-secret", time.Hour)

	r := gin.New()
	NewHandler(hub, jwt).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	return hub, jwt, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitOnline(t *testing.T, hub *Hub, userID int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.IsOnline(userID) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("user %d never came online", userID)
}

func TestHandshakeRejectsBadToken(t *testing.T) {
	_, _, srv := newSocketServer(t)

	resp, err := http.Get(srv.URL + "/ws?token=not-a-token")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPushReachesEveryConnection(t *testing.T) {
	hub, jwt, srv := newSocketServer(t)

	token, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)

	// same user connected from two tabs
	connA := dial(t, srv, token)
	defer connA.Close()
	connB := dial(t, srv, token)
	defer connB.Close()
	waitOnline(t, hub, 20)

	delivered := hub.Push(20, map[string]any{"type": "new_notification"})
	assert.True(t, delivered)

	for _, conn := range []*websocket.Conn{connA, connB} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "new_notification", msg["type"])
	}
}

func TestPushToOfflineUser(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.Push(999, map[string]any{"type": "new_notification"}))
	assert.False(t, hub.IsOnline(999))
	assert.Zero(t, hub.OnlineCount())
}

func TestConcurrentPushesSingleWriter(t *testing.T) {
	hub, jwt, srv := newSocketServer(t)

	token, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)
	conn := dial(t, srv, token)
	defer conn.Close()
	waitOnline(t, hub, 20)

	// drain everything the server writes so pushes never block on a full
	// buffer
	received := make(chan struct{}, 2048)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received <- struct{}{}
		}
	}()

	// the client keeps talking while events are pushed, so protocol acks
	// from the read loop interleave with hub writes
	go func() {
		for i := 0; i < 50; i++ {
			if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
				return
			}
		}
	}()

	const (
		writers        = 16
		pushesPerGorou = 50
	)
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < pushesPerGorou; i++ {
				assert.True(t, hub.Push(20, map[string]any{"type": "new_notification"}))
			}
		}()
	}
	wg.Wait()

	// every push must have reached the socket intact
	deadline := time.After(5 * time.Second)
	for i := 0; i < writers*pushesPerGorou; i++ {
		select {
		case <-received:
		case <-deadline:
			t.Fatalf("only %d of %d pushed events arrived", i, writers*pushesPerGorou)
		}
	}

	assert.True(t, hub.IsOnline(20))
}

func TestJoinAckAndPing(t *testing.T) {
	hub, jwt, srv := newSocketServer(t)

	token, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)
	conn := dial(t, srv, token)
	defer conn.Close()
	waitOnline(t, hub, 20)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "join_user", "user_id": 20}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ack map[string]any
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "joined", ack["type"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	var pong map[string]any
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func TestUnregisterDropsEmptyUser(t *testing.T) {
	hub, jwt, srv := newSocketServer(t)

	token, err := jwt.GenerateToken(20, "seller")
	require.NoError(t, err)
	conn := dial(t, srv, token)
	waitOnline(t, hub, 20)
	assert.Equal(t, 1, hub.OnlineCount())

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.IsOnline(20) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.False(t, hub.IsOnline(20))
	assert.Zero(t, hub.OnlineCount())
}
