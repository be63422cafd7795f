package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"workflow-board-api/internal/events"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
type wsClient struct {
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// WebSocket handles GET /ws. The JWT middleware has already authenticated
// the principal; a connection that never got past it never reaches a room.
// Inbound messages are join:project / leave:project room requests.
func (a *API) WebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn}
	sub := a.hub.Register(userID, client)

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		a.hub.Unregister(sub)
	}()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Normal close or transport loss; teardown in the deferred cleanup
			return
		}

		var msg events.Inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			a.hub.Emit(sub, events.Error, events.ErrorPayload{Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case events.JoinProject:
			if err := a.hub.JoinProject(sub, msg.ProjectID); err != nil {
				// Denial leaves membership unchanged; the connection stays up
				a.hub.Emit(sub, events.Error, events.ErrorPayload{Message: "access denied to project"})
				continue
			}
			a.hub.Emit(sub, events.JoinedProject, events.JoinedProjectPayload{ProjectID: msg.ProjectID})
		case events.LeaveProject:
			a.hub.LeaveProject(sub, msg.ProjectID)
		default:
			a.hub.Emit(sub, events.Error, events.ErrorPayload{Message: "unknown message type"})
		}
	}
}
