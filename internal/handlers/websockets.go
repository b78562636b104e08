package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000 // 60s in ms
)

// Message types of the session stream.
const (
	wsTypeSession        = "session"
	wsTypeTasks          = "tasks"
	wsTypeSessionExpired = "session_expired"
	wsTypeLogout         = "logout"
	wsTypeLoggedOut      = "logged_out"
	wsTypeError          = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsSessionInfo is the payload of the first message on a session stream.
type wsSessionInfo struct {
	User      models.Identity `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(h.allowedOrigins) == 0 {
				return true
			}
			if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
				return true
			}
			return h.originAllowed(origin)
		},
	}
}

// @Summary      Session stream
// @Description  Upgrades to a WebSocket that pushes the caller's tasks and closes when the token expires.
// @Tags         session
// @Security     BearerAuth
// @Param        interval     query  string  false  "snapshot interval, e.g. 2s"
// @Param        interval_ms  query  int     false  "snapshot interval in milliseconds"
// @Success      101
// @Failure      401  {object}  task_tracker.ErrorResponse
// @Failure      403  {object}  task_tracker.ErrorResponse
// @Router       /ws/session [get]
func (h *Handler) wsSession(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	interval := h.parseInterval(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames, logout requests and disconnects.
	done := make(chan struct{})
	logout := make(chan struct{})
	go h.startReader(conn, done, logout)

	// The session ends when the token does; the timer lives only as long as this connection.
	expiry := time.NewTimer(time.Until(identity.ExpiresAt))
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		expiry.Stop()
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.writeEnvelope(conn, wsEnvelope{
		Type: wsTypeSession,
		Data: wsSessionInfo{User: identity, ExpiresAt: identity.ExpiresAt.UTC()},
	}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}
	if err := h.sendTasks(ctx, conn, identity.UserID); err != nil {
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-logout:
			_ = h.writeEnvelope(conn, wsEnvelope{Type: wsTypeLoggedOut})
			h.closeWith(conn, websocket.CloseNormalClosure, "logged out")
			if h.log != nil {
				h.log.Infow("ws_session_logout", "user_id", identity.UserID)
			}
			return
		case <-expiry.C:
			_ = h.writeEnvelope(conn, wsEnvelope{Type: wsTypeSessionExpired})
			h.closeWith(conn, websocket.ClosePolicyViolation, "session expired")
			if h.log != nil {
				h.log.Infow("ws_session_expired", "user_id", identity.UserID)
			}
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendTasks(ctx, conn, identity.UserID); err != nil {
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := h.sessionInterval
	if interval <= 0 {
		interval = defaultInterval
	}

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages. A {"type":"logout"} message
// closes logout; any read error closes done.
func (h *Handler) startReader(conn *websocket.Conn, done, logout chan<- struct{}) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			close(done)
			return
		}
		var msg wsEnvelope
		if json.Unmarshal(data, &msg) == nil && msg.Type == wsTypeLogout {
			close(logout)
			return
		}
	}
}

// Helper: sendTasks fetches and writes a snapshot of the user's tasks.
func (h *Handler) sendTasks(ctx context.Context, conn *websocket.Conn, userID int) error {
	tasks, err := h.services.Tasks.List(ctx, userID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_tasks_failed", "user_id", userID, "err", err)
		}
		_ = h.writeEnvelope(conn, wsEnvelope{Type: wsTypeError, Error: msgInternal})
		return err
	}
	if err := h.writeEnvelope(conn, wsEnvelope{Type: wsTypeTasks, Data: tasks}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed", "err", err)
		}
		return err
	}
	return nil
}

func (h *Handler) writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

func (h *Handler) closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
