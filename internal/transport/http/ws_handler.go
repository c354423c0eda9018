package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/dispatch"
	"github.com/vovakirdan/roomchat-server/internal/session"
)

// maxCloseReason keeps the close frame within the 125 byte control frame limit.
const maxCloseReason = 120

// WSHandler upgrades HTTP connections and runs one session per connection.
type WSHandler struct {
	users     *core.Registry
	disp      *dispatch.Dispatcher
	accept    *websocket.AcceptOptions
	readLimit int64
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(users *core.Registry, disp *dispatch.Dispatcher, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	accept := &websocket.AcceptOptions{InsecureSkipVerify: true}
	if len(cfg.AllowedOrigins) > 0 {
		accept = &websocket.AcceptOptions{OriginPatterns: cfg.AllowedOrigins}
	}
	return &WSHandler{
		users:     users,
		disp:      disp,
		accept:    accept,
		readLimit: cfg.MaxMessageBytes,
		log:       logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	user := h.users.Register("")
	sess := session.New(wsConn{conn: conn}, h.users, h.disp, user, h.log)
	err = sess.Run(r.Context())

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			if len(reason) > maxCloseReason {
				reason = reason[:maxCloseReason]
			}
			h.log.Warn().Err(err).Str("user_id", sess.Actor().String()).Msg("ws connection closed with error")
		}
	} else if errors.Is(err, context.Canceled) {
		status = websocket.StatusGoingAway
		reason = "server shutting down"
	}

	conn.Close(status, reason)
}

// wsConn adapts a WebSocket to session.Conn, one message per frame.
type wsConn struct {
	conn *websocket.Conn
}

func (c wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	return data, err
}

func (c wsConn) Write(ctx context.Context, p []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, p)
}
