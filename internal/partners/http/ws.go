package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsWriteWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the frame pushed to the partner console.
type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ConsoleSocket pushes the dashboard on connect and again after every change
// to the provider's orders, reviews or profile.
func (h *Handler) ConsoleSocket(c *gin.Context) {
	pid := providerID(c)
	uid := auth.UserFirebaseUID(c)
	sessionTopic := realtime.SessionTopic(uid)

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()
	log := logger.FromContext(ctx).With("provider_id", pid)

	sub, err := h.events.Subscribe(ctx,
		realtime.ProviderOrdersTopic(pid),
		realtime.ReviewsTopic(pid),
		realtime.ProviderTopic(pid),
		sessionTopic,
	)
	if err != nil {
		c.Error(toAppError(err))
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("console websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// The console never sends anything meaningful; reading drives pong
	// handling and notices the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg wsMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug("console websocket write failed", "error", err)
			return false
		}
		return true
	}
	push := func(kind string) bool {
		d, err := h.console.Dashboard(ctx, pid)
		if err != nil {
			log.Error("console snapshot failed", "error", err)
			return send(wsMessage{Type: "error", Data: gin.H{"error": "failed to load data"}})
		}
		return send(wsMessage{Type: kind, Data: d})
	}

	if !push("initial") {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}

		case ev, open := <-sub.Events():
			if !open {
				return
			}
			if ev.Topic == sessionTopic {
				if ev.Kind == realtime.KindClosed {
					send(wsMessage{Type: "closed"})
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
						time.Now().Add(wsWriteWait))
					return
				}
				continue
			}
			if !push("update") {
				return
			}
		}
	}
}
