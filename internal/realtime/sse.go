package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

// KeepAliveInterval is the SSE comment ping period.
var KeepAliveInterval = 15 * time.Second

// Snapshot produces the full current state pushed to a stream.
type Snapshot func(ctx context.Context) (any, error)

// Stream serves Server-Sent Events: an "initial" snapshot, then a full
// replacement "update" snapshot after every event on sub. It returns when
// the client disconnects, the subscription ends, or a closed event arrives
// on closeTopic (the principal's session).
func Stream(c *gin.Context, sub *Subscription, snapshot Snapshot, closeTopic string) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	push := func(event string) {
		data, err := snapshot(ctx)
		if err != nil {
			logger.FromContext(ctx).Error("stream snapshot failed", "error", err)
			writeEvent(c, "error", gin.H{"error": "failed to load data"})
		} else {
			writeEvent(c, event, data)
		}
		flusher.Flush()
	}

	push("initial")

	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ev, open := <-sub.Events():
			if !open {
				return
			}
			if closeTopic != "" && ev.Topic == closeTopic {
				if ev.Kind == KindClosed {
					writeEvent(c, "closed", gin.H{"reason": "session closed"})
					flusher.Flush()
					return
				}
				continue
			}
			push("update")
		}
	}
}

func writeEvent(c *gin.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"error":"encoding failed"}`)
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
}
