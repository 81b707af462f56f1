package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the next "event:" name and its data line.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestStream_InitialUpdateAndSessionClose(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client, _ := setupTestRedis(t)
	bus := NewBus(client)

	var calls int32
	router := gin.New()
	router.GET("/stream", func(c *gin.Context) {
		sub, err := bus.Subscribe(c.Request.Context(), ReviewsTopic("p1"), SessionTopic("u1"))
		require.NoError(t, err)
		defer sub.Close()

		Stream(c, sub, func(ctx context.Context) (any, error) {
			n := atomic.AddInt32(&calls, 1)
			return gin.H{"n": n}, nil
		}, SessionTopic("u1"))
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	name, data := readEvent(t, reader)
	assert.Equal(t, "initial", name)
	assert.JSONEq(t, `{"n":1}`, data)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, ReviewsTopic("p1"), KindCreated, "r1"))

	name, data = readEvent(t, reader)
	assert.Equal(t, "update", name)
	assert.JSONEq(t, `{"n":2}`, data)

	// an opened event on the session topic is not a data change
	require.NoError(t, bus.Publish(ctx, SessionTopic("u1"), KindOpened, "u1"))
	require.NoError(t, bus.Publish(ctx, SessionTopic("u1"), KindClosed, "u1"))

	name, _ = readEvent(t, reader)
	assert.Equal(t, "closed", name)

	done := make(chan struct{})
	go func() {
		_, _ = reader.ReadString(0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after session close")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
