package handler_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/realtime"
	"github.com/memegrid/memegrid/internal/rest/handler"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

func setupEventsServer(t *testing.T, writeTimeout time.Duration) (*realtime.Feed, *httptest.Server) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	feed := realtime.NewFeed(client, zap.NewNop())

	router := bunrouter.New()
	router.GET("/memes/:id/events", handler.NewEventsHandler(feed, zap.NewNop()).StreamMemeEvents)

	srv := httptest.NewUnstartedServer(router)
	srv.Config.WriteTimeout = writeTimeout
	srv.Start()
	t.Cleanup(srv.Close)

	return feed, srv
}

// The stream must outlive the server's write timeout: the handler clears the
// write deadline so subscriptions end only when the client disconnects.
func TestStreamMemeEventsOutlivesWriteTimeout(t *testing.T) {
	t.Parallel()

	feed, srv := setupEventsServer(t, 200*time.Millisecond)
	memeID := uuid.New()
	userID := uuid.New()

	resp, err := http.Get(srv.URL + "/memes/" + memeID.String() + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Publish well after the write timeout has elapsed.
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, feed.PublishLikeChange(context.Background(), memeID, userID, realtime.OpInsert))

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
				lines <- line
				return
			}
		}
	}()

	select {
	case line := <-lines:
		assert.Contains(t, line, `"insert"`)
		assert.Contains(t, line, memeID.String())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stream data")
	}
}

func TestStreamMemeEventsInvalidID(t *testing.T) {
	t.Parallel()

	_, srv := setupEventsServer(t, 0)

	resp, err := http.Get(srv.URL + "/memes/not-a-uuid/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
