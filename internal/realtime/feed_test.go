package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/realtime"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*realtime.Feed, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	// Create test logger
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	feed := realtime.NewFeed(client, logger)

	cleanup := func() {
		mr.Close()
		client.Close()
		logger.Sync()
	}

	return feed, cleanup
}

func waitForEvent(t *testing.T, events <-chan realtime.Event) realtime.Event {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return realtime.Event{}
	}
}

func TestChannel(t *testing.T) {
	t.Parallel()

	memeID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	assert.Equal(t,
		"changes:comments:11111111-2222-3333-4444-555555555555",
		realtime.Channel(realtime.TableComments, memeID))
	assert.Equal(t,
		"changes:likes:11111111-2222-3333-4444-555555555555",
		realtime.Channel(realtime.TableLikes, memeID))
}

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()

	feed, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	memeID := uuid.New()
	commentID := uuid.New()

	sub, err := feed.Subscribe(ctx, memeID)
	require.NoError(t, err)

	defer sub.Unsubscribe()

	err = feed.PublishCommentChange(ctx, memeID, commentID, realtime.OpInsert)
	require.NoError(t, err)

	event := waitForEvent(t, sub.Events)
	assert.Equal(t, realtime.TableComments, event.Table)
	assert.Equal(t, realtime.OpInsert, event.Op)
	assert.Equal(t, memeID, event.MemeID)
	assert.Equal(t, commentID, event.RecordID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestSubscribeReceivesLikes(t *testing.T) {
	t.Parallel()

	feed, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	memeID := uuid.New()
	userID := uuid.New()

	sub, err := feed.Subscribe(ctx, memeID)
	require.NoError(t, err)

	defer sub.Unsubscribe()

	require.NoError(t, feed.PublishLikeChange(ctx, memeID, userID, realtime.OpInsert))
	require.NoError(t, feed.PublishLikeChange(ctx, memeID, userID, realtime.OpDelete))

	first := waitForEvent(t, sub.Events)
	assert.Equal(t, realtime.TableLikes, first.Table)
	assert.Equal(t, realtime.OpInsert, first.Op)

	second := waitForEvent(t, sub.Events)
	assert.Equal(t, realtime.OpDelete, second.Op)
	assert.Equal(t, userID, second.RecordID)
}

func TestSubscribeIgnoresOtherMemes(t *testing.T) {
	t.Parallel()

	feed, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()
	memeID := uuid.New()
	otherMemeID := uuid.New()

	sub, err := feed.Subscribe(ctx, memeID)
	require.NoError(t, err)

	defer sub.Unsubscribe()

	require.NoError(t, feed.PublishCommentChange(ctx, otherMemeID, uuid.New(), realtime.OpInsert))
	require.NoError(t, feed.PublishCommentChange(ctx, memeID, uuid.New(), realtime.OpInsert))

	event := waitForEvent(t, sub.Events)
	assert.Equal(t, memeID, event.MemeID)

	select {
	case extra := <-sub.Events:
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnsubscribeClosesEvents(t *testing.T) {
	t.Parallel()

	feed, cleanup := setupTest(t)
	defer cleanup()

	ctx := context.Background()

	// Tearing down mid-publish must close the channel cleanly rather than
	// race a delivery against the close.
	for i := 0; i < 10; i++ {
		memeID := uuid.New()

		sub, err := feed.Subscribe(ctx, memeID)
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)

			for j := 0; j < 20; j++ {
				_ = feed.PublishLikeChange(ctx, memeID, uuid.New(), realtime.OpInsert)
			}
		}()

		sub.Unsubscribe()

		deadline := time.After(5 * time.Second)

		for open := true; open; {
			select {
			case _, ok := <-sub.Events:
				open = ok
			case <-deadline:
				t.Fatal("events channel never closed after unsubscribe")
			}
		}

		<-done
	}
}
