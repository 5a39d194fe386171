// Package realtime pushes like and comment changes to subscribers over
// Redis pub/sub.
package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Table names events are published under.
const (
	TableLikes    = "likes"
	TableComments = "comments"
)

// Operations carried by an event.
const (
	OpInsert = "insert"
	OpDelete = "delete"
)

// Event is one change to a meme's likes or comments.
type Event struct {
	Table     string    `json:"table"`
	Op        string    `json:"op"`
	MemeID    uuid.UUID `json:"meme_id"`
	RecordID  uuid.UUID `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed publishes change events and fans them out to per-meme subscribers.
type Feed struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewFeed creates a new realtime feed on the given Redis client.
func NewFeed(client rueidis.Client, logger *zap.Logger) *Feed {
	return &Feed{
		client: client,
		logger: logger.Named("realtime"),
	}
}

// Channel returns the pub/sub channel carrying changes to one meme's rows in
// the given table.
func Channel(table string, memeID uuid.UUID) string {
	return fmt.Sprintf("changes:%s:%s", table, memeID)
}

// Publish sends an event to the channel for its meme and table.
func (f *Feed) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	cmd := f.client.B().Publish().
		Channel(Channel(event.Table, event.MemeID)).
		Message(string(payload)).
		Build()
	if err := f.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// PublishLikeChange implements the engagement service's publisher hook for
// like changes.
func (f *Feed) PublishLikeChange(ctx context.Context, memeID, userID uuid.UUID, op string) error {
	return f.Publish(ctx, Event{
		Table:    TableLikes,
		Op:       op,
		MemeID:   memeID,
		RecordID: userID,
	})
}

// PublishCommentChange implements the engagement service's publisher hook
// for comment changes.
func (f *Feed) PublishCommentChange(ctx context.Context, memeID, commentID uuid.UUID, op string) error {
	return f.Publish(ctx, Event{
		Table:    TableComments,
		Op:       op,
		MemeID:   memeID,
		RecordID: commentID,
	})
}

// Subscription is one live subscription to a meme's change channels.
type Subscription struct {
	Events <-chan Event

	cancel context.CancelFunc
}

// Unsubscribe stops the subscription and releases its channel.
func (s *Subscription) Unsubscribe() {
	s.cancel()
}

// Subscribe delivers change events for one meme until Unsubscribe is called
// or ctx ends. Slow consumers drop events rather than block the feed.
func (f *Feed) Subscribe(ctx context.Context, memeID uuid.UUID) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Event, 64)

	client, cancelClient := f.client.Dedicate()

	wait := client.SetPubSubHooks(rueidis.PubSubHooks{
		OnMessage: func(msg rueidis.PubSubMessage) {
			var event Event
			if err := sonic.Unmarshal([]byte(msg.Message), &event); err != nil {
				f.logger.Warn("Dropped malformed change event",
					zap.String("channel", msg.Channel),
					zap.Error(err))

				return
			}

			select {
			case events <- event:
			default:
				f.logger.Warn("Dropped change event for slow subscriber",
					zap.String("channel", msg.Channel))
			}
		},
	})

	cmd := client.B().Subscribe().
		Channel(Channel(TableLikes, memeID), Channel(TableComments, memeID)).
		Build()
	if err := client.Do(ctx, cmd).Error(); err != nil {
		cancelClient()
		cancel()

		return nil, fmt.Errorf("failed to subscribe to meme channels: %w", err)
	}

	go func() {
		select {
		case <-ctx.Done():
			cancelClient()
			// Hooks can still fire until rueidis closes the wait channel;
			// only then is the events channel safe to close.
			<-wait
		case err := <-wait:
			if err != nil {
				f.logger.Warn("Subscription closed with error",
					zap.String("memeID", memeID.String()),
					zap.Error(err))
			}

			cancelClient()
		}

		close(events)
	}()

	return &Subscription{Events: events, cancel: cancel}, nil
}
