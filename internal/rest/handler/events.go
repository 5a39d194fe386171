package handler

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/memegrid/memegrid/internal/realtime"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// EventsHandler streams like and comment changes for one meme over
// server-sent events.
type EventsHandler struct {
	feed   *realtime.Feed
	logger *zap.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(feed *realtime.Feed, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		feed:   feed,
		logger: logger,
	}
}

// StreamMemeEvents subscribes the caller to one meme's change events and
// streams them until the client disconnects.
func (h *EventsHandler) StreamMemeEvents(w http.ResponseWriter, req bunrouter.Request) error {
	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusNotImplemented)
		return nil
	}

	// The server-wide write timeout would sever the stream; subscriptions
	// live until the client disconnects.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Warn("Failed to clear write deadline for event stream", zap.Error(err))
	}

	sub, err := h.feed.Subscribe(req.Context(), memeID)
	if err != nil {
		return writeError(w, h.logger, err)
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return nil
		case event, ok := <-sub.Events:
			if !ok {
				return nil
			}

			payload, err := sonic.Marshal(event)
			if err != nil {
				h.logger.Warn("Failed to marshal event", zap.Error(err))
				continue
			}

			if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
				return nil
			}

			flusher.Flush()
		}
	}
}
