package handler

import (
	"net/http"
	"strconv"

	"github.com/memegrid/memegrid/internal/database"
	"github.com/memegrid/memegrid/internal/rest/convert"
	"github.com/memegrid/memegrid/internal/rest/middleware/auth"
	restTypes "github.com/memegrid/memegrid/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// FeedHandler handles the home feed endpoint.
type FeedHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(db database.Client, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		db:     db,
		logger: logger,
	}
}

// GetFeed returns one page of the home feed, newest first. Pages are
// zero-based via the "page" query parameter.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, req bunrouter.Request) error {
	viewerID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	page := 0

	if raw := req.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return writeBadRequest(w, "page must be a non-negative integer")
		}

		page = parsed
	}

	memes, hasMore, err := h.db.Service().Feed().GetFeed(req.Context(), viewerID, page)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, restTypes.FeedResponse{
		Memes:   convert.Memes(memes),
		Page:    page,
		HasMore: hasMore,
	})
}
