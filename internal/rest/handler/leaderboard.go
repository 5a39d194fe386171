package handler

import (
	"net/http"

	"github.com/memegrid/memegrid/internal/database"
	"github.com/memegrid/memegrid/internal/rest/convert"
	restTypes "github.com/memegrid/memegrid/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// LeaderboardHandler handles the leaderboard endpoint.
type LeaderboardHandler struct {
	db     database.Client
	limit  int
	logger *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(db database.Client, limit int, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		db:     db,
		limit:  limit,
		logger: logger,
	}
}

// GetLeaderboard returns the top profiles by experience. Ranks come from the
// latest snapshot; a stale snapshot is still served.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, req bunrouter.Request) error {
	board, err := h.db.Service().Leaderboard().GetLeaderboard(req.Context(), h.limit)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, restTypes.LeaderboardResponse{
		Profiles:    convert.Profiles(board.Profiles),
		LastRefresh: board.LastRefresh,
	})
}
