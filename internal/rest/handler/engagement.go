package handler

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/memegrid/memegrid/internal/database"
	"github.com/memegrid/memegrid/internal/rest/convert"
	"github.com/memegrid/memegrid/internal/rest/middleware/auth"
	restTypes "github.com/memegrid/memegrid/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// EngagementHandler handles likes and comments.
type EngagementHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewEngagementHandler creates a new engagement handler.
func NewEngagementHandler(db database.Client, logger *zap.Logger) *EngagementHandler {
	return &EngagementHandler{
		db:     db,
		logger: logger,
	}
}

// LikeMeme records a like by the caller on a meme.
func (h *EngagementHandler) LikeMeme(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	if err := h.db.Service().Engagement().LikeMeme(req.Context(), memeID, userID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// UnlikeMeme removes the caller's like from a meme.
func (h *EngagementHandler) UnlikeMeme(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	if err := h.db.Service().Engagement().UnlikeMeme(req.Context(), memeID, userID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// GetComments lists a meme's comments, newest first.
func (h *EngagementHandler) GetComments(w http.ResponseWriter, req bunrouter.Request) error {
	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	comments, err := h.db.Model().Comment().GetForMeme(req.Context(), memeID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, restTypes.CommentsResponse{
		Comments: convert.Comments(comments),
	})
}

// GetComment retrieves a single comment, typically after a change event
// announced its ID.
func (h *EngagementHandler) GetComment(w http.ResponseWriter, req bunrouter.Request) error {
	commentID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid comment id")
	}

	comment, err := h.db.Model().Comment().GetComment(req.Context(), commentID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Comment(comment))
}

// CreateComment posts a comment by the caller on a meme.
func (h *EngagementHandler) CreateComment(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	var body restTypes.CreateCommentRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return writeBadRequest(w, "malformed request body")
	}

	comment, err := h.db.Service().Engagement().AddComment(req.Context(), memeID, userID, body.Content)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Comment(comment))
}

// DeleteComment removes a comment owned by the caller.
func (h *EngagementHandler) DeleteComment(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	commentID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid comment id")
	}

	if err := h.db.Service().Engagement().DeleteComment(req.Context(), commentID, userID); err != nil {
		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
