package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database"
	"github.com/memegrid/memegrid/internal/rest/convert"
	"github.com/memegrid/memegrid/internal/rest/middleware/auth"
	"github.com/memegrid/memegrid/internal/storage"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// MemeHandler handles meme upload, retrieval, and deletion.
type MemeHandler struct {
	db      database.Client
	storage *storage.Client
	logger  *zap.Logger
}

// NewMemeHandler creates a new meme handler.
func NewMemeHandler(db database.Client, storage *storage.Client, logger *zap.Logger) *MemeHandler {
	return &MemeHandler{
		db:      db,
		storage: storage,
		logger:  logger,
	}
}

// CreateMeme uploads a meme image with an optional caption. The request is
// multipart form data with an "image" file part and a "caption" field.
func (h *MemeHandler) CreateMeme(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	// Reject oversized bodies before buffering the image
	req.Body = http.MaxBytesReader(w, req.Body, storage.MaxImageSize+64<<10)

	if err := req.ParseMultipartForm(storage.MaxImageSize); err != nil {
		return writeBadRequest(w, "malformed multipart request")
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		return writeBadRequest(w, "missing image file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return writeBadRequest(w, "failed to read image file")
	}

	contentType := header.Header.Get("Content-Type")

	key, url, err := h.storage.UploadMeme(req.Context(), userID, contentType, data)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	meme, err := h.db.Service().Meme().CreateMeme(req.Context(), userID, url, key, req.FormValue("caption"))
	if err != nil {
		// The row never existed, remove the orphaned blob
		if cleanupErr := h.storage.Delete(req.Context(), key); cleanupErr != nil {
			h.logger.Warn("Failed to clean up orphaned image",
				zap.String("key", key),
				zap.Error(cleanupErr))
		}

		return writeError(w, h.logger, err)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Meme(meme))
}

// GetMeme retrieves a single meme by ID.
func (h *MemeHandler) GetMeme(w http.ResponseWriter, req bunrouter.Request) error {
	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	meme, err := h.db.Model().Meme().GetMeme(req.Context(), memeID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	if viewerID, ok := auth.UserIDFromContext(req.Context()); ok {
		liked, err := h.db.Model().Like().Exists(req.Context(), memeID, viewerID)
		if err != nil {
			return writeError(w, h.logger, err)
		}

		meme.LikedByViewer = liked
	}

	return bunrouter.JSON(w, convert.Meme(meme))
}

// DeleteMeme removes a meme owned by the caller along with its stored image.
func (h *MemeHandler) DeleteMeme(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	memeID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid meme id")
	}

	imageKey, err := h.db.Service().Meme().DeleteMeme(req.Context(), memeID, userID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	// The database row is gone; a leftover blob is only wasted space
	if err := h.storage.Delete(req.Context(), imageKey); err != nil {
		h.logger.Warn("Failed to delete meme image",
			zap.String("key", imageKey),
			zap.Error(err))
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// parseID parses a UUID route parameter.
func parseID(req bunrouter.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(req.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s parameter: %w", name, err)
	}

	return id, nil
}
