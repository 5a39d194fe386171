// Package handler implements the REST API endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/memegrid/memegrid/internal/database/types"
	restTypes "github.com/memegrid/memegrid/internal/rest/types"
	"github.com/memegrid/memegrid/internal/storage"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// writeError maps a service error onto an HTTP status and JSON body.
// Unrecognized errors become opaque 500s so internals never leak.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) error {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, types.ErrProfileNotFound),
		errors.Is(err, types.ErrMemeNotFound),
		errors.Is(err, types.ErrCommentNotFound),
		errors.Is(err, types.ErrLikeNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, types.ErrDuplicateLike),
		errors.Is(err, types.ErrUsernameTaken):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, types.ErrNotOwner):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, types.ErrEmptyContent),
		errors.Is(err, types.ErrCaptionTooLong),
		errors.Is(err, types.ErrEmptyUsername),
		errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrInvalidImageType):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		logger.Error("Request failed", zap.Error(err))
	}

	w.WriteHeader(status)

	return bunrouter.JSON(w, restTypes.ErrorResponse{Error: message})
}

// writeBadRequest rejects a malformed request with a fixed message.
func writeBadRequest(w http.ResponseWriter, message string) error {
	w.WriteHeader(http.StatusBadRequest)

	return bunrouter.JSON(w, restTypes.ErrorResponse{Error: message})
}
