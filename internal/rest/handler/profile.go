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

// ProfileHandler handles profile endpoints and session establishment.
type ProfileHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(db database.Client, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		db:     db,
		logger: logger,
	}
}

// CreateSession ensures a profile row exists for the authenticated identity
// and returns it. Called by clients after sign-in.
func (h *ProfileHandler) CreateSession(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	username := auth.UsernameFromContext(req.Context())

	profile, err := h.db.Service().Profile().EnsureProfile(req.Context(), userID, username)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, restTypes.SessionResponse{
		Profile: convert.Profile(profile),
	})
}

// GetProfile retrieves a profile by ID.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, req bunrouter.Request) error {
	profileID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid profile id")
	}

	profile, err := h.db.Service().Profile().GetProfile(req.Context(), profileID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Profile(profile))
}

// UpdateProfile edits the caller's own profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, req bunrouter.Request) error {
	userID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	profileID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid profile id")
	}

	var body restTypes.UpdateProfileRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return writeBadRequest(w, "malformed request body")
	}

	profile, err := h.db.Service().Profile().UpdateProfile(
		req.Context(), userID, profileID, body.Username, body.Bio, body.AvatarURL,
	)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, convert.Profile(profile))
}

// GetProfileMemes lists a user's uploads, newest first.
func (h *ProfileHandler) GetProfileMemes(w http.ResponseWriter, req bunrouter.Request) error {
	viewerID, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return writeBadRequest(w, "missing identity")
	}

	profileID, err := parseID(req, "id")
	if err != nil {
		return writeBadRequest(w, "invalid profile id")
	}

	memes, err := h.db.Service().Feed().GetUserMemes(req.Context(), profileID, viewerID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return bunrouter.JSON(w, restTypes.UserMemesResponse{
		Memes: convert.Memes(memes),
		Count: len(memes),
	})
}
