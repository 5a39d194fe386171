// Package rest wires the HTTP API together.
package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/memegrid/memegrid/internal/database"
	"github.com/memegrid/memegrid/internal/realtime"
	"github.com/memegrid/memegrid/internal/rest/handler"
	"github.com/memegrid/memegrid/internal/rest/middleware/auth"
	"github.com/memegrid/memegrid/internal/setup/config"
	"github.com/memegrid/memegrid/internal/storage"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the REST API service.
type Server struct {
	feedHandler        *handler.FeedHandler
	memeHandler        *handler.MemeHandler
	engagementHandler  *handler.EngagementHandler
	leaderboardHandler *handler.LeaderboardHandler
	profileHandler     *handler.ProfileHandler
	eventsHandler      *handler.EventsHandler
}

// NewServer creates a new REST API server.
func NewServer(
	db database.Client, storage *storage.Client, feed *realtime.Feed,
	logger *zap.Logger, config *config.APIConfig,
) http.Handler {
	// Create server instance with handlers
	server := &Server{
		feedHandler:        handler.NewFeedHandler(db, logger),
		memeHandler:        handler.NewMemeHandler(db, storage, logger),
		engagementHandler:  handler.NewEngagementHandler(db, logger),
		leaderboardHandler: handler.NewLeaderboardHandler(db, config.LeaderboardSize, logger),
		profileHandler:     handler.NewProfileHandler(db, logger),
		eventsHandler:      handler.NewEventsHandler(feed, logger),
	}

	// Create middleware instances
	authMiddleware := auth.New(config.Auth.TokenSecret, logger)

	// Create base router
	router := bunrouter.New()

	// Every endpoint requires an authenticated identity
	router.Use(authMiddleware.AsRESTMiddleware).WithGroup("/v1", func(g *bunrouter.Group) {
		g.POST("/session", server.profileHandler.CreateSession)

		g.GET("/feed", server.feedHandler.GetFeed)

		g.POST("/memes", server.memeHandler.CreateMeme)
		g.GET("/memes/:id", server.memeHandler.GetMeme)
		g.DELETE("/memes/:id", server.memeHandler.DeleteMeme)
		g.GET("/memes/:id/events", server.eventsHandler.StreamMemeEvents)

		g.PUT("/memes/:id/like", server.engagementHandler.LikeMeme)
		g.DELETE("/memes/:id/like", server.engagementHandler.UnlikeMeme)

		g.GET("/memes/:id/comments", server.engagementHandler.GetComments)
		g.POST("/memes/:id/comments", server.engagementHandler.CreateComment)
		g.GET("/comments/:id", server.engagementHandler.GetComment)
		g.DELETE("/comments/:id", server.engagementHandler.DeleteComment)

		g.GET("/leaderboard", server.leaderboardHandler.GetLeaderboard)

		g.GET("/profiles/:id", server.profileHandler.GetProfile)
		g.PATCH("/profiles/:id", server.profileHandler.UpdateProfile)
		g.GET("/profiles/:id/memes", server.profileHandler.GetProfileMemes)
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router)
}
