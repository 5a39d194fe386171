// Package types holds the REST API request and response shapes.
package types

import "time"

// Profile represents a user profile in API responses.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	XP        int64     `json:"xp"`
	Level     int       `json:"level"`
	Rank      int       `json:"rank,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Meme represents a meme post in API responses.
type Meme struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ImageURL      string    `json:"imageUrl"`
	Caption       string    `json:"caption,omitempty"`
	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
	LikedByViewer bool      `json:"likedByViewer"`
	CreatedAt     time.Time `json:"createdAt"`
	Author        *Profile  `json:"author,omitempty"`
}

// Comment represents a comment in API responses.
type Comment struct {
	ID        string    `json:"id"`
	MemeID    string    `json:"memeId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *Profile  `json:"author,omitempty"`
}

// FeedResponse is one page of the home feed.
type FeedResponse struct {
	Memes   []*Meme `json:"memes"`
	Page    int     `json:"page"`
	HasMore bool    `json:"hasMore"`
}

// LeaderboardResponse lists the top profiles by experience.
type LeaderboardResponse struct {
	Profiles    []*Profile `json:"profiles"`
	LastRefresh time.Time  `json:"lastRefresh"`
}

// CommentsResponse lists a meme's comments.
type CommentsResponse struct {
	Comments []*Comment `json:"comments"`
}

// UserMemesResponse lists a user's uploads.
type UserMemesResponse struct {
	Memes []*Meme `json:"memes"`
	Count int     `json:"count"`
}

// CreateCommentRequest is the body for posting a comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// UpdateProfileRequest is the body for editing the caller's profile.
type UpdateProfileRequest struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

// SessionResponse is returned after establishing a session.
type SessionResponse struct {
	Profile *Profile `json:"profile"`
}

// ErrorResponse carries a machine-readable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
