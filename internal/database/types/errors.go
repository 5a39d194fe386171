package types

import "errors"

var (
	// ErrProfileNotFound is returned when a profile lookup matches no row.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMemeNotFound is returned when a meme lookup matches no row.
	ErrMemeNotFound = errors.New("meme not found")
	// ErrCommentNotFound is returned when a comment lookup matches no row.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrLikeNotFound is returned when unliking a meme the user never liked.
	ErrLikeNotFound = errors.New("like not found")

	// ErrDuplicateLike is returned when a (meme, user) pair is liked twice.
	ErrDuplicateLike = errors.New("meme already liked")
	// ErrUsernameTaken is returned when a profile update collides with an
	// existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrNotOwner is returned when a user mutates a record they do not own.
	ErrNotOwner = errors.New("record not owned by acting user")

	// ErrEmptyContent is returned for comment text that is empty after
	// trimming.
	ErrEmptyContent = errors.New("content must not be empty")
	// ErrCaptionTooLong is returned for captions over the length limit.
	ErrCaptionTooLong = errors.New("caption exceeds maximum length")
	// ErrEmptyUsername is returned for a blank display name.
	ErrEmptyUsername = errors.New("username must not be empty")
)
