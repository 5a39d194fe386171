package convert

import (
	"github.com/memegrid/memegrid/internal/database/types"
	restTypes "github.com/memegrid/memegrid/internal/rest/types"
)

// Meme converts a database meme to a REST API meme.
func Meme(meme *types.Meme) *restTypes.Meme {
	if meme == nil {
		return nil
	}

	return &restTypes.Meme{
		ID:            meme.ID.String(),
		UserID:        meme.UserID.String(),
		ImageURL:      meme.ImageURL,
		Caption:       meme.Caption,
		LikesCount:    meme.LikesCount,
		CommentsCount: meme.CommentsCount,
		LikedByViewer: meme.LikedByViewer,
		CreatedAt:     meme.CreatedAt,
		Author:        Profile(meme.Author),
	}
}

// Memes converts a slice of database memes.
func Memes(memes []*types.Meme) []*restTypes.Meme {
	result := make([]*restTypes.Meme, len(memes))
	for i, m := range memes {
		result[i] = Meme(m)
	}

	return result
}

// Comment converts a database comment to a REST API comment.
func Comment(comment *types.Comment) *restTypes.Comment {
	if comment == nil {
		return nil
	}

	return &restTypes.Comment{
		ID:        comment.ID.String(),
		MemeID:    comment.MemeID.String(),
		UserID:    comment.UserID.String(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    Profile(comment.Author),
	}
}

// Comments converts a slice of database comments.
func Comments(comments []*types.Comment) []*restTypes.Comment {
	result := make([]*restTypes.Comment, len(comments))
	for i, c := range comments {
		result[i] = Comment(c)
	}

	return result
}
