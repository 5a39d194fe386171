package view_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/types"
	"github.com/memegrid/memegrid/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMeme(likes int64, liked bool) *types.Meme {
	return &types.Meme{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ImageURL:      "https://example.com/meme.png",
		LikesCount:    likes,
		LikedByViewer: liked,
		CreatedAt:     time.Now(),
	}
}

func newFeed(memes ...*types.Meme) *view.Feed {
	feed := view.NewFeed(zap.NewNop())
	feed.Reset(memes, false)

	return feed
}

func TestResetAndAppend(t *testing.T) {
	t.Parallel()

	first := newMeme(1, false)
	second := newMeme(2, true)

	feed := newFeed(first)
	assert.Len(t, feed.Memes(), 1)
	assert.Equal(t, 0, feed.Page())
	assert.False(t, feed.HasMore())

	feed.Append([]*types.Meme{second, first}, true)

	// Overlapping pages must not duplicate entries
	memes := feed.Memes()
	require.Len(t, memes, 2)
	assert.Equal(t, first.ID, memes[0].ID)
	assert.Equal(t, second.ID, memes[1].ID)
	assert.Equal(t, 1, feed.Page())
	assert.True(t, feed.HasMore())
}

func TestLikeStateFromServer(t *testing.T) {
	t.Parallel()

	liked := newMeme(5, true)
	notLiked := newMeme(0, false)
	feed := newFeed(liked, notLiked)

	entry, ok := feed.Entry(liked.ID)
	require.True(t, ok)
	assert.Equal(t, view.Liked, entry.LikeState)

	entry, ok = feed.Entry(notLiked.ID)
	require.True(t, ok)
	assert.Equal(t, view.LikeIdle, entry.LikeState)
}

func TestOptimisticLikeSuccess(t *testing.T) {
	t.Parallel()

	meme := newMeme(3, false)
	feed := newFeed(meme)

	gen, err := feed.BeginLike(meme.ID, true)
	require.NoError(t, err)

	// Optimistic state is visible immediately
	entry, _ := feed.Entry(meme.ID)
	assert.Equal(t, view.LikePending, entry.LikeState)
	assert.Equal(t, int64(4), entry.Meme.LikesCount)
	assert.True(t, entry.Meme.LikedByViewer)

	require.NoError(t, feed.SettleLike(meme.ID, gen, true))

	entry, _ = feed.Entry(meme.ID)
	assert.Equal(t, view.Liked, entry.LikeState)
	assert.Equal(t, int64(4), entry.Meme.LikesCount)
}

func TestOptimisticLikeRollback(t *testing.T) {
	t.Parallel()

	meme := newMeme(3, false)
	feed := newFeed(meme)

	gen, err := feed.BeginLike(meme.ID, true)
	require.NoError(t, err)

	require.NoError(t, feed.SettleLike(meme.ID, gen, false))

	// Failure restores exactly the pre-mutation state
	entry, _ := feed.Entry(meme.ID)
	assert.Equal(t, view.LikeIdle, entry.LikeState)
	assert.Equal(t, int64(3), entry.Meme.LikesCount)
	assert.False(t, entry.Meme.LikedByViewer)
}

func TestOptimisticUnlikeRollback(t *testing.T) {
	t.Parallel()

	meme := newMeme(3, true)
	feed := newFeed(meme)

	gen, err := feed.BeginLike(meme.ID, false)
	require.NoError(t, err)

	entry, _ := feed.Entry(meme.ID)
	assert.Equal(t, int64(2), entry.Meme.LikesCount)

	require.NoError(t, feed.SettleLike(meme.ID, gen, false))

	entry, _ = feed.Entry(meme.ID)
	assert.Equal(t, view.Liked, entry.LikeState)
	assert.Equal(t, int64(3), entry.Meme.LikesCount)
	assert.True(t, entry.Meme.LikedByViewer)
}

func TestDoubleLikeRejected(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, true)
	feed := newFeed(meme)

	_, err := feed.BeginLike(meme.ID, true)
	assert.ErrorIs(t, err, types.ErrDuplicateLike)
}

func TestUnlikeWithoutLikeRejected(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, false)
	feed := newFeed(meme)

	_, err := feed.BeginLike(meme.ID, false)
	assert.ErrorIs(t, err, types.ErrLikeNotFound)
}

func TestConcurrentMutationRejected(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, false)
	feed := newFeed(meme)

	_, err := feed.BeginLike(meme.ID, true)
	require.NoError(t, err)

	_, err = feed.BeginLike(meme.ID, true)
	assert.ErrorIs(t, err, view.ErrLikeInFlight)
}

func TestStaleSettlementDiscarded(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, false)
	feed := newFeed(meme)

	gen, err := feed.BeginLike(meme.ID, true)
	require.NoError(t, err)

	assert.ErrorIs(t, feed.SettleLike(meme.ID, gen+1, true), view.ErrStaleSettlement)

	// The real settlement still lands
	require.NoError(t, feed.SettleLike(meme.ID, gen, true))

	assert.ErrorIs(t, feed.SettleLike(meme.ID, gen, true), view.ErrStaleSettlement)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, false)
	feed := newFeed(meme)

	// Deleting without a confirmation request is refused
	assert.ErrorIs(t, feed.ConfirmDelete(meme.ID), view.ErrNotConfirmed)

	require.NoError(t, feed.RequestDelete(meme.ID))

	// The entry stays visible until confirmed
	assert.Len(t, feed.Memes(), 1)

	require.NoError(t, feed.ConfirmDelete(meme.ID))
	assert.Empty(t, feed.Memes())
}

func TestCancelDelete(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, false)
	feed := newFeed(meme)

	require.NoError(t, feed.RequestDelete(meme.ID))
	feed.CancelDelete(meme.ID)

	assert.ErrorIs(t, feed.ConfirmDelete(meme.ID), view.ErrNotConfirmed)
	assert.Len(t, feed.Memes(), 1)
}

func TestApplyCommentDelta(t *testing.T) {
	t.Parallel()

	meme := newMeme(0, false)
	feed := newFeed(meme)

	feed.ApplyCommentDelta(meme.ID, 1)
	feed.ApplyCommentDelta(meme.ID, 1)

	entry, _ := feed.Entry(meme.ID)
	assert.Equal(t, int64(2), entry.Meme.CommentsCount)

	feed.ApplyCommentDelta(meme.ID, -3)

	entry, _ = feed.Entry(meme.ID)
	assert.Equal(t, int64(0), entry.Meme.CommentsCount)
}

func TestUnknownMeme(t *testing.T) {
	t.Parallel()

	feed := newFeed()

	_, err := feed.BeginLike(uuid.New(), true)
	assert.ErrorIs(t, err, view.ErrMemeNotInView)

	assert.ErrorIs(t, feed.RequestDelete(uuid.New()), view.ErrMemeNotInView)
}
