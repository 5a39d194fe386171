// Package view keeps client-facing feed state consistent while mutations are
// in flight. Likes apply optimistically and roll back symmetrically when the
// server rejects them; deletions are confirm-first and never optimistic.
package view

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/database/types"
	"go.uber.org/zap"
)

var (
	ErrMemeNotInView   = errors.New("meme is not in the current view")
	ErrLikeInFlight    = errors.New("a like mutation is already in flight")
	ErrNotConfirmed    = errors.New("deletion requires confirmation first")
	ErrStaleSettlement = errors.New("settlement does not match the pending mutation")
)

// LikeState tracks one meme's like lifecycle for the viewer.
type LikeState int

const (
	// LikeIdle means no like and no pending mutation.
	LikeIdle LikeState = iota
	// LikePending means an optimistic like awaiting server settlement.
	LikePending
	// Liked means the server has confirmed the like.
	Liked
	// UnlikePending means an optimistic unlike awaiting server settlement.
	UnlikePending
)

// Entry is one meme's state within the viewer's feed.
type Entry struct {
	Meme       *types.Meme
	LikeState  LikeState
	generation uint64
}

// Feed is the viewer's window onto the meme feed. All methods are safe for
// concurrent use.
type Feed struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*Entry
	order   []uuid.UUID

	page    int
	hasMore bool

	pendingDelete map[uuid.UUID]struct{}

	logger *zap.Logger
}

// NewFeed creates an empty feed view.
func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{
		entries:       make(map[uuid.UUID]*Entry),
		pendingDelete: make(map[uuid.UUID]struct{}),
		logger:        logger.Named("feed_view"),
	}
}

// Reset replaces the view with the first page of a fresh feed load.
func (f *Feed) Reset(memes []*types.Meme, hasMore bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = make(map[uuid.UUID]*Entry, len(memes))
	f.order = f.order[:0]
	f.pendingDelete = make(map[uuid.UUID]struct{})
	f.page = 0
	f.hasMore = hasMore

	f.appendLocked(memes)
}

// Append adds the next page of memes to the view. Memes already present are
// skipped so overlapping pages cannot duplicate entries.
func (f *Feed) Append(memes []*types.Meme, hasMore bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.page++
	f.hasMore = hasMore

	f.appendLocked(memes)
}

func (f *Feed) appendLocked(memes []*types.Meme) {
	for _, meme := range memes {
		if _, exists := f.entries[meme.ID]; exists {
			continue
		}

		state := LikeIdle
		if meme.LikedByViewer {
			state = Liked
		}

		f.entries[meme.ID] = &Entry{Meme: meme, LikeState: state}
		f.order = append(f.order, meme.ID)
	}
}

// Page returns the last loaded page index.
func (f *Feed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.page
}

// HasMore reports whether another page can be loaded.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hasMore
}

// Memes returns the current view in display order.
func (f *Feed) Memes() []*types.Meme {
	f.mu.Lock()
	defer f.mu.Unlock()

	memes := make([]*types.Meme, 0, len(f.order))
	for _, id := range f.order {
		if entry, ok := f.entries[id]; ok {
			memes = append(memes, entry.Meme)
		}
	}

	return memes
}

// Entry returns one meme's view entry.
func (f *Feed) Entry(memeID uuid.UUID) (*Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[memeID]

	return entry, ok
}

// BeginLike optimistically applies a like or unlike and returns a generation
// token the settlement must present. Only one mutation per meme may be in
// flight.
func (f *Feed) BeginLike(memeID uuid.UUID, like bool) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[memeID]
	if !ok {
		return 0, ErrMemeNotInView
	}

	switch entry.LikeState {
	case LikePending, UnlikePending:
		return 0, ErrLikeInFlight
	case LikeIdle:
		if !like {
			return 0, types.ErrLikeNotFound
		}
	case Liked:
		if like {
			return 0, types.ErrDuplicateLike
		}
	}

	entry.generation++

	if like {
		entry.LikeState = LikePending
		entry.Meme.LikesCount++
		entry.Meme.LikedByViewer = true
	} else {
		entry.LikeState = UnlikePending
		entry.Meme.LikesCount--
		entry.Meme.LikedByViewer = false
	}

	return entry.generation, nil
}

// SettleLike resolves a pending like or unlike. On success the optimistic
// state becomes confirmed; on failure it rolls back to exactly the state
// before BeginLike. Settlements carrying a stale generation are discarded.
func (f *Feed) SettleLike(memeID uuid.UUID, generation uint64, succeeded bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[memeID]
	if !ok {
		return ErrMemeNotInView
	}

	if entry.generation != generation {
		return ErrStaleSettlement
	}

	switch entry.LikeState {
	case LikePending:
		if succeeded {
			entry.LikeState = Liked
		} else {
			entry.LikeState = LikeIdle
			entry.Meme.LikesCount--
			entry.Meme.LikedByViewer = false
		}
	case UnlikePending:
		if succeeded {
			entry.LikeState = LikeIdle
		} else {
			entry.LikeState = Liked
			entry.Meme.LikesCount++
			entry.Meme.LikedByViewer = true
		}
	case LikeIdle, Liked:
		return ErrStaleSettlement
	}

	return nil
}

// RequestDelete marks a meme for deletion pending confirmation. The entry
// stays fully visible until ConfirmDelete.
func (f *Feed) RequestDelete(memeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[memeID]; !ok {
		return ErrMemeNotInView
	}

	f.pendingDelete[memeID] = struct{}{}

	return nil
}

// CancelDelete withdraws a pending deletion request.
func (f *Feed) CancelDelete(memeID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.pendingDelete, memeID)
}

// ConfirmDelete removes a meme from the view after the server deletion
// succeeded. The meme must have been through RequestDelete first.
func (f *Feed) ConfirmDelete(memeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[memeID]; !ok {
		return ErrMemeNotInView
	}

	if _, ok := f.pendingDelete[memeID]; !ok {
		return ErrNotConfirmed
	}

	delete(f.pendingDelete, memeID)
	delete(f.entries, memeID)

	for i, id := range f.order {
		if id == memeID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}

	return nil
}

// ApplyCommentDelta adjusts a meme's comment counter from a confirmed change
// event. Counters never go below zero.
func (f *Feed) ApplyCommentDelta(memeID uuid.UUID, delta int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[memeID]
	if !ok {
		f.logger.Debug("Ignored comment delta for meme outside the view",
			zap.String("memeID", memeID.String()))

		return
	}

	entry.Meme.CommentsCount += delta
	if entry.Meme.CommentsCount < 0 {
		entry.Meme.CommentsCount = 0
	}
}
