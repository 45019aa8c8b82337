package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
)

// Feed binds one room's cached message list to the API. Refresh populates the
// cache; Send is optimistic: the message appears in the cache immediately
// under a local id and is rolled back if the POST fails.
type Feed struct {
	client *Client
	cache  *MessageCache
	roomID int64

	mu            sync.Mutex
	cancelRefresh context.CancelFunc
}

func NewFeed(c *Client, cache *MessageCache, roomID int64) *Feed {
	return &Feed{
		client: c,
		cache:  cache,
		roomID: roomID,
	}
}

// Refresh fetches the latest page and replaces the cached list. A Refresh in
// flight when Send starts is canceled so it cannot overwrite the optimistic
// entry with pre-send data.
func (f *Feed) Refresh(ctx context.Context, limit int) error {
	ctx, cancel := context.WithCancel(ctx)
	f.mu.Lock()
	f.cancelRefresh = cancel
	f.mu.Unlock()
	defer cancel()

	page, err := f.client.ListMessages(ctx, f.roomID, limit, 0)
	if err != nil {
		return err
	}
	f.cache.Set(f.roomID, page.Messages)
	return nil
}

// Send posts a message optimistically. The cache gets a pending entry before
// the request; on failure the pre-send state is restored, on success the list
// is invalidated so the next Refresh (or a realtime merge) supplants the
// pending entry with the confirmed row.
func (f *Feed) Send(ctx context.Context, content string, parentMessageID *int64) (*Message, error) {
	f.mu.Lock()
	if f.cancelRefresh != nil {
		f.cancelRefresh()
		f.cancelRefresh = nil
	}
	f.mu.Unlock()

	snapshot := f.cache.Snapshot(f.roomID)

	pending := Message{
		RoomID:          f.roomID,
		Content:         content,
		ParentMessageID: parentMessageID,
		CreatedAt:       time.Now(),
		LocalID:         xid.New().String(),
		Pending:         true,
	}
	if u := f.client.CurrentUser(); u != nil {
		pending.UserID = u.ID
		pending.User = Author{ID: u.ID, Nickname: u.Nickname}
	}
	f.cache.Append(f.roomID, pending)

	msg, err := f.client.SendMessage(ctx, f.roomID, content, parentMessageID)
	if err != nil {
		f.cache.Restore(f.roomID, snapshot)
		return nil, err
	}

	f.cache.Merge(f.roomID, *msg)
	f.cache.Invalidate(f.roomID)
	return msg, nil
}

// ApplyNew merges a realtime new_message frame into the cache. Frames for
// other rooms are ignored.
func (f *Feed) ApplyNew(msg Message) {
	if msg.RoomID != f.roomID {
		return
	}
	f.cache.Merge(f.roomID, msg)
}

// ApplyReaction merges a realtime reaction_update frame into the cache.
func (f *Feed) ApplyReaction(u ReactionUpdate) {
	f.cache.ApplyReaction(f.roomID, u)
}
