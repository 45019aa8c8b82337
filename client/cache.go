package client

import "sync"

// MessageCache keeps per-room message lists in chronological order. It backs
// optimistic sends (snapshot, rollback) and realtime merges. Safe for
// concurrent use.
type MessageCache struct {
	mu    sync.Mutex
	rooms map[int64][]Message
	stale map[int64]bool
}

func NewMessageCache() *MessageCache {
	return &MessageCache{
		rooms: make(map[int64][]Message),
		stale: make(map[int64]bool),
	}
}

// Get returns the cached list for a room and whether it is fresh. A stale
// list is still returned so callers can render it while refetching.
func (c *MessageCache) Get(roomID int64) ([]Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, ok := c.rooms[roomID]
	if !ok {
		return nil, false
	}
	return copyMessages(msgs), !c.stale[roomID]
}

// Set replaces a room's list with freshly fetched data.
func (c *MessageCache) Set(roomID int64, msgs []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rooms[roomID] = copyMessages(msgs)
	delete(c.stale, roomID)
}

// Snapshot copies the current list for later Restore.
func (c *MessageCache) Snapshot(roomID int64) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMessages(c.rooms[roomID])
}

// Restore puts a snapshot back, discarding everything written since.
func (c *MessageCache) Restore(roomID int64, snapshot []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = copyMessages(snapshot)
}

// Invalidate marks a room's list as stale without dropping it.
func (c *MessageCache) Invalidate(roomID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rooms[roomID]; ok {
		c.stale[roomID] = true
	}
}

// Append adds a message to the end of a room's list.
func (c *MessageCache) Append(roomID int64, msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = append(c.rooms[roomID], msg)
}

// Merge folds a confirmed message into the list. An entry with the same id is
// replaced in place; otherwise a pending entry with the same author and
// content is treated as this message's optimistic twin and replaced; otherwise
// the message is appended.
func (c *MessageCache) Merge(roomID int64, msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := c.rooms[roomID]
	for i := range msgs {
		if msgs[i].ID != 0 && msgs[i].ID == msg.ID {
			msgs[i] = msg
			return
		}
	}
	for i := range msgs {
		if msgs[i].Pending && msgs[i].Content == msg.Content &&
			(msgs[i].UserID == 0 || msgs[i].UserID == msg.UserID) {
			msgs[i] = msg
			return
		}
	}
	c.rooms[roomID] = append(msgs, msg)
}

// ApplyReaction updates the reaction state of the matching cached message.
// Unknown message ids are ignored.
func (c *MessageCache) ApplyReaction(roomID int64, u ReactionUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := c.rooms[roomID]
	for i := range msgs {
		if msgs[i].ID == u.MessageID {
			msgs[i].ReactionCount = u.ReactionCount
			msgs[i].HasUserReacted = u.HasUserReacted
			return
		}
	}
}

func copyMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
