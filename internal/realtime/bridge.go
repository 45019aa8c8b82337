package realtime

import (
	"context"

	"github.com/rs/zerolog/log"

	"superchat/internal/domain"
)

// ReactionUpdate is the aggregate state pushed to a room viewer after any
// reaction change on one of the room's messages.
type ReactionUpdate struct {
	MessageID      int64 `json:"messageId"`
	ReactionCount  int   `json:"reactionCount"`
	HasUserReacted bool  `json:"hasUserReacted"`
}

// Handlers are the caller-supplied callbacks for a room subscription.
// Nil handlers are skipped.
type Handlers struct {
	OnNewMessage     func(*domain.MessageView)
	OnUpdateMessage  func(*domain.MessageView)
	OnReactionUpdate func(ReactionUpdate)
}

// Bridge turns raw change events into fully-shaped callbacks by re-fetching
// the affected rows.
type Bridge struct {
	broker    *Broker
	messages  domain.MessageRepository
	reactions domain.ReactionRepository
}

func NewBridge(broker *Broker, messages domain.MessageRepository, reactions domain.ReactionRepository) *Bridge {
	return &Bridge{broker: broker, messages: messages, reactions: reactions}
}

// Subscribe starts a room subscription for the given viewer and returns an
// unsubscribe func. viewerID may be zero for anonymous viewers, in which case
// HasUserReacted is always false. Delivery stops when unsubscribe is called
// or ctx is done.
func (b *Bridge) Subscribe(ctx context.Context, roomID, viewerID int64, h Handlers) func() {
	sub := b.broker.subscribe(roomID)

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.broker.unsubscribe(sub)
				return
			case ev, ok := <-sub.ch:
				if !ok {
					return
				}
				b.dispatch(ctx, roomID, viewerID, h, ev)
			}
		}
	}()

	return func() { b.broker.unsubscribe(sub) }
}

func (b *Bridge) dispatch(ctx context.Context, roomID, viewerID int64, h Handlers, ev Event) {
	switch ev.Table {
	case TableMessages:
		b.dispatchMessage(ctx, h, ev)
	case TableReactions:
		b.dispatchReaction(ctx, roomID, viewerID, h, ev)
	}
}

func (b *Bridge) dispatchMessage(ctx context.Context, h Handlers, ev Event) {
	view, err := b.messages.GetViewByID(ctx, ev.MessageID)
	if err != nil {
		log.Warn().Err(err).Int64("messageId", ev.MessageID).Msg("realtime: re-fetch message failed")
		return
	}
	if view == nil {
		return
	}
	switch ev.Action {
	case ActionInsert:
		if h.OnNewMessage != nil {
			h.OnNewMessage(view)
		}
	case ActionUpdate:
		// Nothing produces update events today; handled anyway.
		if h.OnUpdateMessage != nil {
			h.OnUpdateMessage(view)
		}
	}
}

func (b *Bridge) dispatchReaction(ctx context.Context, roomID, viewerID int64, h Handlers, ev Event) {
	if h.OnReactionUpdate == nil {
		return
	}

	// Reaction events are not room-scoped at the feed; resolve the owning
	// message's room and discard mismatches.
	msg, err := b.messages.GetByID(ctx, ev.MessageID)
	if err != nil {
		log.Warn().Err(err).Int64("messageId", ev.MessageID).Msg("realtime: resolve reaction room failed")
		return
	}
	if msg == nil || msg.RoomID != roomID {
		return
	}

	count, err := b.reactions.CountForMessage(ctx, ev.MessageID)
	if err != nil {
		log.Warn().Err(err).Int64("messageId", ev.MessageID).Msg("realtime: count reactions failed")
		return
	}

	hasReacted := false
	if viewerID > 0 {
		hasReacted, err = b.reactions.Exists(ctx, ev.MessageID, viewerID, domain.DefaultReactionType)
		if err != nil {
			log.Warn().Err(err).Int64("messageId", ev.MessageID).Msg("realtime: viewer reaction lookup failed")
			return
		}
	}

	h.OnReactionUpdate(ReactionUpdate{
		MessageID:      ev.MessageID,
		ReactionCount:  count,
		HasUserReacted: hasReacted,
	})
}
