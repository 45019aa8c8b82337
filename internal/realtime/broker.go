// Package realtime carries row-change events from the service layer to
// room subscribers, mirroring a hosted change feed: message events are
// room-scoped at the feed, reaction events are delivered to every subscriber
// and filtered by the bridge after resolving the owning message's room.
package realtime

import "sync"

const (
	TableMessages  = "messages"
	TableReactions = "message_reactions"

	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event describes a single row change.
type Event struct {
	Table     string
	Action    string
	RoomID    int64 // set for message events only
	MessageID int64
}

// subscriber buffer size. Slow consumers lose the oldest events rather than
// blocking publishers.
const subscriberBuffer = 64

type subscriber struct {
	roomID int64
	ch     chan Event
	once   sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Broker fans out events to active subscriptions.
type Broker struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*subscriber]struct{})}
}

func (b *Broker) subscribe(roomID int64) *subscriber {
	s := &subscriber{roomID: roomID, ch: make(chan Event, subscriberBuffer)}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

func (b *Broker) unsubscribe(s *subscriber) {
	b.mu.Lock()
	_, ok := b.subs[s]
	delete(b.subs, s)
	b.mu.Unlock()
	if ok {
		s.close()
	}
}

// Publish delivers an event. Message events reach only subscribers of the
// owning room; reaction events reach everyone, since the feed does not know
// which room a reaction belongs to.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if ev.Table == TableMessages && s.roomID != ev.RoomID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			// Full buffer: drop the oldest event, then retry once.
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- ev:
			default:
			}
		}
	}
}

// Close tears down all subscriptions.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		delete(b.subs, s)
		s.close()
	}
}
