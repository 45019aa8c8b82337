package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrokerRoomScoping(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	sub1 := b.subscribe(1)
	sub2 := b.subscribe(2)

	b.Publish(Event{Table: TableMessages, Action: ActionInsert, RoomID: 1, MessageID: 10})

	assert.Len(t, sub1.ch, 1)
	assert.Len(t, sub2.ch, 0)

	ev := <-sub1.ch
	assert.Equal(t, int64(10), ev.MessageID)
}

func TestBrokerReactionEventsReachAllRooms(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	sub1 := b.subscribe(1)
	sub2 := b.subscribe(2)

	b.Publish(Event{Table: TableReactions, Action: ActionInsert, MessageID: 10})

	assert.Len(t, sub1.ch, 1)
	assert.Len(t, sub2.ch, 1)
}

func TestBrokerDropsOldestWhenFull(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	sub := b.subscribe(1)

	for i := 0; i < subscriberBuffer+1; i++ {
		b.Publish(Event{Table: TableMessages, Action: ActionInsert, RoomID: 1, MessageID: int64(i)})
	}

	assert.Len(t, sub.ch, subscriberBuffer)

	first := <-sub.ch
	assert.Equal(t, int64(1), first.MessageID, "oldest event should have been dropped")
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	sub := b.subscribe(1)
	b.unsubscribe(sub)

	_, ok := <-sub.ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic or deliver.
	b.Publish(Event{Table: TableMessages, Action: ActionInsert, RoomID: 1, MessageID: 10})

	// Double unsubscribe is a no-op.
	b.unsubscribe(sub)
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()

	sub1 := b.subscribe(1)
	sub2 := b.subscribe(2)
	b.Close()

	_, ok := <-sub1.ch
	assert.False(t, ok)
	_, ok = <-sub2.ch
	assert.False(t, ok)
}
