package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superchat/client"
)

func TestFeedSendOptimistic(t *testing.T) {
	t.Run("SuccessSupplantsPendingAndInvalidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusCreated, map[string]any{
				"id": 42, "roomId": 1, "userId": 7, "content": "hello",
			})
		}))
		defer server.Close()

		c := client.New(server.URL)
		cache := client.NewMessageCache()
		cache.Set(1, []client.Message{{ID: 10, Content: "earlier"}})
		feed := client.NewFeed(c, cache, 1)

		msg, err := feed.Send(context.Background(), "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(42), msg.ID)

		msgs, fresh := cache.Get(1)
		assert.False(t, fresh, "list is stale until the next refresh")
		require.Len(t, msgs, 2)
		assert.Equal(t, int64(42), msgs[1].ID)
		assert.False(t, msgs[1].Pending)
		assert.Empty(t, msgs[1].LocalID)
	})

	t.Run("FailureRollsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeFailure(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Chat room not found.")
		}))
		defer server.Close()

		c := client.New(server.URL)
		cache := client.NewMessageCache()
		cache.Set(1, []client.Message{{ID: 10, Content: "earlier"}})
		feed := client.NewFeed(c, cache, 1)

		_, err := feed.Send(context.Background(), "doomed", nil)
		require.Error(t, err)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "ROOM_NOT_FOUND", apiErr.Code)

		msgs, fresh := cache.Get(1)
		assert.True(t, fresh, "rollback restores the pre-send state")
		require.Len(t, msgs, 1)
		assert.Equal(t, int64(10), msgs[0].ID)
	})

	t.Run("PendingEntryCarriesIdentity", func(t *testing.T) {
		var pendingSeen atomic.Bool
		cache := client.NewMessageCache()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/login" {
				writeEnvelope(w, http.StatusOK, map[string]any{
					"token": "tok",
					"user":  map[string]any{"id": 7, "nickname": "alice"},
				})
				return
			}

			// The optimistic entry must be in the cache before the POST lands.
			msgs, _ := cache.Get(1)
			for _, m := range msgs {
				if m.Pending && m.UserID == 7 && m.LocalID != "" {
					pendingSeen.Store(true)
				}
			}
			writeEnvelope(w, http.StatusCreated, map[string]any{
				"id": 42, "roomId": 1, "userId": 7, "content": "hello",
			})
		}))
		defer server.Close()

		c := client.New(server.URL)
		_, err := c.Login(context.Background(), "a@b.com", "password123")
		require.NoError(t, err)

		feed := client.NewFeed(c, cache, 1)
		_, err = feed.Send(context.Background(), "hello", nil)
		require.NoError(t, err)
		assert.True(t, pendingSeen.Load())
	})
}

func TestFeedRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 10, "roomId": 1, "content": "first"},
			},
			"pagination": map[string]any{"total": 1, "hasMore": false},
		})
	}))
	defer server.Close()

	c := client.New(server.URL)
	cache := client.NewMessageCache()
	feed := client.NewFeed(c, cache, 1)

	require.NoError(t, feed.Refresh(context.Background(), 50))

	msgs, fresh := cache.Get(1)
	assert.True(t, fresh)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0].Content)
}

func TestFeedRealtimeApply(t *testing.T) {
	cache := client.NewMessageCache()
	cache.Set(1, []client.Message{{ID: 10, Content: "first"}})
	feed := client.NewFeed(nil, cache, 1)

	feed.ApplyNew(client.Message{ID: 20, RoomID: 1, Content: "second"})
	feed.ApplyNew(client.Message{ID: 30, RoomID: 2, Content: "other room"})
	feed.ApplyReaction(client.ReactionUpdate{MessageID: 10, ReactionCount: 2, HasUserReacted: true})

	msgs, _ := cache.Get(1)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(20), msgs[1].ID)
	assert.Equal(t, 2, msgs[0].ReactionCount)
	assert.True(t, msgs[0].HasUserReacted)
}
