package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superchat/internal/domain"
	"superchat/internal/store/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	// The in-memory database is per connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *sql.DB, nickname, email string) *domain.User {
	t.Helper()
	repo := sqlite.NewUserRepo(db)
	u := &domain.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: "hash",
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedRoom(t *testing.T, db *sql.DB, name string, creatorID int64) *domain.ChatRoom {
	t.Helper()
	repo := sqlite.NewRoomRepo(db)
	r := &domain.ChatRoom{Name: name, CreatorID: creatorID}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestUserRepo(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepo(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", "alice@example.com")
	assert.NotZero(t, user.ID)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Nickname)

	got, err = repo.GetByNickname(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.UpdateNickname(ctx, user.ID, "alice2"))
	require.NoError(t, repo.UpdateStatus(ctx, user.ID, domain.UserStatusInactive))

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Nickname)
	assert.Equal(t, domain.UserStatusInactive, got.Status)

	// Unique constraints hold even though the service checks first.
	err = repo.Create(ctx, &domain.User{
		Email: "alice@example.com", Nickname: "other", PasswordHash: "hash", Status: domain.UserStatusPending,
	})
	assert.Error(t, err)
}

func TestRoomRepo(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewRoomRepo(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", "alice@example.com")
	room := seedRoom(t, db, "general", user.ID)
	assert.NotZero(t, room.ID)
	assert.False(t, room.CreatedAt.IsZero())

	got, err := repo.GetByName(ctx, "general")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, room.ID, got.ID)

	got, err = repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)

	seedRoom(t, db, "random", user.ID)
	rooms, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	err = repo.Create(ctx, &domain.ChatRoom{Name: "general", CreatorID: user.ID})
	assert.Error(t, err, "room names are unique")
}

func TestMessageRepo(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewMessageRepo(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", "alice@example.com")
	room := seedRoom(t, db, "general", user.ID)

	var ids []int64
	for _, content := range []string{"first", "second", "third"} {
		m := &domain.Message{RoomID: room.ID, UserID: user.ID, Content: content}
		require.NoError(t, repo.Create(ctx, m))
		ids = append(ids, m.ID)
	}

	t.Run("GetViewByID", func(t *testing.T) {
		v, err := repo.GetViewByID(ctx, ids[0])
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "first", v.Content)
		assert.Equal(t, "alice", v.Author.Nickname)
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		views, err := repo.ListForRoom(ctx, room.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "third", views[0].Content)
		assert.Equal(t, "first", views[2].Content)
	})

	t.Run("BeforeCursor", func(t *testing.T) {
		views, err := repo.ListForRoom(ctx, room.ID, 10, ids[2])
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "second", views[0].Content)
	})

	t.Run("Limit", func(t *testing.T) {
		views, err := repo.ListForRoom(ctx, room.ID, 2, 0)
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})

	t.Run("ReplyKeepsParentID", func(t *testing.T) {
		reply := &domain.Message{RoomID: room.ID, UserID: user.ID, Content: "a reply", ParentMessageID: &ids[0]}
		require.NoError(t, repo.Create(ctx, reply))

		got, err := repo.GetByID(ctx, reply.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ParentMessageID)
		assert.Equal(t, ids[0], *got.ParentMessageID)
	})
}

func TestReactionRepo(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewReactionRepo(db)
	msgRepo := sqlite.NewMessageRepo(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", "alice@example.com")
	other := seedUser(t, db, "bob", "bob@example.com")
	room := seedRoom(t, db, "general", user.ID)

	msg := &domain.Message{RoomID: room.ID, UserID: user.ID, Content: "hello"}
	require.NoError(t, msgRepo.Create(ctx, msg))

	exists, err := repo.Exists(ctx, msg.ID, user.ID, "like")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &domain.Reaction{MessageID: msg.ID, UserID: user.ID, ReactionType: "like"}))
	require.NoError(t, repo.Create(ctx, &domain.Reaction{MessageID: msg.ID, UserID: other.ID, ReactionType: "like"}))

	exists, err = repo.Exists(ctx, msg.ID, user.ID, "like")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.CountForMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.Delete(ctx, msg.ID, user.ID, "like"))
	count, err = repo.CountForMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
