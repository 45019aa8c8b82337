package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"superchat/internal/domain"
	"superchat/internal/service"
)

type messageFixture struct {
	rooms     *MockRoomRepo
	messages  *MockMessageRepo
	reactions *MockReactionRepo
	users     *MockUserRepo
	svc       *service.MessageService
}

func newMessageFixture() *messageFixture {
	f := &messageFixture{
		rooms:     new(MockRoomRepo),
		messages:  new(MockMessageRepo),
		reactions: new(MockReactionRepo),
		users:     new(MockUserRepo),
	}
	f.svc = service.NewMessageService(f.rooms, f.messages, f.reactions, f.users, nil)
	return f
}

func view(id, roomID, userID int64, content string) *domain.MessageView {
	return &domain.MessageView{
		Message: domain.Message{
			ID:        id,
			RoomID:    roomID,
			UserID:    userID,
			Content:   content,
			CreatedAt: time.Now(),
		},
		Author: domain.MessageAuthor{ID: userID, Nickname: "user"},
	}
}

func TestSendMessage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newMessageFixture()

		f.rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.ChatRoom{ID: 1, Name: "general"}, nil)
		f.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			return m.RoomID == 1 && m.UserID == 7 && m.Content == "hello"
		})).Run(func(args mock.Arguments) {
			m := args.Get(1).(*domain.Message)
			m.ID = 10
			m.CreatedAt = time.Now()
		}).Return(nil)
		f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Nickname: "sender"}, nil)

		msg, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:  1,
			Content: "  hello  ",
		}, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(10), msg.ID)
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, "sender", msg.User.Nickname)
		assert.Nil(t, msg.ParentMessage)
	})

	t.Run("RoomNotFound", func(t *testing.T) {
		f := newMessageFixture()

		f.rooms.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		_, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:  99,
			Content: "hello",
		}, 7)
		assertCode(t, err, "ROOM_NOT_FOUND")
	})

	t.Run("ReplyWithPreview", func(t *testing.T) {
		f := newMessageFixture()
		parentID := int64(5)

		f.rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.ChatRoom{ID: 1}, nil)
		f.messages.On("GetByID", mock.Anything, parentID).Return(&domain.Message{ID: 5, RoomID: 1, Content: "parent"}, nil)
		f.messages.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Message).ID = 11
		}).Return(nil)
		f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Nickname: "sender"}, nil)
		f.messages.On("GetViewByID", mock.Anything, parentID).Return(view(5, 1, 3, "parent"), nil)

		msg, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:          1,
			Content:         "reply",
			ParentMessageID: &parentID,
		}, 7)
		assert.NoError(t, err)
		assert.NotNil(t, msg.ParentMessage)
		assert.Equal(t, "parent", msg.ParentMessage.Content)
	})

	t.Run("ParentMissing", func(t *testing.T) {
		f := newMessageFixture()
		parentID := int64(404)

		f.rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.ChatRoom{ID: 1}, nil)
		f.messages.On("GetByID", mock.Anything, parentID).Return(nil, nil)

		_, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:          1,
			Content:         "reply",
			ParentMessageID: &parentID,
		}, 7)
		assertCode(t, err, "PARENT_MESSAGE_NOT_FOUND")
	})

	t.Run("ParentInDifferentRoom", func(t *testing.T) {
		f := newMessageFixture()
		parentID := int64(5)

		f.rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.ChatRoom{ID: 1}, nil)
		f.messages.On("GetByID", mock.Anything, parentID).Return(&domain.Message{ID: 5, RoomID: 2}, nil)

		_, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:          1,
			Content:         "reply",
			ParentMessageID: &parentID,
		}, 7)
		assertCode(t, err, "INVALID_PARENT_MESSAGE")
	})

	t.Run("EmptyContent", func(t *testing.T) {
		f := newMessageFixture()

		f.rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.ChatRoom{ID: 1}, nil)

		_, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:  1,
			Content: "   ",
		}, 7)
		assertCode(t, err, "MESSAGE_EMPTY")
	})

	t.Run("TooLong", func(t *testing.T) {
		f := newMessageFixture()

		f.rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.ChatRoom{ID: 1}, nil)

		long := make([]rune, service.MessageContentMaxLength+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := f.svc.SendMessage(context.Background(), service.SendMessageInput{
			RoomID:  1,
			Content: string(long),
		}, 7)
		assertCode(t, err, "MESSAGE_TOO_LONG")
	})
}

func TestListMessages(t *testing.T) {
	t.Run("ChronologicalWithHasMore", func(t *testing.T) {
		f := newMessageFixture()

		// Newest-first from the store, one beyond the limit.
		f.messages.On("ListForRoom", mock.Anything, int64(1), 3, int64(0)).Return([]*domain.MessageView{
			view(30, 1, 7, "third"),
			view(20, 1, 7, "second"),
			view(10, 1, 7, "first"),
		}, nil)
		f.reactions.On("CountForMessage", mock.Anything, mock.Anything).Return(0, nil)
		f.reactions.On("Exists", mock.Anything, mock.Anything, int64(7), domain.DefaultReactionType).Return(false, nil)

		list, err := f.svc.ListMessages(context.Background(), 1, 7, 2, 0)
		assert.NoError(t, err)
		assert.True(t, list.HasMore)
		assert.Len(t, list.Messages, 2)
		assert.Equal(t, int64(20), list.Messages[0].ID)
		assert.Equal(t, int64(30), list.Messages[1].ID)
	})

	t.Run("ViewerReactionState", func(t *testing.T) {
		f := newMessageFixture()

		f.messages.On("ListForRoom", mock.Anything, int64(1), service.MessageListDefaultLimit+1, int64(0)).
			Return([]*domain.MessageView{view(10, 1, 3, "hi")}, nil)
		f.reactions.On("CountForMessage", mock.Anything, int64(10)).Return(2, nil)
		f.reactions.On("Exists", mock.Anything, int64(10), int64(7), domain.DefaultReactionType).Return(true, nil)

		list, err := f.svc.ListMessages(context.Background(), 1, 7, 0, 0)
		assert.NoError(t, err)
		assert.False(t, list.HasMore)
		assert.Equal(t, 2, list.Messages[0].ReactionCount)
		assert.True(t, list.Messages[0].HasUserReacted)
	})
}

func TestToggleReaction(t *testing.T) {
	t.Run("On", func(t *testing.T) {
		f := newMessageFixture()

		f.messages.On("GetByID", mock.Anything, int64(10)).Return(&domain.Message{ID: 10, RoomID: 1}, nil)
		f.reactions.On("Exists", mock.Anything, int64(10), int64(7), "like").Return(false, nil)
		f.reactions.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Reaction) bool {
			return r.MessageID == 10 && r.UserID == 7 && r.ReactionType == "like"
		})).Return(nil)
		f.reactions.On("CountForMessage", mock.Anything, int64(10)).Return(1, nil)

		result, err := f.svc.ToggleReaction(context.Background(), 10, 7, "")
		assert.NoError(t, err)
		assert.True(t, result.IsActive)
		assert.Equal(t, 1, result.TotalCount)
		assert.Equal(t, "like", result.ReactionType)
	})

	t.Run("Off", func(t *testing.T) {
		f := newMessageFixture()

		f.messages.On("GetByID", mock.Anything, int64(10)).Return(&domain.Message{ID: 10, RoomID: 1}, nil)
		f.reactions.On("Exists", mock.Anything, int64(10), int64(7), "like").Return(true, nil)
		f.reactions.On("Delete", mock.Anything, int64(10), int64(7), "like").Return(nil)
		f.reactions.On("CountForMessage", mock.Anything, int64(10)).Return(0, nil)

		result, err := f.svc.ToggleReaction(context.Background(), 10, 7, "like")
		assert.NoError(t, err)
		assert.False(t, result.IsActive)
		assert.Equal(t, 0, result.TotalCount)
	})

	t.Run("MessageNotFound", func(t *testing.T) {
		f := newMessageFixture()

		f.messages.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

		_, err := f.svc.ToggleReaction(context.Background(), 404, 7, "like")
		assertCode(t, err, "MESSAGE_NOT_FOUND")
	})
}
