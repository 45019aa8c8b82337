package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"superchat/internal/apperror"
	"superchat/internal/domain"
)

// Mock repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	args := m.Called(ctx, id, nickname)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Create(ctx context.Context, r *domain.ChatRoom) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRoomRepo) GetByID(ctx context.Context, id int64) (*domain.ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatRoom), args.Error(1)
}

func (m *MockRoomRepo) GetByName(ctx context.Context, name string) (*domain.ChatRoom, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatRoom), args.Error(1)
}

func (m *MockRoomRepo) List(ctx context.Context) ([]*domain.ChatRoom, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatRoom), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) GetViewByID(ctx context.Context, id int64) (*domain.MessageView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageView), args.Error(1)
}

func (m *MockMessageRepo) ListForRoom(ctx context.Context, roomID int64, limit int, before int64) ([]*domain.MessageView, error) {
	args := m.Called(ctx, roomID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MessageView), args.Error(1)
}

type MockReactionRepo struct {
	mock.Mock
}

func (m *MockReactionRepo) Exists(ctx context.Context, messageID, userID int64, reactionType string) (bool, error) {
	args := m.Called(ctx, messageID, userID, reactionType)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepo) Create(ctx context.Context, r *domain.Reaction) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReactionRepo) Delete(ctx context.Context, messageID, userID int64, reactionType string) error {
	args := m.Called(ctx, messageID, userID, reactionType)
	return args.Error(0)
}

func (m *MockReactionRepo) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	args := m.Called(ctx, messageID)
	return args.Int(0), args.Error(1)
}

// assertCode checks that err is a tagged error with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.Error
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, code, appErr.Code)
	}
}
