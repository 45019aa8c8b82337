package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"superchat/internal/domain"
	"superchat/internal/service"
)

func TestUpdateNickname(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewProfileService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Nickname: "old"}, nil)
		mockRepo.On("GetByNickname", mock.Anything, "newname").Return(nil, nil)
		mockRepo.On("UpdateNickname", mock.Anything, int64(7), "newname").Return(nil)

		profile, err := svc.UpdateNickname(context.Background(), 7, "newname")
		assert.NoError(t, err)
		assert.Equal(t, "newname", profile.Nickname)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SameNicknameAsOwn", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewProfileService(mockRepo)

		// The duplicate check excludes the caller's own row.
		mockRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Nickname: "same"}, nil)
		mockRepo.On("GetByNickname", mock.Anything, "same").Return(&domain.User{ID: 7, Nickname: "same"}, nil)
		mockRepo.On("UpdateNickname", mock.Anything, int64(7), "same").Return(nil)

		_, err := svc.UpdateNickname(context.Background(), 7, "same")
		assert.NoError(t, err)
	})

	t.Run("TakenByOther", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewProfileService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Nickname: "old"}, nil)
		mockRepo.On("GetByNickname", mock.Anything, "taken").Return(&domain.User{ID: 8, Nickname: "taken"}, nil)

		_, err := svc.UpdateNickname(context.Background(), 7, "taken")
		assertCode(t, err, "NICKNAME_ALREADY_EXISTS")
	})

	t.Run("BadFormat", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewProfileService(mockRepo)

		_, err := svc.UpdateNickname(context.Background(), 7, "bad name!")
		assertCode(t, err, "INVALID_NICKNAME_FORMAT")
	})
}
