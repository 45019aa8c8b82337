package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"superchat/internal/apperror"
	"superchat/internal/domain"
)

// ProfileService updates user profile fields. Only the nickname is mutable.
type ProfileService struct {
	users domain.UserRepository
}

func NewProfileService(users domain.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// UpdateNickname validates the format, checks uniqueness excluding the caller,
// and persists the change.
func (s *ProfileService) UpdateNickname(ctx context.Context, userID int64, nickname string) (*PublicUser, error) {
	if err := ValidateNickname(nickname); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NicknameUpdateFailed(err)
	}
	if user == nil {
		return nil, apperror.UserNotFound()
	}

	duplicate, err := s.users.GetByNickname(ctx, nickname)
	if err != nil {
		return nil, apperror.NicknameUpdateFailed(err)
	}
	if duplicate != nil && duplicate.ID != userID {
		log.Info().Str("nickname", nickname).Msg("nickname already exists")
		return nil, apperror.NicknameAlreadyExists()
	}

	if err := s.users.UpdateNickname(ctx, userID, nickname); err != nil {
		return nil, apperror.NicknameUpdateFailed(err)
	}

	user.Nickname = nickname
	u := publicUser(user)
	return &u, nil
}
