package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"superchat/internal/apperror"
	"superchat/internal/domain"
)

// RoomService creates and fetches chat rooms.
type RoomService struct {
	rooms domain.RoomRepository
}

func NewRoomService(rooms domain.RoomRepository) *RoomService {
	return &RoomService{rooms: rooms}
}

// CreateRoom enforces name uniqueness, then inserts. The check and the
// insert are separate round trips; a lost race surfaces as DB_ERROR from the
// unique constraint.
func (s *RoomService) CreateRoom(ctx context.Context, name string, userID int64) (*domain.ChatRoom, error) {
	existing, err := s.rooms.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.DBError(err)
	}
	if existing != nil {
		log.Warn().Str("name", name).Msg("room creation attempt with duplicate name")
		return nil, apperror.RoomNameDuplicate()
	}

	room := &domain.ChatRoom{
		Name:      name,
		CreatorID: userID,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, apperror.DBError(err)
	}

	log.Info().Str("name", name).Int64("creatorId", userID).Msg("new chat room created")
	return room, nil
}

func (s *RoomService) GetRoomDetail(ctx context.Context, roomID int64) (*domain.ChatRoom, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if room == nil {
		return nil, apperror.RoomNotFound()
	}
	return room, nil
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*domain.ChatRoom, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if rooms == nil {
		rooms = []*domain.ChatRoom{}
	}
	return rooms, nil
}
