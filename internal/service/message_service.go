package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"superchat/internal/apperror"
	"superchat/internal/domain"
	"superchat/internal/realtime"
)

// MessageService lists and sends messages and toggles reactions.
type MessageService struct {
	rooms     domain.RoomRepository
	messages  domain.MessageRepository
	reactions domain.ReactionRepository
	users     domain.UserRepository
	broker    *realtime.Broker
}

func NewMessageService(
	rooms domain.RoomRepository,
	messages domain.MessageRepository,
	reactions domain.ReactionRepository,
	users domain.UserRepository,
	broker *realtime.Broker,
) *MessageService {
	return &MessageService{
		rooms:     rooms,
		messages:  messages,
		reactions: reactions,
		users:     users,
		broker:    broker,
	}
}

// ParentPreview is the denormalized reply-target preview attached to replies.
type ParentPreview struct {
	ID        int64                `json:"id"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
	User      domain.MessageAuthor `json:"user"`
}

// MessageResponse mirrors the API message shape expected by the frontend.
type MessageResponse struct {
	ID              int64                `json:"id"`
	RoomID          int64                `json:"roomId"`
	UserID          int64                `json:"userId"`
	User            domain.MessageAuthor `json:"user"`
	Content         string               `json:"content"`
	ParentMessageID *int64               `json:"parentMessageId"`
	CreatedAt       time.Time            `json:"createdAt"`
	ReactionCount   int                  `json:"reactionCount"`
	HasUserReacted  bool                 `json:"hasUserReacted"`
	ParentMessage   *ParentPreview       `json:"parentMessage,omitempty"`
}

// NewMessageResponse converts a joined row without reaction enrichment,
// as realtime delivery ships it.
func NewMessageResponse(v *domain.MessageView) *MessageResponse {
	return &MessageResponse{
		ID:              v.ID,
		RoomID:          v.RoomID,
		UserID:          v.UserID,
		User:            v.Author,
		Content:         v.Content,
		ParentMessageID: v.ParentMessageID,
		CreatedAt:       v.CreatedAt,
	}
}

// MessageList is a chronological page of messages.
type MessageList struct {
	Messages []*MessageResponse
	Total    int
	HasMore  bool
}

// ListMessages fetches one row beyond the limit to compute hasMore, trims,
// and reverses the newest-first result into chronological order. Reaction
// count and viewer state are computed per message; the N+1 pattern is
// intentional and matches the query budget of the original design.
func (s *MessageService) ListMessages(ctx context.Context, roomID, viewerID int64, limit int, before int64) (*MessageList, error) {
	if limit <= 0 {
		limit = MessageListDefaultLimit
	}
	if limit > MessageListMaxLimit {
		limit = MessageListMaxLimit
	}

	views, err := s.messages.ListForRoom(ctx, roomID, limit+1, before)
	if err != nil {
		return nil, apperror.MessageFetchFailed(err)
	}

	hasMore := len(views) > limit
	if hasMore {
		views = views[:limit]
	}

	// DB returns DESC; clients want ascending time.
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}

	messages := make([]*MessageResponse, 0, len(views))
	for _, v := range views {
		resp, err := s.enrich(ctx, v, viewerID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, resp)
	}

	return &MessageList{
		Messages: messages,
		Total:    len(messages),
		HasMore:  hasMore,
	}, nil
}

type SendMessageInput struct {
	RoomID          int64
	Content         string
	ParentMessageID *int64
}

// SendMessage validates the room and optional reply target, inserts the
// trimmed content, and publishes the change to room subscribers.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput, senderID int64) (*MessageResponse, error) {
	room, err := s.rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if room == nil {
		return nil, apperror.RoomNotFound()
	}

	if in.ParentMessageID != nil {
		parent, err := s.messages.GetByID(ctx, *in.ParentMessageID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if parent == nil {
			return nil, apperror.ParentMessageNotFound()
		}
		if parent.RoomID != in.RoomID {
			return nil, apperror.InvalidParentMessage()
		}
	}

	content, err := ValidateMessageContent(in.Content)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		RoomID:          in.RoomID,
		UserID:          senderID,
		Content:         content,
		ParentMessageID: in.ParentMessageID,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperror.DBSaveFailed(err)
	}

	s.publish(realtime.Event{
		Table:     realtime.TableMessages,
		Action:    realtime.ActionInsert,
		RoomID:    msg.RoomID,
		MessageID: msg.ID,
	})

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil || sender == nil {
		return nil, apperror.DBSaveFailed(err)
	}

	resp := &MessageResponse{
		ID:              msg.ID,
		RoomID:          msg.RoomID,
		UserID:          senderID,
		User:            domain.MessageAuthor{ID: sender.ID, Nickname: sender.Nickname},
		Content:         msg.Content,
		ParentMessageID: msg.ParentMessageID,
		CreatedAt:       msg.CreatedAt,
	}
	if msg.ParentMessageID != nil {
		resp.ParentMessage, err = s.parentPreview(ctx, *msg.ParentMessageID)
		if err != nil {
			return nil, err
		}
	}

	log.Info().Int64("roomId", msg.RoomID).Int64("messageId", msg.ID).Msg("message sent")
	return resp, nil
}

// ReactionResult is the aggregate state after a toggle.
type ReactionResult struct {
	MessageID    int64  `json:"messageId"`
	ReactionType string `json:"reactionType"`
	TotalCount   int    `json:"totalCount"`
	IsActive     bool   `json:"isActive"`
}

// ToggleReaction flips the (message, user) reaction and returns the updated
// aggregate count. Check, mutate, and count are separate round trips; two
// concurrent toggles by the same user can race.
func (s *MessageService) ToggleReaction(ctx context.Context, messageID, userID int64, reactionType string) (*ReactionResult, error) {
	if reactionType == "" {
		reactionType = domain.DefaultReactionType
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, apperror.ReactionToggleFailed(err)
	}
	if msg == nil {
		return nil, apperror.MessageNotFound()
	}

	exists, err := s.reactions.Exists(ctx, messageID, userID, reactionType)
	if err != nil {
		return nil, apperror.ReactionToggleFailed(err)
	}

	action := realtime.ActionInsert
	isActive := true
	if exists {
		if err := s.reactions.Delete(ctx, messageID, userID, reactionType); err != nil {
			return nil, apperror.ReactionToggleFailed(err)
		}
		action = realtime.ActionDelete
		isActive = false
	} else {
		reaction := &domain.Reaction{
			MessageID:    messageID,
			UserID:       userID,
			ReactionType: reactionType,
		}
		if err := s.reactions.Create(ctx, reaction); err != nil {
			return nil, apperror.ReactionToggleFailed(err)
		}
	}

	total, err := s.reactions.CountForMessage(ctx, messageID)
	if err != nil {
		return nil, apperror.ReactionToggleFailed(err)
	}

	s.publish(realtime.Event{
		Table:     realtime.TableReactions,
		Action:    action,
		MessageID: messageID,
	})

	return &ReactionResult{
		MessageID:    messageID,
		ReactionType: reactionType,
		TotalCount:   total,
		IsActive:     isActive,
	}, nil
}

func (s *MessageService) publish(ev realtime.Event) {
	if s.broker != nil {
		s.broker.Publish(ev)
	}
}

func (s *MessageService) enrich(ctx context.Context, v *domain.MessageView, viewerID int64) (*MessageResponse, error) {
	resp := NewMessageResponse(v)

	count, err := s.reactions.CountForMessage(ctx, v.ID)
	if err != nil {
		return nil, apperror.MessageFetchFailed(err)
	}
	resp.ReactionCount = count

	if viewerID > 0 {
		reacted, err := s.reactions.Exists(ctx, v.ID, viewerID, domain.DefaultReactionType)
		if err != nil {
			return nil, apperror.MessageFetchFailed(err)
		}
		resp.HasUserReacted = reacted
	}

	if v.ParentMessageID != nil {
		resp.ParentMessage, err = s.parentPreview(ctx, *v.ParentMessageID)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *MessageService) parentPreview(ctx context.Context, parentID int64) (*ParentPreview, error) {
	parent, err := s.messages.GetViewByID(ctx, parentID)
	if err != nil {
		return nil, apperror.MessageFetchFailed(err)
	}
	if parent == nil {
		return nil, nil
	}
	return &ParentPreview{
		ID:        parent.ID,
		Content:   parent.Content,
		CreatedAt: parent.CreatedAt,
		User:      parent.Author,
	}, nil
}
