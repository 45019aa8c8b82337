package domain

import "context"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByNickname(ctx context.Context, nickname string) (*User, error)
	UpdateNickname(ctx context.Context, id int64, nickname string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// RoomRepository defines persistence operations for chat rooms.
type RoomRepository interface {
	Create(ctx context.Context, r *ChatRoom) error
	GetByID(ctx context.Context, id int64) (*ChatRoom, error)
	GetByName(ctx context.Context, name string) (*ChatRoom, error)
	List(ctx context.Context) ([]*ChatRoom, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	// GetViewByID returns the message joined with its author.
	GetViewByID(ctx context.Context, id int64) (*MessageView, error)
	// ListForRoom returns up to limit messages in newest-first order,
	// optionally restricted to id < before.
	ListForRoom(ctx context.Context, roomID int64, limit int, before int64) ([]*MessageView, error)
}

// ReactionRepository defines persistence operations for message reactions.
type ReactionRepository interface {
	Exists(ctx context.Context, messageID, userID int64, reactionType string) (bool, error)
	Create(ctx context.Context, r *Reaction) error
	Delete(ctx context.Context, messageID, userID int64, reactionType string) error
	CountForMessage(ctx context.Context, messageID int64) (int, error)
}
