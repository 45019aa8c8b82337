package domain

import "time"

// User statuses. New accounts start as pending until the (mocked) email
// verification flips them to active.
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// DefaultReactionType is the only reaction the UI currently exposes.
const DefaultReactionType = "like"

// User represents an application user.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Nickname     string    `db:"nickname" json:"nickname"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Status       string    `db:"status" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ChatRoom represents a chat room. Immutable after creation.
type ChatRoom struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatorID int64     `db:"creator_id" json:"creatorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Message represents a single chat message. Messages are never mutated or
// deleted once written.
type Message struct {
	ID              int64     `db:"id"`
	RoomID          int64     `db:"room_id"`
	UserID          int64     `db:"user_id"`
	Content         string    `db:"content"`
	ParentMessageID *int64    `db:"parent_message_id"`
	CreatedAt       time.Time `db:"created_at"`
}

// Reaction is a per-user, per-message toggle identified by
// (message_id, user_id, reaction_type).
type Reaction struct {
	MessageID    int64     `db:"message_id"`
	UserID       int64     `db:"user_id"`
	ReactionType string    `db:"reaction_type"`
	CreatedAt    time.Time `db:"created_at"`
}

// MessageAuthor is the public slice of a user attached to messages.
type MessageAuthor struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// MessageView is a message joined with its author, as list and realtime
// queries return it.
type MessageView struct {
	Message
	Author MessageAuthor
}
