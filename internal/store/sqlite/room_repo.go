package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"superchat/internal/domain"
)

type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

var _ domain.RoomRepository = (*RoomRepo)(nil)

func (r *RoomRepo) Create(ctx context.Context, room *domain.ChatRoom) error {
	query := `
		INSERT INTO chat_rooms (name, creator_id, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, room.Name, room.CreatorID)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	room.ID = id

	// Re-read created_at so callers see the server-assigned timestamp.
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM chat_rooms WHERE id = ?`, id).Scan(&room.CreatedAt)
}

func (r *RoomRepo) GetByID(ctx context.Context, id int64) (*domain.ChatRoom, error) {
	query := `SELECT id, name, creator_id, created_at FROM chat_rooms WHERE id = ?`
	return r.scanRoom(ctx, query, id)
}

func (r *RoomRepo) GetByName(ctx context.Context, name string) (*domain.ChatRoom, error) {
	query := `SELECT id, name, creator_id, created_at FROM chat_rooms WHERE name = ?`
	return r.scanRoom(ctx, query, name)
}

func (r *RoomRepo) List(ctx context.Context) ([]*domain.ChatRoom, error) {
	query := `SELECT id, name, creator_id, created_at FROM chat_rooms ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.ChatRoom
	for rows.Next() {
		room := &domain.ChatRoom{}
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatorID, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepo) scanRoom(ctx context.Context, query string, arg any) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&room.ID,
		&room.Name,
		&room.CreatorID,
		&room.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan room: %w", err)
	}
	return room, nil
}
