package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"superchat/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (room_id, user_id, content, parent_message_id, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, m.RoomID, m.UserID, m.Content, m.ParentMessageID)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id

	return r.db.QueryRowContext(ctx, `SELECT created_at FROM messages WHERE id = ?`, id).Scan(&m.CreatedAt)
}

func (r *MessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	query := `SELECT id, room_id, user_id, content, parent_message_id, created_at FROM messages WHERE id = ?`
	m := &domain.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.RoomID,
		&m.UserID,
		&m.Content,
		&m.ParentMessageID,
		&m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return m, nil
}

func (r *MessageRepo) GetViewByID(ctx context.Context, id int64) (*domain.MessageView, error) {
	query := `
		SELECT m.id, m.room_id, m.user_id, m.content, m.parent_message_id, m.created_at,
		       u.id, u.nickname
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = ?
	`
	v := &domain.MessageView{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.RoomID,
		&v.UserID,
		&v.Content,
		&v.ParentMessageID,
		&v.CreatedAt,
		&v.Author.ID,
		&v.Author.Nickname,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan message view: %w", err)
	}
	return v, nil
}

// ListForRoom returns up to limit messages newest-first. A non-zero before
// restricts results to id < before (cursor pagination).
func (r *MessageRepo) ListForRoom(ctx context.Context, roomID int64, limit int, before int64) ([]*domain.MessageView, error) {
	query := `
		SELECT m.id, m.room_id, m.user_id, m.content, m.parent_message_id, m.created_at,
		       u.id, u.nickname
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = ?
	`
	args := []any{roomID}
	if before > 0 {
		query += ` AND m.id < ?`
		args = append(args, before)
	}
	query += ` ORDER BY m.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.MessageView
	for rows.Next() {
		v := &domain.MessageView{}
		if err := rows.Scan(
			&v.ID,
			&v.RoomID,
			&v.UserID,
			&v.Content,
			&v.ParentMessageID,
			&v.CreatedAt,
			&v.Author.ID,
			&v.Author.Nickname,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, v)
	}
	return res, rows.Err()
}
