package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"superchat/internal/domain"
)

type ReactionRepo struct {
	db *sql.DB
}

func NewReactionRepo(db *sql.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

var _ domain.ReactionRepository = (*ReactionRepo)(nil)

func (r *ReactionRepo) Exists(ctx context.Context, messageID, userID int64, reactionType string) (bool, error) {
	query := `SELECT 1 FROM message_reactions WHERE message_id = $1 AND user_id = $2 AND reaction_type = $3`
	var one int
	err := r.db.QueryRowContext(ctx, query, messageID, userID, reactionType).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check reaction: %w", err)
	}
	return true, nil
}

func (r *ReactionRepo) Create(ctx context.Context, reaction *domain.Reaction) error {
	query := `
		INSERT INTO message_reactions (message_id, user_id, reaction_type)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, reaction.MessageID, reaction.UserID, reaction.ReactionType); err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

func (r *ReactionRepo) Delete(ctx context.Context, messageID, userID int64, reactionType string) error {
	query := `DELETE FROM message_reactions WHERE message_id = $1 AND user_id = $2 AND reaction_type = $3`
	if _, err := r.db.ExecContext(ctx, query, messageID, userID, reactionType); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

func (r *ReactionRepo) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	query := `SELECT COUNT(*) FROM message_reactions WHERE message_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, messageID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reactions: %w", err)
	}
	return count, nil
}
