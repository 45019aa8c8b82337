package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"superchat/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, nickname, password_hash, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, u.Email, u.Nickname, u.PasswordHash, u.Status).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, email, nickname, password_hash, status, created_at FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, nickname, password_hash, status, created_at FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *UserRepo) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	query := `SELECT id, email, nickname, password_hash, status, created_at FROM users WHERE nickname = $1`
	return r.scanUser(ctx, query, nickname)
}

func (r *UserRepo) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	query := `UPDATE users SET nickname = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, nickname, id); err != nil {
		return fmt.Errorf("update nickname: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE users SET status = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Nickname,
		&u.PasswordHash,
		&u.Status,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
