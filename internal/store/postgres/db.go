package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the SuperChat schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL    PRIMARY KEY,
			email         VARCHAR(255) UNIQUE NOT NULL,
			nickname      VARCHAR(50)  UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			status        VARCHAR(20)  NOT NULL DEFAULT 'pending',
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS chat_rooms (
			id         BIGSERIAL    PRIMARY KEY,
			name       VARCHAR(100) UNIQUE NOT NULL,
			creator_id BIGINT       NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id                BIGSERIAL   PRIMARY KEY,
			room_id           BIGINT      NOT NULL REFERENCES chat_rooms(id),
			user_id           BIGINT      NOT NULL REFERENCES users(id),
			content           TEXT        NOT NULL,
			parent_message_id BIGINT      REFERENCES messages(id),
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS message_reactions (
			message_id    BIGINT      NOT NULL REFERENCES messages(id),
			user_id       BIGINT      NOT NULL REFERENCES users(id),
			reaction_type VARCHAR(50) NOT NULL DEFAULT 'like',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (message_id, user_id, reaction_type)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_nickname ON users(nickname)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_name ON chat_rooms(name)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room_id_desc ON messages(room_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_message ON message_reactions(message_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
