package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent CREATE TABLE / CREATE INDEX statements for the
// SuperChat schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			nickname VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS chat_rooms (
			id INTEGER PRIMARY KEY,
			name VARCHAR(100) UNIQUE NOT NULL,
			creator_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (creator_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			room_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			parent_message_id INTEGER DEFAULT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (room_id) REFERENCES chat_rooms(id),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (parent_message_id) REFERENCES messages(id)
		);`,
		`CREATE TABLE IF NOT EXISTS message_reactions (
			message_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			reaction_type VARCHAR(50) NOT NULL DEFAULT 'like',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (message_id, user_id, reaction_type),
			FOREIGN KEY (message_id) REFERENCES messages(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_users_nickname ON users(nickname);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_rooms_name ON chat_rooms(name);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room_id_desc ON messages(room_id, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_message ON message_reactions(message_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
