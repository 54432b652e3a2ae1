package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a connection pool and checks it with a ping
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the tables the server reads and writes. Users, channels
// and channel members are owned by other services; they are created here
// only so a fresh database works.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'public'
	)`,
	`CREATE TABLE IF NOT EXISTS channel_members (
		channel_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (channel_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_channel_members_user ON channel_members (user_id)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		content TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		channel_id TEXT,
		receiver_id TEXT,
		message_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT messages_one_conversation CHECK (
			(message_type = 'channel' AND channel_id IS NOT NULL AND receiver_id IS NULL) OR
			(message_type = 'direct' AND receiver_id IS NOT NULL AND channel_id IS NULL)
		)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages (channel_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages (sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages (receiver_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at)`,
}
