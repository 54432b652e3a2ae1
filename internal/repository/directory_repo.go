package repository

import (
	"context"
	"errors"
	"fmt"

	"chatroom/server/internal/common"
	"chatroom/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDirectory reads users and channels from PostgreSQL
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a PostgreSQL backed directory
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// FindUser returns one user
func (d *PostgresDirectory) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.pool.QueryRow(ctx, `SELECT id, username, is_admin FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Username, &user.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every user ordered by username
func (d *PostgresDirectory) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, username, is_admin FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// ListChannels returns every channel with its member ids
func (d *PostgresDirectory) ListChannels(ctx context.Context) ([]models.Channel, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT
			c.id, c.name, c.description, c.type,
			COALESCE(array_agg(cm.user_id ORDER BY cm.joined_at) FILTER (WHERE cm.user_id IS NOT NULL), '{}') AS members
		FROM channels c
		LEFT JOIN channel_members cm ON cm.channel_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}

	channels, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Channel])
	if err != nil {
		return nil, fmt.Errorf("failed to scan channels: %w", err)
	}
	if channels == nil {
		channels = []models.Channel{}
	}
	return channels, nil
}

// ChannelMemberIDs returns the user ids of a channel's members
func (d *PostgresDirectory) ChannelMemberIDs(ctx context.Context, channelID string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT user_id FROM channel_members WHERE channel_id = $1 ORDER BY joined_at ASC
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel members: %w", err)
	}

	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan channel members: %w", err)
	}
	return members, nil
}
