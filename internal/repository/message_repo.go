package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chatroom/server/internal/common"
	"chatroom/server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, content, sender_id, channel_id, receiver_id, message_type, created_at, updated_at`

const (
	pgCheckViolation   = "23514"
	pgInvalidTextValue = "22P02"
)

// PostgresStore stores messages in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL backed message store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a message and fills in its id and timestamps
func (s *PostgresStore) Create(ctx context.Context, msg *models.Message) error {
	rows, err := s.pool.Query(ctx, `
		INSERT INTO messages (id, content, sender_id, channel_id, receiver_id, message_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+messageColumns,
		uuid.NewString(), msg.Content, msg.SenderID, msg.ChannelID, msg.ReceiverID,
		msg.MessageType, msg.CreatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", translateError(err))
	}

	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", translateError(err))
	}

	*msg = saved
	return nil
}

// FindAll returns the messages matching filter ordered by created_at
func (s *PostgresStore) FindAll(ctx context.Context, filter MessageFilter) ([]models.Message, error) {
	query, args := buildFindAllQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// FindByID returns one message
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidMessageID
	}

	rows, err := s.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query message: %w", translateError(err))
	}

	msg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, translateError(err)
	}
	return &msg, nil
}

// UpdateByID applies patch to one message and returns the stored result
func (s *PostgresStore) UpdateByID(ctx context.Context, id string, patch models.MessagePatch) (*models.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidMessageID
	}

	query, args := buildUpdateQuery(id, patch, time.Now())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update message: %w", translateError(err))
	}

	msg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, translateError(err)
	}
	return &msg, nil
}

// DeleteByID removes one message and returns it
func (s *PostgresStore) DeleteByID(ctx context.Context, id string) (*models.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidMessageID
	}

	rows, err := s.pool.Query(ctx, `DELETE FROM messages WHERE id = $1 RETURNING `+messageColumns, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete message: %w", translateError(err))
	}

	msg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, translateError(err)
	}
	return &msg, nil
}

func buildFindAllQuery(filter MessageFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ChannelID != "" {
		conditions = append(conditions, "channel_id = "+next(filter.ChannelID))
	}
	if filter.Participant != "" {
		p := next(filter.Participant)
		conditions = append(conditions, "(sender_id = "+p+" OR receiver_id = "+p+
			" OR channel_id IN (SELECT channel_id FROM channel_members WHERE user_id = "+p+"))")
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= "+next(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= "+next(*filter.To))
	}

	query := "SELECT " + messageColumns + " FROM messages"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + next(filter.Offset)
	}

	return query, args
}

func buildUpdateQuery(id string, patch models.MessagePatch, now time.Time) (string, []interface{}) {
	query := "UPDATE messages SET updated_at = $1"
	args := []interface{}{now}
	argCount := 2

	set := func(column string, v interface{}) {
		query += ", " + column + " = $" + strconv.Itoa(argCount)
		args = append(args, v)
		argCount++
	}

	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.SenderID != nil {
		set("sender_id", *patch.SenderID)
	}
	if patch.MessageType != nil {
		set("message_type", *patch.MessageType)
		// The other kind's field goes unless the patch sets it explicitly
		switch *patch.MessageType {
		case models.MessageTypeChannel:
			if patch.ReceiverID == nil {
				query += ", receiver_id = NULL"
			}
		case models.MessageTypeDirect:
			if patch.ChannelID == nil {
				query += ", channel_id = NULL"
			}
		}
	}
	if patch.ChannelID != nil {
		set("channel_id", *patch.ChannelID)
	}
	if patch.ReceiverID != nil {
		set("receiver_id", *patch.ReceiverID)
	}
	if patch.CreatedAt != nil {
		set("created_at", *patch.CreatedAt)
	}

	query += " WHERE id = $" + strconv.Itoa(argCount) + " RETURNING " + messageColumns
	args = append(args, id)

	return query, args
}

func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrMessageNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation:
			return common.NewValidationError("messageType", "message must belong to exactly one channel or one receiver")
		case pgInvalidTextValue:
			return common.ErrInvalidMessageID
		}
	}
	return err
}
