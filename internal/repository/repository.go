package repository

import (
	"context"
	"time"

	"chatroom/server/internal/models"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	FindAll(ctx context.Context, filter MessageFilter) ([]models.Message, error)
	FindByID(ctx context.Context, id string) (*models.Message, error)
	UpdateByID(ctx context.Context, id string, patch models.MessagePatch) (*models.Message, error)
	DeleteByID(ctx context.Context, id string) (*models.Message, error)
}

// DirectoryRepository reads the user and channel projections
type DirectoryRepository interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListChannels(ctx context.Context) ([]models.Channel, error)
	ChannelMemberIDs(ctx context.Context, channelID string) ([]string, error)
}

// MessageFilter narrows FindAll. Zero fields are ignored.
type MessageFilter struct {
	ChannelID string
	// Participant matches messages the user sent or received, and messages
	// in channels the user is a member of.
	Participant string
	// From and To bound created_at, both inclusive
	From *time.Time
	To   *time.Time
	models.Page
}
