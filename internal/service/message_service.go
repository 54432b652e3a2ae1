package service

import (
	"context"
	"fmt"
	"time"

	"chatroom/server/internal/common"
	"chatroom/server/internal/events"
	"chatroom/server/internal/models"
	"chatroom/server/internal/repository"
	"chatroom/server/internal/session"

	"github.com/rs/zerolog"
)

// MaxPageLimit caps the limit accepted by the listing operations
const MaxPageLimit = 100

// MessageService business logic for message CRUD
type MessageService interface {
	CreateMessage(ctx context.Context, sess session.Session, req *models.CreateMessageRequest) (*models.Message, error)
	ListMessages(ctx context.Context, page models.Page) ([]models.Message, error)
	ListChannelMessages(ctx context.Context, channelID string, page models.Page) ([]models.Message, error)
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	UpdateMessage(ctx context.Context, id string, req *models.UpdateMessageRequest) (*models.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

type messageService struct {
	repo     repository.MessageRepository
	notifier events.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewMessageService creates a new MessageService. A nil notifier discards events.
func NewMessageService(repo repository.MessageRepository, notifier events.Notifier, log zerolog.Logger) MessageService {
	if notifier == nil {
		notifier = events.Discard{}
	}
	return &messageService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// CreateMessage validates and stores a new message. The sender defaults to
// the session user and the creation time to now.
func (s *messageService) CreateMessage(ctx context.Context, sess session.Session, req *models.CreateMessageRequest) (*models.Message, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	msg := &models.Message{
		Content:     req.Content,
		SenderID:    req.SenderID,
		MessageType: req.MessageType,
		ChannelID:   optional(req.ChannelID),
		ReceiverID:  optional(req.ReceiverID),
	}
	if msg.SenderID == "" {
		msg.SenderID = sess.UserID
	}
	if msg.SenderID == "" {
		return nil, common.NewValidationError("senderId", "is required")
	}
	if req.CreatedAt != nil {
		msg.CreatedAt = req.CreatedAt.UTC()
	} else {
		msg.CreatedAt = s.now().UTC()
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.notify(ctx, events.MessageCreated, *msg)
	return msg, nil
}

// ListMessages returns every message, optionally paginated
func (s *messageService) ListMessages(ctx context.Context, page models.Page) ([]models.Message, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}

	messages, err := s.repo.FindAll(ctx, repository.MessageFilter{Page: page})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ListChannelMessages returns the messages posted in one channel
func (s *messageService) ListChannelMessages(ctx context.Context, channelID string, page models.Page) ([]models.Message, error) {
	if channelID == "" {
		return nil, common.NewValidationError("channelId", "is required")
	}
	if err := checkPage(page); err != nil {
		return nil, err
	}

	messages, err := s.repo.FindAll(ctx, repository.MessageFilter{ChannelID: channelID, Page: page})
	if err != nil {
		return nil, fmt.Errorf("list channel messages: %w", err)
	}
	return messages, nil
}

// GetMessage returns one message by its id
func (s *messageService) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get message %q: %w", id, err)
	}
	return msg, nil
}

// UpdateMessage merges the request into the stored message. Last write wins.
func (s *messageService) UpdateMessage(ctx context.Context, id string, req *models.UpdateMessageRequest) (*models.Message, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	patch := req.ToPatch()
	if patch.CreatedAt != nil {
		createdAt := patch.CreatedAt.UTC()
		patch.CreatedAt = &createdAt
	}

	msg, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update message %q: %w", id, err)
	}

	s.notify(ctx, events.MessageUpdated, *msg)
	return msg, nil
}

// DeleteMessage removes one message for good
func (s *messageService) DeleteMessage(ctx context.Context, id string) error {
	msg, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete message %q: %w", id, err)
	}

	s.notify(ctx, events.MessageDeleted, *msg)
	return nil
}

func (s *messageService) notify(ctx context.Context, kind events.Kind, msg models.Message) {
	if err := s.notifier.Notify(ctx, events.NewMessageEvent(kind, msg)); err != nil {
		s.log.Warn().Err(err).
			Str("kind", string(kind)).
			Str("message_id", msg.ID).
			Msg("failed to deliver message event")
	}
}

func checkPage(page models.Page) error {
	if page.Limit < 0 || page.Limit > MaxPageLimit {
		return common.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", MaxPageLimit))
	}
	if page.Offset < 0 {
		return common.NewValidationError("offset", "must not be negative")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
