package service

import (
	"context"
	"fmt"
	"time"

	"chatroom/server/internal/models"
	"chatroom/server/internal/repository"
)

// ConversationService answers read-only conversation queries
type ConversationService interface {
	UserConversations(ctx context.Context, userID string) ([]models.Message, error)
	ConversationsBetween(ctx context.Context, start, end time.Time) ([]models.Message, error)
}

type conversationService struct {
	repo repository.MessageRepository
}

// NewConversationService creates a new ConversationService
func NewConversationService(repo repository.MessageRepository) ConversationService {
	return &conversationService{repo: repo}
}

// UserConversations returns the direct messages the user sent or received
// and the messages of every channel the user belongs to
func (s *conversationService) UserConversations(ctx context.Context, userID string) ([]models.Message, error) {
	if userID == "" {
		return []models.Message{}, nil
	}

	messages, err := s.repo.FindAll(ctx, repository.MessageFilter{Participant: userID})
	if err != nil {
		return nil, fmt.Errorf("user conversations: %w", err)
	}
	return messages, nil
}

// ConversationsBetween returns every message created within [start, end]
func (s *conversationService) ConversationsBetween(ctx context.Context, start, end time.Time) ([]models.Message, error) {
	if start.After(end) {
		return []models.Message{}, nil
	}

	messages, err := s.repo.FindAll(ctx, repository.MessageFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("conversations between dates: %w", err)
	}
	return messages, nil
}
