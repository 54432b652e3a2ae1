package service

import (
	"context"
	"fmt"

	"chatroom/server/internal/models"
	"chatroom/server/internal/repository"

	"github.com/samber/lo"
)

// ViewService builds the data behind the chat pages
type ViewService interface {
	ChatView(ctx context.Context, userID string) (*models.ChatView, error)
	ChannelsView(ctx context.Context, userID string) (*models.ChannelsView, error)
}

type viewService struct {
	directory repository.DirectoryRepository
}

// NewViewService creates a new ViewService
func NewViewService(directory repository.DirectoryRepository) ViewService {
	return &viewService{directory: directory}
}

// ChatView returns the directory listing and the current user's role
func (s *viewService) ChatView(ctx context.Context, userID string) (*models.ChatView, error) {
	user, users, channels, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.ChatView{
		IsAdmin:  user.IsAdmin,
		Users:    users,
		Channels: channels,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// ChannelsView returns the directory listing for the channel page
func (s *viewService) ChannelsView(ctx context.Context, userID string) (*models.ChannelsView, error) {
	user, users, channels, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.ChannelsView{
		Users:    users,
		Channels: channels,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

func (s *viewService) load(ctx context.Context, userID string) (*models.User, []models.UserSummary, []models.Channel, error) {
	user, err := s.directory.FindUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("find user %q: %w", userID, err)
	}

	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list users: %w", err)
	}

	channels, err := s.directory.ListChannels(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list channels: %w", err)
	}

	summaries := lo.Map(users, func(u models.User, _ int) models.UserSummary {
		return u.ToSummary()
	})
	return user, summaries, channels, nil
}
