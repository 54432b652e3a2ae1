package service

import (
	"context"

	"chatroom/server/internal/events"
	"chatroom/server/internal/models"
	"chatroom/server/internal/repository"

	"github.com/stretchr/testify/mock"
)

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if id, ok := args.Get(1).(string); ok {
		msg.ID = id
	}
	return args.Error(0)
}

func (m *mockMessageRepo) FindAll(ctx context.Context, filter repository.MessageFilter) ([]models.Message, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id string) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *mockMessageRepo) UpdateByID(ctx context.Context, id string, patch models.MessagePatch) (*models.Message, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *mockMessageRepo) DeleteByID(ctx context.Context, id string) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// --- Mock DirectoryRepository ---

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) FindUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockDirectory) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockDirectory) ListChannels(ctx context.Context) ([]models.Channel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Channel), args.Error(1)
}

func (m *mockDirectory) ChannelMemberIDs(ctx context.Context, channelID string) ([]string, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock Notifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event events.MessageEvent) error {
	return m.Called(ctx, event).Error(0)
}

func ptr[T any](v T) *T {
	return &v
}
