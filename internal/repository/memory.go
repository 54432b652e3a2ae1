package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"chatroom/server/internal/common"
	"chatroom/server/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MemoryStore keeps messages, users and channels in process memory.
// It serves local development without a database and the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []models.Message
	users    map[string]models.User
	channels map[string]models.Channel
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		channels: make(map[string]models.Channel),
		now:      time.Now,
	}
}

// PutUser adds or replaces a user
func (s *MemoryStore) PutUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// PutChannel adds or replaces a channel
func (s *MemoryStore) PutChannel(channel models.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	channel.Members = slices.Clone(channel.Members)
	s.channels[channel.ID] = channel
}

// Create stores a copy of msg under a new id
func (s *MemoryStore) Create(ctx context.Context, msg *models.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.UpdatedAt = s.now()
	s.messages = append(s.messages, cloneMessage(*msg))
	return nil
}

// FindAll returns the messages matching filter ordered by created_at
func (s *MemoryStore) FindAll(ctx context.Context, filter MessageFilter) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var memberOf map[string]bool
	if filter.Participant != "" {
		memberOf = make(map[string]bool)
		for id, channel := range s.channels {
			if channel.HasMember(filter.Participant) {
				memberOf[id] = true
			}
		}
	}

	matched := lo.Filter(s.messages, func(m models.Message, _ int) bool {
		if filter.ChannelID != "" && (m.ChannelID == nil || *m.ChannelID != filter.ChannelID) {
			return false
		}
		if filter.Participant != "" && !involves(m, filter.Participant, memberOf) {
			return false
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			return false
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			return false
		}
		return true
	})

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	matched = paginate(matched, filter.Page)
	return lo.Map(matched, func(m models.Message, _ int) models.Message {
		return cloneMessage(m)
	}), nil
}

// FindByID returns one message
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	msg := cloneMessage(s.messages[i])
	return &msg, nil
}

// UpdateByID applies patch to one message
func (s *MemoryStore) UpdateByID(ctx context.Context, id string, patch models.MessagePatch) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}

	updated := cloneMessage(s.messages[i])
	updated.Apply(patch)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.now()

	s.messages[i] = updated
	msg := cloneMessage(updated)
	return &msg, nil
}

// DeleteByID removes one message and returns it
func (s *MemoryStore) DeleteByID(ctx context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}

	deleted := s.messages[i]
	s.messages = slices.Delete(s.messages, i, i+1)
	return &deleted, nil
}

// FindUser returns one user
func (s *MemoryStore) FindUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return &user, nil
}

// ListUsers returns every user ordered by username
func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := lo.Values(s.users)
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// ListChannels returns every channel ordered by name
func (s *MemoryStore) ListChannels(ctx context.Context) ([]models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channels := lo.MapToSlice(s.channels, func(_ string, c models.Channel) models.Channel {
		c.Members = slices.Clone(c.Members)
		return c
	})
	sort.Slice(channels, func(i, j int) bool { return channels[i].Name < channels[j].Name })
	return channels, nil
}

// ChannelMemberIDs returns the user ids of a channel's members
func (s *MemoryStore) ChannelMemberIDs(ctx context.Context, channelID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.channels[channelID].Members), nil
}

func (s *MemoryStore) indexOf(id string) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return -1, common.ErrInvalidMessageID
	}
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i, nil
		}
	}
	return -1, common.ErrMessageNotFound
}

func involves(m models.Message, userID string, memberOf map[string]bool) bool {
	if m.SenderID == userID {
		return true
	}
	if m.ReceiverID != nil && *m.ReceiverID == userID {
		return true
	}
	return m.ChannelID != nil && memberOf[*m.ChannelID]
}

func paginate(messages []models.Message, page models.Page) []models.Message {
	if page.Offset >= len(messages) {
		return []models.Message{}
	}
	messages = messages[page.Offset:]
	if page.Limit > 0 && page.Limit < len(messages) {
		messages = messages[:page.Limit]
	}
	return messages
}

func cloneMessage(m models.Message) models.Message {
	if m.ChannelID != nil {
		channelID := *m.ChannelID
		m.ChannelID = &channelID
	}
	if m.ReceiverID != nil {
		receiverID := *m.ReceiverID
		m.ReceiverID = &receiverID
	}
	return m
}
