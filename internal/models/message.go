package models

import (
	"time"

	"chatroom/server/internal/common"
)

// MessageType tells which conversation a message belongs to
type MessageType string

const (
	MessageTypeChannel MessageType = "channel"
	MessageTypeDirect  MessageType = "direct"
)

// Message represents a chat message
type Message struct {
	ID          string      `json:"id" db:"id"`
	Content     string      `json:"content" db:"content"`
	SenderID    string      `json:"senderId" db:"sender_id"`
	ChannelID   *string     `json:"channelId,omitempty" db:"channel_id"`   // Null for direct messages
	ReceiverID  *string     `json:"receiverId,omitempty" db:"receiver_id"` // Null for channel messages
	MessageType MessageType `json:"messageType" db:"message_type"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// Validate checks that the message belongs to exactly one conversation:
// a channel message carries a channel and no receiver, a direct message
// carries a receiver and no channel.
func (m *Message) Validate() error {
	switch m.MessageType {
	case MessageTypeChannel:
		if isBlank(m.ChannelID) {
			return common.NewValidationError("channelId", "is required for channel messages")
		}
		if m.ReceiverID != nil {
			return common.NewValidationError("receiverId", "must be empty for channel messages")
		}
	case MessageTypeDirect:
		if isBlank(m.ReceiverID) {
			return common.NewValidationError("receiverId", "is required for direct messages")
		}
		if m.ChannelID != nil {
			return common.NewValidationError("channelId", "must be empty for direct messages")
		}
	default:
		return common.NewValidationError("messageType", "must be channel or direct")
	}
	return nil
}

// Participants returns the users directly named on the message.
// Channel members are resolved elsewhere.
func (m *Message) Participants() []string {
	ids := []string{m.SenderID}
	if m.ReceiverID != nil {
		ids = append(ids, *m.ReceiverID)
	}
	return ids
}

// Apply merges the non-nil patch fields into the message. Switching the
// message type drops the field that belongs to the other kind.
func (m *Message) Apply(p MessagePatch) {
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.SenderID != nil {
		m.SenderID = *p.SenderID
	}
	if p.MessageType != nil {
		m.MessageType = *p.MessageType
		switch m.MessageType {
		case MessageTypeChannel:
			m.ReceiverID = nil
		case MessageTypeDirect:
			m.ChannelID = nil
		}
	}
	if p.ChannelID != nil {
		m.ChannelID = stringPtr(*p.ChannelID)
	}
	if p.ReceiverID != nil {
		m.ReceiverID = stringPtr(*p.ReceiverID)
	}
	if p.CreatedAt != nil {
		m.CreatedAt = *p.CreatedAt
	}
}

// MessagePatch holds the fields of a partial update. Nil means unchanged.
type MessagePatch struct {
	Content     *string
	SenderID    *string
	ChannelID   *string
	ReceiverID  *string
	MessageType *MessageType
	CreatedAt   *time.Time
}

// IsEmpty reports whether the patch changes nothing
func (p MessagePatch) IsEmpty() bool {
	return p.Content == nil && p.SenderID == nil && p.ChannelID == nil &&
		p.ReceiverID == nil && p.MessageType == nil && p.CreatedAt == nil
}

// CreateMessageRequest represents create message request body
type CreateMessageRequest struct {
	Content     string      `json:"content" validate:"required,max=4000"`
	SenderID    string      `json:"senderId" validate:"max=128"`
	ChannelID   string      `json:"channelId" validate:"max=128"`
	ReceiverID  string      `json:"receiverId" validate:"max=128"`
	MessageType MessageType `json:"messageType" validate:"required,oneof=channel direct"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
}

// UpdateMessageRequest represents update message request body
type UpdateMessageRequest struct {
	Content     *string      `json:"content,omitempty" validate:"omitempty,min=1,max=4000"`
	SenderID    *string      `json:"senderId,omitempty" validate:"omitempty,min=1,max=128"`
	ChannelID   *string      `json:"channelId,omitempty" validate:"omitempty,min=1,max=128"`
	ReceiverID  *string      `json:"receiverId,omitempty" validate:"omitempty,min=1,max=128"`
	MessageType *MessageType `json:"messageType,omitempty" validate:"omitempty,oneof=channel direct"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
}

// ToPatch converts the request into a store patch
func (r *UpdateMessageRequest) ToPatch() MessagePatch {
	return MessagePatch{
		Content:     r.Content,
		SenderID:    r.SenderID,
		ChannelID:   r.ChannelID,
		ReceiverID:  r.ReceiverID,
		MessageType: r.MessageType,
		CreatedAt:   r.CreatedAt,
	}
}

// Page limits a listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func stringPtr(s string) *string {
	return &s
}
