package events

import (
	"context"
	"errors"
	"time"

	"chatroom/server/internal/models"
)

// Kind names a change to a message
type Kind string

const (
	MessageCreated Kind = "message_created"
	MessageUpdated Kind = "message_updated"
	MessageDeleted Kind = "message_deleted"
)

// MessageEvent is emitted after a message write succeeds
type MessageEvent struct {
	Kind       Kind           `json:"kind"`
	Message    models.Message `json:"message"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// NewMessageEvent stamps an event with the current time
func NewMessageEvent(kind Kind, msg models.Message) MessageEvent {
	return MessageEvent{Kind: kind, Message: msg, OccurredAt: time.Now()}
}

// Notifier delivers message events to interested parties
type Notifier interface {
	Notify(ctx context.Context, event MessageEvent) error
}

// Fanout sends every event to all of its notifiers
type Fanout []Notifier

// Notify calls each notifier and joins their errors
func (f Fanout) Notify(ctx context.Context, event MessageEvent) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event
type Discard struct{}

func (Discard) Notify(context.Context, MessageEvent) error { return nil }
