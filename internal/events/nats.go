package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// NATSConfig configures the JetStream publisher
type NATSConfig struct {
	URL           string
	Stream        string
	SubjectPrefix string
}

// NATSPublisher publishes message events to a JetStream stream
type NATSPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	prefix string
}

// NewNATSPublisher connects to NATS and makes sure the stream exists
func NewNATSPublisher(ctx context.Context, cfg NATSConfig, log zerolog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("chatroom"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := js.Stream(ctx, cfg.Stream); err != nil {
		log.Info().Str("stream", cfg.Stream).Msg("stream not found, creating it")
		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:        cfg.Stream,
			Description: "Chat message changes",
			Subjects:    []string{cfg.SubjectPrefix + ".>"},
			MaxAge:      24 * time.Hour,
			Storage:     jetstream.FileStorage,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to create stream %q: %w", cfg.Stream, err)
		}
	}

	return &NATSPublisher{nc: nc, js: js, prefix: cfg.SubjectPrefix}, nil
}

// Notify publishes the event on the conversation's subject
func (p *NATSPublisher) Notify(ctx context.Context, event MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := Subject(p.prefix, event)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject %q: %w", subject, err)
	}
	return nil
}

// Close drains the connection
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}

// Subject returns the subject an event is published on:
// <prefix>.channel.<channelId> or <prefix>.direct.<lowerUserId>.<higherUserId>,
// so both sides of a direct conversation share one subject.
func Subject(prefix string, event MessageEvent) string {
	msg := event.Message
	if msg.ChannelID != nil {
		return fmt.Sprintf("%s.channel.%s", prefix, subjectToken(*msg.ChannelID))
	}

	a, b := msg.SenderID, ""
	if msg.ReceiverID != nil {
		b = *msg.ReceiverID
	}
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s.direct.%s.%s", prefix, subjectToken(a), subjectToken(b))
}

// subjectToken keeps ids from breaking the subject hierarchy
func subjectToken(id string) string {
	if id == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(id)
}
