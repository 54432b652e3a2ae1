package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.Nop()

// Init sets up the global logger. Development gets a console writer,
// everything else JSON on stdout.
func Init(env string) {
	var w io.Writer

	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		w = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog = New(w)
}

// New builds a logger writing to w with the service field set
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().
		Timestamp().
		Str("service", "chatroom").
		Logger()
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &zlog
}

// WithUserID returns a child of l tagged with user_id
func WithUserID(l zerolog.Logger, userID string) zerolog.Logger {
	return l.With().Str("user_id", userID).Logger()
}
