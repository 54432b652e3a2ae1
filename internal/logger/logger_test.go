package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "chatroom", line["service"])
	assert.Equal(t, "hello", line["message"])
}

func TestWithUserID(t *testing.T) {
	var buf bytes.Buffer
	l := WithUserID(New(&buf), "u1")

	l.Warn().Msg("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "u1", line["user_id"])
}

func TestGet_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, Get())
}
