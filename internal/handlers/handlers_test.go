package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatroom/server/internal/middleware"
	"chatroom/server/internal/models"
	"chatroom/server/internal/repository"
	"chatroom/server/internal/service"
	"chatroom/server/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type testServer struct {
	app   *fiber.App
	store *repository.MemoryStore
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repository.NewMemoryStore()
	store.PutUser(models.User{ID: "u1", Username: "alice", IsAdmin: true})
	store.PutUser(models.User{ID: "u2", Username: "bob"})
	store.PutChannel(models.Channel{ID: "c1", Name: "general", Members: []string{"u1", "u2"}})

	log := zerolog.Nop()
	codec := session.NewCodec(testSecret)
	token, err := codec.Encode("u1", time.Hour)
	require.NoError(t, err)

	messages := NewMessageHandler(service.NewMessageService(store, nil, log), log)
	conversations := NewConversationHandler(service.NewConversationService(store), log)
	views := NewViewHandler(service.NewViewService(store), log)

	app := fiber.New()
	api := app.Group("/api/v1", middleware.SessionGate(codec, "/login"))
	api.Post("/messages", messages.CreateMessage)
	api.Get("/messages", messages.ListMessages)
	api.Get("/messages/channel/:channelId", messages.ListChannelMessages)
	api.Get("/messages/:messageId", messages.GetMessage)
	api.Put("/messages/:messageId", messages.UpdateMessage)
	api.Patch("/messages/:messageId", messages.UpdateMessage)
	api.Delete("/messages/:messageId", messages.DeleteMessage)
	api.Get("/conversations", conversations.GetConversationsBetweenDates)
	api.Get("/conversations/:userId", conversations.GetUserConversations)
	api.Get("/views/chat", views.GetChatView)
	api.Get("/views/channels", views.GetChannelsView)

	return &testServer{app: app, store: store, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.token})

	resp, err := s.app.Test(req)
	require.NoError(t, err)

	var env envelope
	if resp.StatusCode != fiber.StatusFound {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func decodeMessages(t *testing.T, env envelope) []models.Message {
	t.Helper()
	var messages []models.Message
	require.NoError(t, json.Unmarshal(env.Data, &messages))
	return messages
}

func decodeMessage(t *testing.T, env envelope) models.Message {
	t.Helper()
	var msg models.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	return msg
}

func (s *testServer) create(t *testing.T, body fiber.Map) models.Message {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)
	return decodeMessage(t, env)
}

func TestCreateMessage_ThenListByChannel(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodPost, "/api/v1/messages", fiber.Map{
		"content":     "hi",
		"channelId":   "c1",
		"messageType": "channel",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	created := decodeMessage(t, env)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hi", created.Content)
	assert.Equal(t, "u1", created.SenderID)
	assert.False(t, created.CreatedAt.IsZero())

	resp, env = s.do(t, http.MethodGet, "/api/v1/messages/channel/c1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	listed := decodeMessages(t, env)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateMessage_RejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]fiber.Map{
		"missing content":   {"channelId": "c1", "messageType": "channel"},
		"unknown type":      {"content": "hi", "channelId": "c1", "messageType": "group"},
		"channel and peer":  {"content": "hi", "channelId": "c1", "receiverId": "u2", "messageType": "channel"},
		"direct no peer":    {"content": "hi", "messageType": "direct"},
		"channel no target": {"content": "hi", "messageType": "channel"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, env := s.do(t, http.MethodPost, "/api/v1/messages", body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}

	resp, _ := s.do(t, http.MethodGet, "/api/v1/messages", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateMessage_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.token})

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListMessages_EmptyStoreIsEmptyArray(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/v1/messages", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))

	resp, env = s.do(t, http.MethodGet, "/api/v1/messages/channel/nowhere", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListMessages_Pagination(t *testing.T) {
	s := newTestServer(t)
	for i, content := range []string{"one", "two", "three"} {
		s.create(t, fiber.Map{
			"content":     content,
			"channelId":   "c1",
			"messageType": "channel",
			"createdAt":   time.Date(2024, 1, 1, 10, i, 0, 0, time.UTC),
		})
	}

	resp, env := s.do(t, http.MethodGet, "/api/v1/messages?limit=2&offset=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	page := decodeMessages(t, env)
	require.Len(t, page, 2)
	assert.Equal(t, "two", page[0].Content)
	assert.Equal(t, "three", page[1].Content)

	for _, query := range []string{"limit=0", "limit=abc", "limit=101", "offset=-1"} {
		resp, _ := s.do(t, http.MethodGet, "/api/v1/messages?"+query, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestGetMessage(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, fiber.Map{"content": "hey", "receiverId": "u2", "messageType": "direct"})

	resp, env := s.do(t, http.MethodGet, "/api/v1/messages/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decodeMessage(t, env).ID)

	for _, id := range []string{"00000000-0000-0000-0000-000000000000", "not-a-uuid"} {
		resp, env := s.do(t, http.MethodGet, "/api/v1/messages/"+id, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, id)
		assert.Equal(t, "Message not found", env.Error)
	}
}

func TestUpdateMessage(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, fiber.Map{"content": "draft", "channelId": "c1", "messageType": "channel"})

	resp, env := s.do(t, http.MethodPatch, "/api/v1/messages/"+created.ID, fiber.Map{"content": "final"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decodeMessage(t, env)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, created.SenderID, updated.SenderID)

	// Switching to a direct message drops the channel
	resp, env = s.do(t, http.MethodPut, "/api/v1/messages/"+created.ID, fiber.Map{
		"messageType": "direct",
		"receiverId":  "u2",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	switched := decodeMessage(t, env)
	assert.Nil(t, switched.ChannelID)
	require.NotNil(t, switched.ReceiverID)
	assert.Equal(t, "u2", *switched.ReceiverID)

	resp, _ = s.do(t, http.MethodPatch, "/api/v1/messages/"+created.ID, fiber.Map{"channelId": "c1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPatch, "/api/v1/messages/00000000-0000-0000-0000-000000000000", fiber.Map{"content": "x"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteMessage(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, fiber.Map{"content": "bye", "channelId": "c1", "messageType": "channel"})

	resp, env := s.do(t, http.MethodDelete, "/api/v1/messages/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "Message deleted", env.Message)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/messages/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/v1/messages/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserConversations(t *testing.T) {
	s := newTestServer(t)
	s.create(t, fiber.Map{"content": "to bob", "receiverId": "u2", "messageType": "direct"})
	s.create(t, fiber.Map{"content": "in general", "senderId": "u3", "channelId": "c1", "messageType": "channel"})
	s.create(t, fiber.Map{"content": "elsewhere", "senderId": "u3", "receiverId": "u4", "messageType": "direct"})

	resp, env := s.do(t, http.MethodGet, "/api/v1/conversations/u2", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	contents := make([]string, 0)
	for _, m := range decodeMessages(t, env) {
		contents = append(contents, m.Content)
	}
	assert.ElementsMatch(t, []string{"to bob", "in general"}, contents)

	resp, env = s.do(t, http.MethodGet, "/api/v1/conversations/nobody", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestConversationsBetweenDates(t *testing.T) {
	s := newTestServer(t)
	s.create(t, fiber.Map{"content": "march", "channelId": "c1", "messageType": "channel", "createdAt": "2024-03-10T23:30:00Z"})
	s.create(t, fiber.Map{"content": "april", "channelId": "c1", "messageType": "channel", "createdAt": "2024-04-02T08:00:00Z"})

	resp, env := s.do(t, http.MethodGet, "/api/v1/conversations?startDate=2024-03-01&endDate=2024-03-10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	found := decodeMessages(t, env)
	require.Len(t, found, 1)
	assert.Equal(t, "march", found[0].Content)

	resp, env = s.do(t, http.MethodGet, "/api/v1/conversations?startDate=2024-03-10T23:30:00Z&endDate=2024-04-02T08:00:00Z", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decodeMessages(t, env), 2)

	resp, env = s.do(t, http.MethodGet, "/api/v1/conversations?startDate=2024-05-01&endDate=2024-01-01", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))

	for _, query := range []string{"", "?startDate=2024-03-01", "?startDate=yesterday&endDate=2024-03-01"} {
		resp, _ := s.do(t, http.MethodGet, "/api/v1/conversations"+query, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestViews(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/v1/views/chat", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var chat models.ChatView
	require.NoError(t, json.Unmarshal(env.Data, &chat))
	assert.True(t, chat.IsAdmin)
	assert.Equal(t, "alice", chat.Username)
	assert.Len(t, chat.Users, 2)
	require.Len(t, chat.Channels, 1)
	assert.Equal(t, "general", chat.Channels[0].Name)

	resp, env = s.do(t, http.MethodGet, "/api/v1/views/channels", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var channels models.ChannelsView
	require.NoError(t, json.Unmarshal(env.Data, &channels))
	assert.Equal(t, "u1", channels.UserID)
}

func TestViews_UnknownSessionUser(t *testing.T) {
	s := newTestServer(t)
	token, err := session.NewCodec(testSecret).Encode("ghost", time.Hour)
	require.NoError(t, err)
	s.token = token

	resp, env := s.do(t, http.MethodGet, "/api/v1/views/chat", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", env.Error)
}

func TestRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	resp, _ := s.do(t, http.MethodGet, "/api/v1/messages", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
