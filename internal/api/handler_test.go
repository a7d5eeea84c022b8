package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fathima-sithara/messaging-service/internal/domain"
	"github.com/fathima-sithara/messaging-service/internal/repository"
	"github.com/fathima-sithara/messaging-service/internal/service"
)

func newTestApp() *fiber.App {
	store := repository.NewMemoryStore()
	svc := service.NewMessagingService(store, store, nil, zap.NewNop().Sugar())
	return NewServer(svc, nil)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func sendMessage(t *testing.T, app *fiber.App, body string) domain.Message {
	t.Helper()
	resp, b := doJSON(t, app, http.MethodPost, "/api/messages", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(b))
	var msg domain.Message
	require.NoError(t, json.Unmarshal(b, &msg))
	return msg
}

func TestSenderKeyBucketsBySender(t *testing.T) {
	app := fiber.New()
	app.Post("/key", func(c *fiber.Ctx) error {
		return c.SendString(senderKey(c))
	})

	resp, b := doJSON(t, app, http.MethodPost, "/key", `{"sender_id":7,"receiver_id":2,"content":"hi"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "7", string(b))

	// unusable body falls back to the client address
	resp, b = doJSON(t, app, http.MethodPost, "/key", `{not json`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEqual(t, "7", string(b))
	assert.NotEmpty(t, string(b))
}

func TestSendMessageEndpoint(t *testing.T) {
	app := newTestApp()

	msg := sendMessage(t, app, `{"sender_id":1,"receiver_id":2,"content":"hi"}`)
	assert.NotEmpty(t, msg.ID)
	assert.NotEmpty(t, msg.ConversationID)
	assert.Equal(t, int64(1), msg.SenderID)
	assert.Equal(t, int64(2), msg.ReceiverID)
	assert.Equal(t, "hi", msg.Content)
}

func TestSendMessageBadInput(t *testing.T) {
	app := newTestApp()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/messages", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/messages", `{"sender_id":0,"receiver_id":2,"content":"hi"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/messages", `{"sender_id":1,"receiver_id":2,"content":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetConversationEndpoint(t *testing.T) {
	app := newTestApp()
	msg := sendMessage(t, app, `{"sender_id":9,"receiver_id":5,"content":"hey"}`)

	resp, b := doJSON(t, app, http.MethodGet, "/api/conversations/"+msg.ConversationID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var conv domain.Conversation
	require.NoError(t, json.Unmarshal(b, &conv))
	assert.Equal(t, msg.ConversationID, conv.ID)
	assert.Equal(t, []int64{5, 9}, conv.Participants)
	require.NotNil(t, conv.LastMessageContent)
	assert.Equal(t, "hey", *conv.LastMessageContent)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/conversations/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/conversations/3b2f4a10-58c1-4f9e-9f63-1d2e3c4b5a6f", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListConversationsEndpoint(t *testing.T) {
	app := newTestApp()
	sendMessage(t, app, `{"sender_id":1,"receiver_id":2,"content":"a"}`)
	time.Sleep(time.Millisecond)
	sendMessage(t, app, `{"sender_id":1,"receiver_id":3,"content":"b"}`)

	resp, b := doJSON(t, app, http.MethodGet, "/api/conversations/user/1?page=1&limit=20", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page domain.ConversationPage
	require.NoError(t, json.Unmarshal(b, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	require.Len(t, page.Data, 2)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/conversations/user/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/conversations/user/1?page=0", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListMessagesEndpoint(t *testing.T) {
	app := newTestApp()
	first := sendMessage(t, app, `{"sender_id":1,"receiver_id":2,"content":"hi"}`)
	time.Sleep(time.Millisecond)
	second := sendMessage(t, app, `{"sender_id":2,"receiver_id":1,"content":"hello"}`)

	resp, b := doJSON(t, app, http.MethodGet, "/api/conversations/"+first.ConversationID+"/messages", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page domain.MessagePage
	require.NoError(t, json.Unmarshal(b, &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "hello", page.Data[0].Content)
	assert.Equal(t, "hi", page.Data[1].Content)

	// strictly-before filter excludes the cutoff message itself
	before := second.CreatedAt.Format(time.RFC3339Nano)
	resp, b = doJSON(t, app, http.MethodGet,
		"/api/conversations/"+first.ConversationID+"/messages?before="+before, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page = domain.MessagePage{}
	require.NoError(t, json.Unmarshal(b, &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, first.ID, page.Data[0].ID)

	resp, _ = doJSON(t, app, http.MethodGet,
		"/api/conversations/"+first.ConversationID+"/messages?before=yesterday", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
