package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatagent/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatService returns canned answers and records the last message.
type fakeChatService struct {
	response    string
	result      *models.ChatResult
	err         error
	tools       []models.ToolInfo
	lastMessage string
}

func (f *fakeChatService) Respond(ctx context.Context, message string) (string, error) {
	f.lastMessage = message
	return f.response, f.err
}

func (f *fakeChatService) RespondWithSteps(ctx context.Context, message string) (*models.ChatResult, error) {
	f.lastMessage = message
	return f.result, f.err
}

func (f *fakeChatService) ToolInfo() []models.ToolInfo {
	return f.tools
}

func newChatRouter(service ChatService) *mux.Router {
	router := mux.NewRouter()
	NewChatHandler(service).RegisterRoutes(router)
	return router
}

func TestChatEndpoint(t *testing.T) {
	service := &fakeChatService{response: "12 * 7 = 84"}
	router := newChatRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "What is 12 * 7?"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "What is 12 * 7?", service.lastMessage)

	var response models.ChatResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "12 * 7 = 84", response.Response)
	assert.NotEmpty(t, response.Timestamp)
}

func TestChatEndpointTrimsMessage(t *testing.T) {
	service := &fakeChatService{response: "hi"}
	router := newChatRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "  hello  "}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "hello", service.lastMessage)
}

func TestChatEndpointBadRequests(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{
			name:          "invalid JSON",
			body:          `{"message": `,
			expectedError: "Invalid JSON payload",
		},
		{
			name:          "empty message",
			body:          `{"message": ""}`,
			expectedError: "Message cannot be empty",
		},
		{
			name:          "whitespace-only message",
			body:          `{"message": "   "}`,
			expectedError: "Message cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newChatRouter(&fakeChatService{})

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			require.Equal(t, http.StatusBadRequest, recorder.Code)

			var response map[string]string
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response["error"])
		})
	}
}

func TestChatEndpointServiceFailure(t *testing.T) {
	service := &fakeChatService{err: errors.New("failed to call Anthropic API: overloaded")}
	router := newChatRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hi"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "overloaded")
}

func TestChatStepsEndpoint(t *testing.T) {
	service := &fakeChatService{result: &models.ChatResult{
		Response: "12 * 7 = 84",
		Messages: []models.ChatMessage{
			{Role: "user", Content: "What is 12 * 7?"},
			{
				Role:    "assistant",
				Content: "Let me check.",
				ToolCalls: []models.ToolCall{
					{ID: "toolu_01", Name: "calculator", Arguments: map[string]interface{}{"expression": "12 * 7"}},
				},
			},
			{
				Role:        "tool",
				ToolResults: []models.ToolResult{{ToolCallID: "toolu_01", Content: "84"}},
			},
			{Role: "assistant", Content: "12 * 7 = 84"},
		},
	}}
	router := newChatRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/steps", strings.NewReader(`{"message": "What is 12 * 7?"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response models.ChatStepsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "12 * 7 = 84", response.Response)

	require.Len(t, response.Steps, 5)
	assert.Equal(t, models.ChatStep{Type: "user", Content: "What is 12 * 7?"}, response.Steps[0])
	assert.Equal(t, "assistant", response.Steps[1].Type)
	assert.Equal(t, "tool_call", response.Steps[2].Type)
	assert.Equal(t, "calculator", response.Steps[2].Tool)
	assert.JSONEq(t, `{"expression": "12 * 7"}`, response.Steps[2].Content)
	assert.Equal(t, models.ChatStep{Type: "tool_result", Content: "84"}, response.Steps[3])
	assert.Equal(t, models.ChatStep{Type: "assistant", Content: "12 * 7 = 84"}, response.Steps[4])
}

func TestChatEndpointMethodNotAllowed(t *testing.T) {
	router := newChatRouter(&fakeChatService{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
