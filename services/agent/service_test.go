package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// scriptedClient replays a fixed sequence of responses and records every
// request it receives.
type scriptedClient struct {
	responses []*anthropic.Message
	err       error
	requests  []anthropic.MessageNewParams
}

func (c *scriptedClient) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	c.requests = append(c.requests, params)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) == 0 {
		return nil, fmt.Errorf("scripted client ran out of responses")
	}
	response := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	return response, nil
}

// messageFromJSON decodes a raw API payload into an anthropic.Message. Going
// through the SDK unmarshaler keeps the union metadata intact so AsAny on the
// content blocks behaves as it does for real responses.
func messageFromJSON(t *testing.T, raw string) *anthropic.Message {
	t.Helper()
	var message anthropic.Message
	if err := json.Unmarshal([]byte(raw), &message); err != nil {
		t.Fatalf("failed to decode message fixture: %v", err)
	}
	return &message
}

func textMessage(t *testing.T, text string) *anthropic.Message {
	t.Helper()
	block, _ := json.Marshal(text)
	return messageFromJSON(t, fmt.Sprintf(`{
		"id": "msg_test",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"stop_reason": "end_turn",
		"content": [{"type": "text", "text": %s}],
		"usage": {"input_tokens": 10, "output_tokens": 10}
	}`, block))
}

func toolUseMessage(t *testing.T, toolName, inputJSON string) *anthropic.Message {
	t.Helper()
	return messageFromJSON(t, fmt.Sprintf(`{
		"id": "msg_test",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"stop_reason": "tool_use",
		"content": [
			{"type": "text", "text": "Let me check."},
			{"type": "tool_use", "id": "toolu_01", "name": %q, "input": %s}
		],
		"usage": {"input_tokens": 10, "output_tokens": 10}
	}`, toolName, inputJSON))
}

func newTestService(client messagesClient, tools ...AgentTool) *Service {
	return &Service{
		messages:      client,
		tools:         tools,
		model:         "claude-sonnet-4-20250514",
		maxIterations: 10,
	}
}

func TestRespondWithoutTools(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.Message{
		textMessage(t, "Hello! How can I help?"),
	}}
	service := newTestService(client, CalculatorTool{})

	response, err := service.Respond(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if response != "Hello! How can I help?" {
		t.Errorf("unexpected response: %q", response)
	}
	if len(client.requests) != 1 {
		t.Errorf("expected 1 API call, got %d", len(client.requests))
	}
}

func TestRespondWithCalculatorRoundTrip(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.Message{
		toolUseMessage(t, "calculator", `{"expression": "12 * 7"}`),
		textMessage(t, "12 * 7 = 84"),
	}}
	service := newTestService(client, CalculatorTool{})

	result, err := service.RespondWithSteps(context.Background(), "What is 12 * 7?")
	if err != nil {
		t.Fatalf("RespondWithSteps returned error: %v", err)
	}
	if result.Response != "12 * 7 = 84" {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if len(client.requests) != 2 {
		t.Fatalf("expected 2 API calls, got %d", len(client.requests))
	}

	// The second request must carry the tool result back to the model.
	followUp := client.requests[1].Messages
	if len(followUp) != 3 {
		t.Fatalf("expected 3 messages in follow-up request, got %d", len(followUp))
	}
	toolResult := followUp[2].Content[0].OfToolResult
	if toolResult == nil {
		t.Fatal("third message should contain a tool result block")
	}
	if toolResult.ToolUseID != "toolu_01" {
		t.Errorf("tool result references %q, expected toolu_01", toolResult.ToolUseID)
	}
	if got := toolResult.Content[0].OfText.Text; got != "84" {
		t.Errorf("tool result content = %q, expected 84", got)
	}

	// The transcript records the full run: user, assistant tool call,
	// tool result, final assistant answer.
	roles := make([]string, len(result.Messages))
	for i, msg := range result.Messages {
		roles[i] = msg.Role
	}
	expected := []string{"user", "assistant", "tool", "assistant"}
	if strings.Join(roles, ",") != strings.Join(expected, ",") {
		t.Errorf("transcript roles = %v, expected %v", roles, expected)
	}
	if calls := result.Messages[1].ToolCalls; len(calls) != 1 || calls[0].Name != "calculator" {
		t.Errorf("assistant message should record the calculator call, got %+v", calls)
	}
	if results := result.Messages[2].ToolResults; len(results) != 1 || results[0].Content != "84" {
		t.Errorf("tool message should record the result, got %+v", results)
	}
}

func TestRespondToolErrorReportedToModel(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.Message{
		toolUseMessage(t, "calculator", `{"expression": "1 / 0"}`),
		textMessage(t, "That expression divides by zero."),
	}}
	service := newTestService(client, CalculatorTool{})

	response, err := service.Respond(context.Background(), "What is 1 / 0?")
	if err != nil {
		t.Fatalf("tool failure should not abort the run: %v", err)
	}
	if response != "That expression divides by zero." {
		t.Errorf("unexpected response: %q", response)
	}

	toolResult := client.requests[1].Messages[2].Content[0].OfToolResult
	if got := toolResult.Content[0].OfText.Text; !strings.HasPrefix(got, "Error:") {
		t.Errorf("tool failure should be fed back as an error message, got %q", got)
	}
}

func TestRespondUnknownToolReportedToModel(t *testing.T) {
	client := &scriptedClient{responses: []*anthropic.Message{
		toolUseMessage(t, "time_machine", `{}`),
		textMessage(t, "I cannot do that."),
	}}
	service := newTestService(client, CalculatorTool{})

	if _, err := service.Respond(context.Background(), "Take me to 1955"); err != nil {
		t.Fatalf("unknown tool should not abort the run: %v", err)
	}

	toolResult := client.requests[1].Messages[2].Content[0].OfToolResult
	if got := toolResult.Content[0].OfText.Text; !strings.Contains(got, "time_machine not found") {
		t.Errorf("unexpected tool result content: %q", got)
	}
}

func TestRespondProviderError(t *testing.T) {
	client := &scriptedClient{err: errors.New("overloaded")}
	service := newTestService(client, CalculatorTool{})

	_, err := service.Respond(context.Background(), "Hi")
	if err == nil {
		t.Fatal("expected provider error to surface")
	}
	if !strings.Contains(err.Error(), "overloaded") {
		t.Errorf("error should wrap the provider failure, got: %v", err)
	}
}

func TestRespondIterationCap(t *testing.T) {
	// The fake keeps requesting tools forever; the loop must bail out.
	client := &scriptedClient{responses: []*anthropic.Message{
		toolUseMessage(t, "calculator", `{"expression": "1 + 1"}`),
	}}
	service := newTestService(client, CalculatorTool{})
	service.maxIterations = 3

	_, err := service.Respond(context.Background(), "Loop forever")
	if err == nil {
		t.Fatal("expected an error when the iteration cap is hit")
	}
	if !strings.Contains(err.Error(), "after 3 tool iterations") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(client.requests) != 3 {
		t.Errorf("expected 3 API calls, got %d", len(client.requests))
	}
}

func TestToolInfo(t *testing.T) {
	service := newTestService(&scriptedClient{}, CalculatorTool{}, DateTimeTool{})

	info := service.ToolInfo()
	if len(info) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(info))
	}
	if info[0].Name != "calculator" || info[0].Icon != "📊" {
		t.Errorf("unexpected calculator entry: %+v", info[0])
	}
	if info[1].Name != "datetime" || info[1].Icon != "📅" {
		t.Errorf("unexpected datetime entry: %+v", info[1])
	}
	if info[0].Description == "" || info[1].Description == "" {
		t.Error("tool descriptions must not be empty")
	}
}

func TestIconForUnknownTool(t *testing.T) {
	if got := iconFor("flux_capacitor"); got != defaultToolIcon {
		t.Errorf("iconFor(flux_capacitor) = %q, expected default icon", got)
	}
}
