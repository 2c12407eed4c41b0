package models

type ChatMessage struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// ChatStep is one intermediate message of an agent run, exposed by the
// steps endpoint so clients can render the agent's reasoning trail.
type ChatStep struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Tool    string `json:"tool,omitempty"`
}

type ChatStepsResponse struct {
	Response  string     `json:"response"`
	Steps     []ChatStep `json:"steps"`
	Timestamp string     `json:"timestamp"`
}

// ChatResult is the orchestrator's view of a completed run: the final
// answer plus the full message transcript it was derived from.
type ChatResult struct {
	Response string        `json:"response"`
	Messages []ChatMessage `json:"messages"`
}

// ToolInfo describes a registered tool for UI display.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
