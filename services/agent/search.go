package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/tools/duckduckgo"
	"github.com/tmc/langchaingo/tools/serpapi"
)

const searchUserAgent = "chatagent/1.0"

type SearchToolInput struct {
	Query string `json:"query" jsonschema:"required,description=A natural language search query. Example: bitcoin price today"`
}

// SearchTool wraps a web search backend. SerpAPI is preferred when a key is
// configured; DuckDuckGo serves as the keyless fallback.
type SearchTool struct {
	backend tools.Tool
	engine  string
}

func NewSearchTool(serpAPIKey string) (*SearchTool, error) {
	if serpAPIKey != "" {
		backend, err := serpapi.New(serpapi.WithAPIKey(serpAPIKey))
		if err == nil {
			return &SearchTool{backend: backend, engine: "SerpAPI"}, nil
		}
		log.Printf("[ERROR] Failed to initialize SerpAPI, falling back to DuckDuckGo: %v", err)
	}

	backend, err := duckduckgo.New(5, searchUserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DuckDuckGo search: %w", err)
	}
	return &SearchTool{backend: backend, engine: "DuckDuckGo"}, nil
}

func (t *SearchTool) Name() string {
	return "web_search"
}

func (t *SearchTool) Description() string {
	return "Searches the internet for current information: recent news, prices, quotes and ongoing events"
}

// Engine reports which search backend is active.
func (t *SearchTool) Engine() string {
	return t.engine
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	var params SearchToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse search tool input: %v", err)
	}

	query := strings.TrimSpace(params.Query)
	if query == "" {
		return "", fmt.Errorf("search query cannot be empty")
	}

	result, err := t.backend.Call(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%s search failed: %v", t.engine, err)
	}

	if strings.TrimSpace(result) == "" {
		return "No results found.", nil
	}
	return result, nil
}

func (t *SearchTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[SearchToolInput]()
}
