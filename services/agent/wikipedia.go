package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tmc/langchaingo/tools/wikipedia"
)

type WikipediaToolInput struct {
	Query string `json:"query" jsonschema:"required,description=The topic or term to look up. Example: Albert Einstein"`
}

type WikipediaTool struct {
	client wikipedia.Tool
}

func NewWikipediaTool() WikipediaTool {
	return WikipediaTool{client: wikipedia.New(searchUserAgent)}
}

func (t WikipediaTool) Name() string {
	return "wikipedia"
}

func (t WikipediaTool) Description() string {
	return "Looks up encyclopedic information: biographies, history, scientific concepts and detailed definitions"
}

func (t WikipediaTool) Call(ctx context.Context, input string) (string, error) {
	var params WikipediaToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse wikipedia tool input: %v", err)
	}

	query := strings.TrimSpace(params.Query)
	if query == "" {
		return "", fmt.Errorf("wikipedia query cannot be empty")
	}

	result, err := t.client.Call(ctx, query)
	if err != nil {
		return "", fmt.Errorf("wikipedia lookup failed: %v", err)
	}

	if strings.TrimSpace(result) == "" {
		return fmt.Sprintf("No Wikipedia article found for %q.", query), nil
	}
	return result, nil
}

func (t WikipediaTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[WikipediaToolInput]()
}
