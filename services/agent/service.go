package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"chatagent/config"
	"chatagent/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/samber/lo"
)

// messagesClient is the slice of the Anthropic client the orchestrator
// depends on. Tests substitute it with a scripted fake.
type messagesClient interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type Service struct {
	messages      messagesClient
	tools         []AgentTool
	model         anthropic.Model
	temperature   float64
	maxIterations int
	verbose       bool
}

func NewService(cfg *config.Config) (*Service, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not configured")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	searchTool, err := NewSearchTool(cfg.SerpAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search tool: %w", err)
	}

	tools := []AgentTool{
		CalculatorTool{},
		searchTool,
		NewWikipediaTool(),
		DateTimeTool{},
		NewUnitConverterTool(),
		TextAnalyzerTool{},
		TextTransformTool{},
		RandomGeneratorTool{},
		NewWeatherTool(),
	}

	return &Service{
		messages:      &client.Messages,
		tools:         tools,
		model:         anthropic.Model(cfg.Model),
		temperature:   cfg.Temperature,
		maxIterations: cfg.MaxIterations,
		verbose:       cfg.Verbose,
	}, nil
}

// ToolInfo lists the registered tools for UI display.
func (s *Service) ToolInfo() []models.ToolInfo {
	return lo.Map(s.tools, func(tool AgentTool, _ int) models.ToolInfo {
		return models.ToolInfo{
			Name:        tool.Name(),
			Description: tool.Description(),
			Icon:        iconFor(tool.Name()),
		}
	})
}

// Respond answers a single user message, invoking tools as needed.
func (s *Service) Respond(ctx context.Context, message string) (string, error) {
	result, err := s.RespondWithSteps(ctx, message)
	if err != nil {
		return "", err
	}
	return result.Response, nil
}

// RespondWithSteps answers a single user message and returns the full
// transcript of the run, including tool calls and their results.
//
// Each round trip sends the transcript plus tool specs to the model. When
// the model requests tools, their results are appended as tool messages and
// the model is queried again. Tool failures are reported back to the model
// as result text so it can recover; only provider failures abort the run.
func (s *Service) RespondWithSteps(ctx context.Context, message string) (*models.ChatResult, error) {
	log.Printf("[INFO] Starting agent run")

	transcript := []models.ChatMessage{{Role: "user", Content: message}}
	toolSpecs := s.buildAnthropicToolSpecs()

	for iteration := 0; iteration < s.maxIterations; iteration++ {
		params := anthropic.MessageNewParams{
			Model:     s.model,
			MaxTokens: 4096,
			System:    []anthropic.TextBlockParam{{Text: AgentSystemPrompt}},
			Messages:  s.convertToAnthropicMessages(transcript),
			Tools:     toolSpecs,
		}
		if s.temperature > 0 {
			params.Temperature = anthropic.Float(s.temperature)
		}

		s.logAnthropicRequest(iteration, params)

		response, err := s.messages.New(ctx, params)
		if err != nil {
			log.Printf("[ERROR] Failed to call Anthropic API: %v", err)
			return nil, fmt.Errorf("failed to call Anthropic API: %w", err)
		}

		s.logAnthropicResponse(iteration, response)

		toolUses := []anthropic.ToolUseBlock{}
		assistantContent := ""

		for _, block := range response.Content {
			switch block := block.AsAny().(type) {
			case anthropic.TextBlock:
				assistantContent += block.Text
			case anthropic.ToolUseBlock:
				toolUses = append(toolUses, block)
			}
		}

		assistantMsg := models.ChatMessage{
			Role:    "assistant",
			Content: assistantContent,
		}

		for _, toolUse := range toolUses {
			inputJSON, _ := json.Marshal(toolUse.Input)
			var inputMap map[string]interface{}
			json.Unmarshal(inputJSON, &inputMap)

			assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, models.ToolCall{
				ID:        toolUse.ID,
				Name:      toolUse.Name,
				Arguments: inputMap,
			})
		}

		transcript = append(transcript, assistantMsg)

		if len(toolUses) == 0 {
			log.Printf("[INFO] Agent run completed after %d iteration(s)", iteration+1)
			return &models.ChatResult{
				Response: assistantContent,
				Messages: transcript,
			}, nil
		}

		for _, toolUse := range toolUses {
			log.Printf("[INFO] Executing tool: %s", toolUse.Name)

			inputJSON, _ := json.Marshal(toolUse.Input)

			result, err := s.executeTool(ctx, toolUse.Name, string(inputJSON))
			if err != nil {
				log.Printf("[ERROR] Tool execution failed: %v", err)
				result = fmt.Sprintf("Error: %v", err)
			} else if s.verbose {
				log.Printf("[INFO] Tool execution result: %s", result)
			}

			transcript = append(transcript, models.ChatMessage{
				Role: "tool",
				ToolResults: []models.ToolResult{
					{
						ToolCallID: toolUse.ID,
						Content:    result,
					},
				},
			})
		}
	}

	log.Printf("[ERROR] Agent run exceeded %d tool iterations", s.maxIterations)
	return nil, fmt.Errorf("no final answer after %d tool iterations", s.maxIterations)
}

func (s *Service) convertToAnthropicMessages(messages []models.ChatMessage) []anthropic.MessageParam {
	var anthropicMessages []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case "assistant":
			contentBlocks := []anthropic.ContentBlockParamUnion{}

			if msg.Content != "" {
				contentBlocks = append(contentBlocks, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: msg.Content},
				})
			}

			for _, toolCall := range msg.ToolCalls {
				contentBlocks = append(contentBlocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    toolCall.ID,
						Name:  toolCall.Name,
						Input: toolCall.Arguments,
					},
				})
			}

			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(contentBlocks...))
		case "tool":
			// Tool results travel back to the API as user messages.
			toolResultBlocks := []anthropic.ContentBlockParamUnion{}
			for _, result := range msg.ToolResults {
				toolResultBlocks = append(toolResultBlocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: result.ToolCallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: result.Content}},
						},
					},
				})
			}
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(toolResultBlocks...))
		}
	}

	return anthropicMessages
}

func (s *Service) buildAnthropicToolSpecs() []anthropic.ToolUnionParam {
	var toolSpecs []anthropic.ToolUnionParam

	for _, tool := range s.tools {
		toolSpecs = append(toolSpecs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name(),
				Description: anthropic.String(tool.Description()),
				InputSchema: tool.GetAnthropicToolSpec(),
			},
		})
	}

	return toolSpecs
}

func (s *Service) executeTool(ctx context.Context, toolName, arguments string) (string, error) {
	for _, tool := range s.tools {
		if tool.Name() == toolName {
			return tool.Call(ctx, arguments)
		}
	}
	return "", fmt.Errorf("tool %s not found", toolName)
}

func (s *Service) logAnthropicRequest(iteration int, params anthropic.MessageNewParams) {
	if !s.verbose {
		return
	}

	log.Printf("[INFO] ========== Anthropic Request (iteration %d) ==========", iteration)
	log.Printf("[INFO] Model: %s", params.Model)
	log.Printf("[INFO] Messages (%d total):", len(params.Messages))
	for i, msg := range params.Messages {
		log.Printf("[INFO]   [%d] Role: %s", i, msg.Role)
	}
	log.Printf("[INFO] Available Tools (%d total):", len(params.Tools))
	for i, tool := range params.Tools {
		if tool.OfTool != nil {
			log.Printf("[INFO]   [%d] Name: %s", i, tool.OfTool.Name)
		}
	}
	log.Printf("[INFO] ====================================================")
}

func (s *Service) logAnthropicResponse(iteration int, response *anthropic.Message) {
	if !s.verbose {
		return
	}

	log.Printf("[INFO] ========== Anthropic Response (iteration %d) ==========", iteration)
	log.Printf("[INFO] StopReason: %s", response.StopReason)
	log.Printf("[INFO] Content blocks (%d total):", len(response.Content))
	for i, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			log.Printf("[INFO]   [%d] Text: %s", i, block.Text)
		case anthropic.ToolUseBlock:
			log.Printf("[INFO]   [%d] Tool Use: ID=%s, Name=%s, Input=%v", i, block.ID, block.Name, block.Input)
		}
	}
	log.Printf("[INFO] =====================================================")
}
