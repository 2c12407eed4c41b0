package agent

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// AgentTool interface that all tools must implement
type AgentTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	GetAnthropicToolSpec() anthropic.ToolInputSchemaParam
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

// toolIcons maps tool names to the icon shown by the UI tool list.
var toolIcons = map[string]string{
	"calculator":       "📊",
	"web_search":       "🔍",
	"wikipedia":        "📚",
	"datetime":         "📅",
	"unit_converter":   "📐",
	"text_analyzer":    "📝",
	"text_transform":   "🔄",
	"random_generator": "🎲",
	"weather":          "🌤️",
}

const defaultToolIcon = "🔧"

func iconFor(name string) string {
	if icon, ok := toolIcons[name]; ok {
		return icon
	}
	return defaultToolIcon
}
