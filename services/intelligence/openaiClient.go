// File: services/intelligence/openaiClient.go
package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"jobbot/models"
)

type OpenAIExtractor struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIExtractor accepts extra request options so tests can point it at
// a local server.
func NewOpenAIExtractor(apiKey, model string, logger *zap.Logger, opts ...oaioption.RequestOption) *OpenAIExtractor {
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	opts = append([]oaioption.RequestOption{oaioption.WithAPIKey(apiKey)}, opts...)
	return &OpenAIExtractor{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

func (o *OpenAIExtractor) Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(buildSystemPrompt(req.State, req.Booking)),
	}
	for _, h := range req.History {
		if h.Role == models.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(h.Content))
		} else {
			messages = append(messages, openai.UserMessage(h.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Text))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Tools:       []openai.ChatCompletionToolParam{bookingTool()},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(200),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	msg := resp.Choices[0].Message
	result := &models.ExtractionResult{Reply: msg.Content}
	for _, call := range msg.ToolCalls {
		if call.Function.Name != bookingFunctionName {
			continue
		}
		fields, err := parseArguments(call.Function.Arguments)
		if err != nil {
			o.logger.Warn("Ignoring malformed tool call", zap.String("arguments", call.Function.Arguments), zap.Error(err))
			continue
		}
		result.Fields = fields
		break
	}
	return result, nil
}

func bookingTool() openai.ChatCompletionToolParam {
	props := make(map[string]any, len(bookingFields))
	for _, f := range bookingFields {
		props[f.Name] = map[string]any{
			"type":        "string",
			"description": f.Description,
		}
	}
	return openai.ChatCompletionToolParam{
		Function: shared.FunctionDefinitionParam{
			Name:        bookingFunctionName,
			Description: openai.String(bookingFunctionDescription),
			Parameters: shared.FunctionParameters{
				"type":       "object",
				"properties": props,
			},
		},
	}
}
