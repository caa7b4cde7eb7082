// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"jobbot/models"
)

type GeminiExtractor struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

func NewGeminiExtractor(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiExtractor{client: client, modelName: model, logger: logger}, nil
}

func (g *GeminiExtractor) Close() error { return g.client.Close() }

func (g *GeminiExtractor) Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(buildSystemPrompt(req.State, req.Booking)))
	model.Tools = []*genai.Tool{geminiBookingTool()}
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(200)

	cs := model.StartChat()
	for _, h := range req.History {
		role := "user"
		if h.Role == models.RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(h.Content)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(req.Text))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	result := &models.ExtractionResult{}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.FunctionCall:
			if p.Name == bookingFunctionName && result.Fields == nil {
				result.Fields = stringify(p.Args)
			}
		}
	}
	result.Reply = strings.TrimSpace(sb.String())
	return result, nil
}

func geminiBookingTool() *genai.Tool {
	props := make(map[string]*genai.Schema, len(bookingFields))
	for _, f := range bookingFields {
		props[f.Name] = &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        bookingFunctionName,
			Description: bookingFunctionDescription,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: props},
		}},
	}
}
