package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Generation limits for ModeTurns.
const (
	turnsMaxOutputTokens = 500
	turnsTemperature     = 0.7
)

// Missing is the Generator used when no API key is configured.
type Missing struct{}

func (Missing) Generate(context.Context, Request) (string, error) {
	return "", ErrMissingKey
}

// Gemini generates replies with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGenerator returns a Gemini generator for apiKey, or Missing when the
// key is empty.
func NewGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Missing{}, nil
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: create client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends req to the model and returns the reply text.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	var (
		contents []*genai.Content
		config   *genai.GenerateContentConfig
	)
	switch req.Mode {
	case ModeTurns:
		contents = turns(req.History)
		contents = append(contents, userContent(req.Prompt))
		config = &genai.GenerateContentConfig{
			MaxOutputTokens: turnsMaxOutputTokens,
			Temperature:     genai.Ptr[float32](turnsTemperature),
		}
	default:
		contents = []*genai.Content{userContent(req.Prompt)}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("chat: generate: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("chat: prompt %w (%s)", ErrSafety, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("chat: reply %w", ErrSafety)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrNoReply
	}
	return text, nil
}

func userContent(text string) *genai.Content {
	return &genai.Content{Role: "user", Parts: []*genai.Part{{Text: text}}}
}

// turns converts the log to model turns. The service requires the first
// turn to come from the user, so leading assistant messages (the greeting)
// are skipped.
func turns(history []Message) []*genai.Content {
	var out []*genai.Content
	for _, m := range history {
		role := "user"
		if m.Role == RoleAssistant {
			if len(out) == 0 {
				continue
			}
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	return out
}
