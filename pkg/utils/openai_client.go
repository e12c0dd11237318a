package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAITemperature = 0.4

	openAISystemPrompt = "You are a helpful wellness assistant for HealWise. Always reply with pure JSON matching the provided schema. Do not wrap the JSON in markdown or explanatory text."
)

// OpenAIProvider has no native schema-constrained output here, so the schema travels in the prompt.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	limiter     *rate.Limiter
}

// NewOpenAIProvider builds a chat-completions provider. baseURL overrides the API endpoint when set.
func NewOpenAIProvider(apiKey, model, baseURL string, temperature float32, limiter *rate.Limiter) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		limiter:     limiter,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", NewProviderError(p.Name(), ErrProviderUnavailable, err)
		}
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return "", NewProviderError(p.Name(), ErrProviderUnavailable, fmt.Errorf("encode schema: %w", err))
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt + "\n\nSchema to follow:\n" + string(schemaJSON)},
		},
	})
	if err != nil {
		return "", NewProviderError(p.Name(), ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", NewProviderError(p.Name(), ErrEmptyResponse, nil)
	}

	msg := resp.Choices[0].Message
	text := msg.Content
	if text == "" {
		var b strings.Builder
		for _, part := range msg.MultiContent {
			b.WriteString(part.Text)
		}
		text = b.String()
	}
	if strings.TrimSpace(text) == "" {
		return "", NewProviderError(p.Name(), ErrEmptyResponse, nil)
	}
	return text, nil
}
