package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider calls Gemini with a native response schema.
type GeminiProvider struct {
	client   *genai.Client
	model    string
	limiter  *rate.Limiter
	newModel func(schema *genai.Schema) contentGenerator
}

// NewGeminiProvider creates a Gemini-backed provider. A nil limiter disables pacing.
func NewGeminiProvider(ctx context.Context, apiKey, model string, limiter *rate.Limiter) (*GeminiProvider, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	p := &GeminiProvider{client: client, model: model, limiter: limiter}
	p.newModel = func(schema *genai.Schema) contentGenerator {
		m := client.GenerativeModel(model)
		m.ResponseMIMEType = "application/json"
		m.ResponseSchema = schema
		return m
	}
	return p, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", NewProviderError(p.Name(), ErrProviderUnavailable, err)
		}
	}

	responseSchema, err := ToGeminiSchema(schema)
	if err != nil {
		return "", NewProviderError(p.Name(), ErrProviderUnavailable, err)
	}

	resp, err := p.newModel(responseSchema).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", NewProviderError(p.Name(), ErrProviderUnavailable, err)
	}

	text := geminiResponseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", NewProviderError(p.Name(), ErrEmptyResponse, nil)
	}
	return text, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func geminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// ToGeminiSchema converts a JSON Schema map into Gemini's schema type.
// Keywords Gemini has no equivalent for, such as additionalProperties, are dropped.
func ToGeminiSchema(schema map[string]any) (*genai.Schema, error) {
	typeName, _ := schema["type"].(string)
	t, ok := geminiTypes[typeName]
	if !ok {
		return nil, fmt.Errorf("unsupported schema type %q", typeName)
	}

	out := &genai.Schema{Type: t}
	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}
	out.Enum = stringList(schema["enum"])
	out.Required = stringList(schema["required"])

	if items, ok := schema["items"].(map[string]any); ok {
		converted, err := ToGeminiSchema(items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = converted
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			prop, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %s: not an object", name)
			}
			converted, err := ToGeminiSchema(prop)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			out.Properties[name] = converted
		}
	}
	return out, nil
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
