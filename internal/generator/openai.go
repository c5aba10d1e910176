package generator

import (
	"context"
	"fmt"
	"log/slog"

	"santa-backend/internal/session"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAI struct {
	client openai.Client
	model  string
	temp   float64
}

// NewOpenAI builds a client for the chat completions API. An empty baseURL uses
// the default OpenAI endpoint. Requests are not retried; failures surface to
// the caller.
func NewOpenAI(apiKey, baseURL, model string, temp float64) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
		temp:   temp,
	}
}

func responseFormat(name, description string, schema map[string]interface{}) openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(description),
				Schema:      schema,
				Strict:      openai.Bool(true),
			},
		},
	}
}

func (o *OpenAI) generate(ctx context.Context, systemPrompt, prompt string, format openai.ChatCompletionNewParamsResponseFormatUnion) (string, error) {
	chatOpts := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:          o.model,
		Temperature:    openai.Float(o.temp),
		ResponseFormat: format,
	}

	res, err := o.client.Chat.Completions.New(ctx, chatOpts)
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai generation returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}

func (o *OpenAI) GenerateQuestions(ctx context.Context, recipient string) ([]session.Question, error) {
	raw, err := o.generate(ctx, questionSystemPrompt, questionPrompt(recipient),
		responseFormat("gift_questions", "Questions about a gift recipient", questionsSchema))
	if err != nil {
		return nil, err
	}
	return parseQuestions(raw)
}

func (o *OpenAI) GenerateSuggestions(ctx context.Context, answers map[string]string, budget int) (Suggestions, error) {
	raw, err := o.generate(ctx, suggestionSystemPrompt, suggestionPrompt(answers, budget),
		responseFormat("gift_suggestions", "Gift suggestions with a recipient summary", suggestionsSchema))
	if err != nil {
		return Suggestions{}, err
	}
	return parseSuggestions(raw)
}
