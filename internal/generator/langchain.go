package generator

import (
	"context"
	"fmt"
	"log/slog"

	"santa-backend/internal/session"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChain talks to an OpenAI compatible endpoint through langchaingo, using
// JSON mode instead of strict schemas.
type LangChain struct {
	llm  *openai.LLM
	temp float64
}

func NewLangChain(apiKey, baseURL, model string, temp float64) (*LangChain, error) {
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create OpenAI client: %w", err)
	}
	return &LangChain{llm: client, temp: temp}, nil
}

func (l *LangChain) generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := l.llm.GenerateContent(ctx, messages, llms.WithJSONMode(), llms.WithTemperature(l.temp))
	if err != nil {
		slog.Error("error calling OpenAI API", "error", err)
		return "", fmt.Errorf("langchain generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("langchain generation returned no choices")
	}

	return resp.Choices[0].Content, nil
}

func (l *LangChain) GenerateQuestions(ctx context.Context, recipient string) ([]session.Question, error) {
	raw, err := l.generate(ctx, questionSystemPrompt, questionPrompt(recipient))
	if err != nil {
		return nil, err
	}
	return parseQuestions(raw)
}

func (l *LangChain) GenerateSuggestions(ctx context.Context, answers map[string]string, budget int) (Suggestions, error) {
	raw, err := l.generate(ctx, suggestionSystemPrompt, suggestionPrompt(answers, budget))
	if err != nil {
		return Suggestions{}, err
	}
	return parseSuggestions(raw)
}
