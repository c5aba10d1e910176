package generator

import (
	"context"

	"santa-backend/internal/session"
)

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, recipient string) ([]session.Question, error)
}

type Suggestions struct {
	Summary     string             `json:"summary"`
	Suggestions []session.GiftItem `json:"suggestions"`
}

type SuggestionGenerator interface {
	GenerateSuggestions(ctx context.Context, answers map[string]string, budget int) (Suggestions, error)
}

type Generator interface {
	QuestionGenerator
	SuggestionGenerator
}

const (
	ProviderOpenAI    = "openai"
	ProviderLangChain = "langchain"
	ProviderStatic    = "static"
)
