package generator

import (
	"fmt"
	"sort"
	"strings"
)

const questionSystemPrompt = `You help people pick thoughtful gifts. You write short, friendly questionnaires
that uncover a gift recipient's personality, hobbies and tastes. Respond only with JSON.`

const questionPromptTemplate = `Write between 5 and 8 questions to ask someone who is buying a gift for their %s.
Each question must be specific to that relationship and paired with a short example answer
to show as a placeholder in the form.

Respond with JSON of the form:
{"questions": [{"question": "...", "placeholder": "..."}]}`

const suggestionSystemPrompt = `You are a gift recommendation assistant. Given a questionnaire about a gift
recipient and a budget, you summarise the recipient and suggest gifts that fit both. Respond only with JSON.`

const suggestionPromptTemplate = `Here are the answers from the questionnaire:
%s
The budget is %d.

Write a short summary (2-3 sentences) of the recipient's personality and interests, then suggest
between 4 and 6 gifts that cost no more than the budget. Every gift needs an emoji, a title,
a one sentence description, an approximate price range and a category.

Respond with JSON of the form:
{"summary": "...", "suggestions": [{"emoji": "...", "title": "...", "description": "...", "price_range": "...", "category": "..."}]}`

func questionPrompt(recipient string) string {
	return fmt.Sprintf(questionPromptTemplate, recipient)
}

func suggestionPrompt(answers map[string]string, budget int) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if strings.TrimSpace(answers[k]) == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", k, answers[k])
	}
	if b.Len() == 0 {
		b.WriteString("- (no answers given)\n")
	}

	return fmt.Sprintf(suggestionPromptTemplate, b.String(), budget)
}

var questionsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"questions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"question":    map[string]interface{}{"type": "string"},
					"placeholder": map[string]interface{}{"type": "string"},
				},
				"required":             []string{"question", "placeholder"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"questions"},
	"additionalProperties": false,
}

var suggestionsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{"type": "string"},
		"suggestions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"emoji":       map[string]interface{}{"type": "string"},
					"title":       map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"price_range": map[string]interface{}{"type": "string"},
					"category":    map[string]interface{}{"type": "string"},
				},
				"required":             []string{"emoji", "title", "description", "price_range", "category"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"summary", "suggestions"},
	"additionalProperties": false,
}
