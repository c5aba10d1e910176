package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"santa-backend/internal/session"
)

// extractJSON strips markdown code fences some models wrap around JSON output.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func parseQuestions(raw string) ([]session.Question, error) {
	var resp struct {
		Questions []session.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("invalid questions response: %w", err)
	}

	questions := make([]session.Question, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("questions response contained no questions")
	}
	return questions, nil
}

func parseSuggestions(raw string) (Suggestions, error) {
	var resp Suggestions
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return Suggestions{}, fmt.Errorf("invalid suggestions response: %w", err)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return Suggestions{}, fmt.Errorf("suggestions response is missing a summary")
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []session.GiftItem{}
	}
	return resp, nil
}
