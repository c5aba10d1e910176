package generator

import (
	"context"
	"fmt"

	"santa-backend/internal/session"
)

// Static returns fixed content without calling any model. It exists for local
// development and demos and is only used when configured explicitly.
type Static struct{}

func (Static) GenerateQuestions(ctx context.Context, recipient string) ([]session.Question, error) {
	return []session.Question{
		{Question: fmt.Sprintf("What does your %s enjoy doing in their free time?", recipient), Placeholder: "e.g. hiking, painting, gaming"},
		{Question: fmt.Sprintf("What kind of music does your %s listen to?", recipient), Placeholder: "e.g. jazz, indie rock"},
		{Question: "Do they prefer practical gifts or sentimental ones?", Placeholder: "e.g. something they can use every day"},
		{Question: "Is there something they have mentioned wanting recently?", Placeholder: "e.g. a new drawing tablet"},
		{Question: "What is a favourite memory you share?", Placeholder: "e.g. our road trip last summer"},
	}, nil
}

func (Static) GenerateSuggestions(ctx context.Context, answers map[string]string, budget int) (Suggestions, error) {
	within := fmt.Sprintf("up to $%d", budget)
	return Suggestions{
		Summary: "Based on your responses, your recipient is creative, appreciates meaningful experiences and enjoys both practical and sentimental gifts. Here are some suggestions that fit your budget:",
		Suggestions: []session.GiftItem{
			{Emoji: "🎨", Title: "Digital drawing tablet", Description: "A quality tablet for sketching and digital art.", PriceRange: within, Category: "Tech"},
			{Emoji: "🎟️", Title: "Concert tickets", Description: "Tickets to see their favourite band on tour.", PriceRange: within, Category: "Experiences"},
			{Emoji: "📸", Title: "Custom photo album", Description: "An album of your shared memories.", PriceRange: within, Category: "Sentimental"},
			{Emoji: "💻", Title: "Creative software subscription", Description: "A year of their favourite creative tools.", PriceRange: within, Category: "Tech"},
		},
	}, nil
}
