package api

import (
	"strconv"

	"santa-backend/internal/session"
)

type questionItem struct {
	Key         string
	Question    string
	Placeholder string
	Answer      string
}

type questionsView struct {
	Recipient    string
	Questions    []questionItem
	SavedAnswers map[string]string
	SavedBudget  *int
	BudgetValue  string
	CurrentStep  int
	TotalSteps   int
}

func newQuestionsView(payload session.Payload) questionsView {
	items := make([]questionItem, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		key := questionKey(i)
		items = append(items, questionItem{
			Key:         key,
			Question:    q.Question,
			Placeholder: q.Placeholder,
			Answer:      payload.Answers[key],
		})
	}

	step := payload.CurrentStep
	// One step per question plus the budget step.
	total := len(items) + 1
	if step > total {
		step = total
	}

	budgetValue := ""
	if payload.Budget != nil {
		budgetValue = strconv.Itoa(*payload.Budget)
	}

	return questionsView{
		Recipient:    payload.Recipient,
		Questions:    items,
		SavedAnswers: payload.Answers,
		SavedBudget:  payload.Budget,
		BudgetValue:  budgetValue,
		CurrentStep:  step,
		TotalSteps:   total,
	}
}

type resultsView struct {
	Recipient   string
	Budget      int
	Summary     string
	Suggestions []session.GiftItem
}

func newResultsView(payload session.Payload) resultsView {
	view := resultsView{
		Recipient:   payload.Recipient,
		Suggestions: payload.Suggestions,
	}
	if payload.Budget != nil {
		view.Budget = *payload.Budget
	}
	if payload.Summary != nil {
		view.Summary = *payload.Summary
	}
	return view
}
