package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"santa-backend/internal/session"
)

const (
	budgetField      = "budget"
	currentStepField = "current_step"
)

// fieldBag is a questionnaire form split into its reserved numeric fields and
// the free text answers, which are every other key.
type fieldBag struct {
	answers map[string]string

	budget    string
	hasBudget bool

	currentStep    string
	hasCurrentStep bool
}

func splitFields(fields map[string]string) fieldBag {
	bag := fieldBag{answers: make(map[string]string, len(fields))}
	for key, value := range fields {
		switch key {
		case budgetField:
			bag.budget, bag.hasBudget = value, true
		case currentStepField:
			bag.currentStep, bag.hasCurrentStep = value, true
		default:
			bag.answers[key] = value
		}
	}
	return bag
}

// stringifyFields flattens a decoded JSON object into string values. Numbers
// and booleans are formatted, nulls become empty strings.
func stringifyFields(raw map[string]any) map[string]string {
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case float64:
			fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			fields[key] = strconv.FormatBool(v)
		case nil:
			fields[key] = ""
		default:
			fields[key] = fmt.Sprint(v)
		}
	}
	return fields
}

func firstValues(values map[string][]string) map[string]string {
	fields := make(map[string]string, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			fields[key] = vs[0]
		}
	}
	return fields
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// applyAutosave merges an autosave into the payload. Answers are replaced
// wholesale; budget and step only change when they parse.
func applyAutosave(payload *session.Payload, bag fieldBag) {
	payload.Answers = bag.answers

	if bag.hasBudget {
		if budget, err := parseInt(bag.budget); err == nil && budget >= 0 {
			payload.Budget = &budget
		}
	}

	if bag.hasCurrentStep {
		if step, err := parseInt(bag.currentStep); err == nil && step >= 1 {
			payload.CurrentStep = step
		}
	}
}

// submitBudget resolves the budget for a final submit. A missing or blank
// field falls back to the saved budget. Anything else must be a single
// non-negative whole number.
func submitBudget(form url.Values, saved *int) (*int, error) {
	values := form[budgetField]
	if len(values) > 1 {
		return nil, CodedErrorf(http.StatusBadRequest, "budget must be given exactly once")
	}

	raw := ""
	if len(values) == 1 {
		raw = strings.TrimSpace(values[0])
	}
	if raw == "" {
		if saved == nil {
			return nil, CodedErrorf(http.StatusBadRequest, "budget is required")
		}
		return saved, nil
	}

	budget, err := parseInt(raw)
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "budget must be a whole number")
	}
	if budget < 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "budget must not be negative")
	}
	return &budget, nil
}

func questionKey(index int) string {
	return fmt.Sprintf("q%d", index+1)
}

// labelAnswers rekeys answers from form keys (q1, q2, ...) to the question
// text they answer so the suggestion prompt reads naturally. Keys that do not
// match a question are passed through unchanged.
func labelAnswers(questions []session.Question, answers map[string]string) map[string]string {
	labels := make(map[string]string, len(questions))
	for i, q := range questions {
		labels[questionKey(i)] = q.Question
	}

	labeled := make(map[string]string, len(answers))
	for key, answer := range answers {
		label, ok := labels[key]
		if !ok || label == "" {
			label = key
		}
		if _, taken := labeled[label]; taken {
			label = key
		}
		labeled[label] = answer
	}
	return labeled
}
