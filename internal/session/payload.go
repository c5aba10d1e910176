package session

import (
	"encoding/json"
	"fmt"
)

type Question struct {
	Question    string `json:"question"`
	Placeholder string `json:"placeholder"`
}

type GiftItem struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceRange  string `json:"price_range"`
	Category    string `json:"category"`
}

// Payload is everything a single questionnaire round stores. A non-nil Summary
// marks the round as finished: results are served from it and never recomputed
// until the payload is reset.
type Payload struct {
	Answers     map[string]string `json:"answers"`
	Budget      *int              `json:"budget"`
	CurrentStep int               `json:"current_step"`
	Questions   []Question        `json:"questions"`
	Recipient   string            `json:"recipient"`
	Summary     *string           `json:"summary"`
	Suggestions []GiftItem        `json:"suggestions"`
}

func NewPayload() Payload {
	return Payload{
		Answers:     map[string]string{},
		CurrentStep: 1,
		Questions:   []Question{},
		Suggestions: []GiftItem{},
	}
}

func (p Payload) HasResults() bool {
	return p.Summary != nil && *p.Summary != ""
}

// StartRound clears answers and results for a new recipient, keeping nothing
// from the previous round.
func (p *Payload) StartRound(recipient string) {
	*p = NewPayload()
	p.Recipient = recipient
}

func (p *Payload) normalize() {
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	if p.Questions == nil {
		p.Questions = []Question{}
	}
	if p.Suggestions == nil {
		p.Suggestions = []GiftItem{}
	}
	if p.CurrentStep < 1 {
		p.CurrentStep = 1
	}
}

func encodePayload(p Payload) ([]byte, error) {
	p.normalize()
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("error encoding session payload: %w", err)
	}
	return data, nil
}

// decodePayload starts from the defaults so fields missing from older blobs
// keep their default values.
func decodePayload(data []byte) (Payload, error) {
	p := NewPayload()
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("error decoding session payload: %w", err)
	}
	p.normalize()
	return p, nil
}
