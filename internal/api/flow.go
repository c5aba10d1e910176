package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"santa-backend/internal/generator"
	"santa-backend/internal/session"
	"santa-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultGenerateTimeout = 50 * time.Second
	maxConcurrentSessions  = 10000
)

var errNoSession = CodedErrorf(http.StatusBadRequest, "no active session")

type FlowOptions struct {
	// MaxQuestions caps the generated question set. Zero keeps every question.
	MaxQuestions    int
	CookieMaxAge    time.Duration
	GenerateTimeout time.Duration
	EnableListing   bool
}

// FlowService drives a questionnaire round: it serves questions, saves partial
// and final answers, and computes suggestions once per round.
type FlowService struct {
	sessions  *session.Manager
	generator generator.Generator
	renderer  *Renderer
	locks     *session.LockMap
	opts      FlowOptions
}

func NewFlowService(sessions *session.Manager, gen generator.Generator, renderer *Renderer, opts FlowOptions) *FlowService {
	if opts.CookieMaxAge <= 0 {
		opts.CookieMaxAge = session.DefaultMaxAge
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = defaultGenerateTimeout
	}

	return &FlowService{
		sessions:  sessions,
		generator: gen,
		renderer:  renderer,
		locks:     session.NewLockMap(maxConcurrentSessions),
		opts:      opts,
	}
}

func (s *FlowService) AddRoutes(r chi.Router) {
	r.Get("/up", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/", PageHandler(s.renderer, s.Landing))
	r.Get("/questions", PageHandler(s.renderer, s.Questions))
	r.Post("/autosave", RestHandler(s.Autosave))
	r.Post("/submit", PageHandler(s.renderer, s.Submit))
	r.Get("/results", PageHandler(s.renderer, s.Results))
	r.Post("/reset", PageHandler(s.renderer, s.Reset))

	if s.opts.EnableListing {
		r.Get("/sessions", RestHandler(s.ListSessions))
	}
}

func (s *FlowService) lockSession(id uuid.UUID) (func(), error) {
	if id == uuid.Nil {
		return func() {}, nil
	}
	unlock, err := s.locks.Lock(id)
	if err != nil {
		return nil, CodedError(http.StatusServiceUnavailable, err)
	}
	return unlock, nil
}

// loadExisting returns the payload of a session the client already holds.
func (s *FlowService) loadExisting(ctx context.Context, id uuid.UUID) (session.Payload, error) {
	payload, err := s.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return payload, errNoSession
	}
	if err != nil {
		return payload, CodedErrorf(http.StatusInternalServerError, "unable to load session: %w", err)
	}
	return payload, nil
}

func (s *FlowService) save(ctx context.Context, id uuid.UUID, payload session.Payload) error {
	if err := s.sessions.Update(ctx, id, payload); err != nil {
		return CodedErrorf(http.StatusInternalServerError, "unable to save session: %w", err)
	}
	return nil
}

func (s *FlowService) Landing(w http.ResponseWriter, r *http.Request) (Page, error) {
	return RenderPage("index.html", nil), nil
}

type questionsQuery struct {
	Recipient string `schema:"recipient,required"`
}

func (s *FlowService) Questions(w http.ResponseWriter, r *http.Request) (Page, error) {
	params, err := ParseRequestQueryParams[questionsQuery](r)
	if err != nil {
		return Page{}, err
	}
	recipient := strings.TrimSpace(params.Recipient)
	if recipient == "" {
		return Page{}, CodedErrorf(http.StatusBadRequest, "recipient is required")
	}

	unlock, err := s.lockSession(session.ReadID(r))
	if err != nil {
		return Page{}, err
	}
	defer unlock()

	ctx := r.Context()
	id, payload, err := s.sessions.GetOrCreate(ctx, session.ReadID(r))
	if err != nil {
		return Page{}, CodedErrorf(http.StatusInternalServerError, "unable to load session: %w", err)
	}
	session.WriteID(w, id, s.opts.CookieMaxAge)

	if len(payload.Questions) == 0 || payload.Recipient != recipient {
		if payload.Recipient != recipient {
			payload.StartRound(recipient)
		}

		questions, err := s.generateQuestions(ctx, recipient)
		if err != nil {
			return Page{}, err
		}
		payload.Questions = questions

		if err := s.save(ctx, id, payload); err != nil {
			return Page{}, err
		}
		slog.Info("generated questions", "session_id", id, "recipient", recipient, "count", len(questions))
	}

	return RenderPage("questions.html", newQuestionsView(payload)), nil
}

func (s *FlowService) generateQuestions(ctx context.Context, recipient string) ([]session.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.GenerateTimeout)
	defer cancel()

	questions, err := s.generator.GenerateQuestions(ctx, recipient)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, fmt.Errorf("unable to generate questions: %w", err))
	}

	if s.opts.MaxQuestions > 0 && len(questions) > s.opts.MaxQuestions {
		questions = questions[:s.opts.MaxQuestions]
	}
	return questions, nil
}

func (s *FlowService) Autosave(w http.ResponseWriter, r *http.Request) (any, error) {
	id := session.ReadID(r)
	if id == uuid.Nil {
		return nil, errNoSession
	}

	fields, err := ParseRequest[map[string]any](w, r)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockSession(id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx := r.Context()
	payload, err := s.loadExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	applyAutosave(&payload, splitFields(stringifyFields(fields)))

	if err := s.save(ctx, id, payload); err != nil {
		return nil, err
	}
	session.WriteID(w, id, s.opts.CookieMaxAge)

	return api.AutosaveResponse{Status: "success"}, nil
}

func (s *FlowService) Submit(w http.ResponseWriter, r *http.Request) (Page, error) {
	id := session.ReadID(r)
	if id == uuid.Nil {
		return Page{}, errNoSession
	}

	if err := r.ParseForm(); err != nil {
		slog.Error("error parsing form", "error", err)
		return Page{}, CodedErrorf(http.StatusBadRequest, "unable to parse request form")
	}
	bag := splitFields(firstValues(r.PostForm))

	unlock, err := s.lockSession(id)
	if err != nil {
		return Page{}, err
	}
	defer unlock()

	ctx := r.Context()
	payload, err := s.loadExisting(ctx, id)
	if err != nil {
		return Page{}, err
	}

	budget, err := submitBudget(r.PostForm, payload.Budget)
	if err != nil {
		return Page{}, err
	}

	payload.Answers = bag.answers
	payload.Budget = budget

	if err := s.save(ctx, id, payload); err != nil {
		return Page{}, err
	}
	session.WriteID(w, id, s.opts.CookieMaxAge)

	return RedirectPage("/results"), nil
}

func (s *FlowService) Results(w http.ResponseWriter, r *http.Request) (Page, error) {
	id := session.ReadID(r)
	if id == uuid.Nil {
		return RedirectPage("/"), nil
	}

	unlock, err := s.lockSession(id)
	if err != nil {
		return Page{}, err
	}
	defer unlock()

	ctx := r.Context()
	payload, err := s.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return RedirectPage("/"), nil
	}
	if err != nil {
		return Page{}, CodedErrorf(http.StatusInternalServerError, "unable to load session: %w", err)
	}

	if !payload.HasResults() {
		if payload.Budget == nil {
			// Nothing was submitted yet for this round.
			return RedirectPage(resumeLocation(payload)), nil
		}

		if err := s.computeSuggestions(ctx, &payload); err != nil {
			return Page{}, err
		}
		if err := s.save(ctx, id, payload); err != nil {
			return Page{}, err
		}
		slog.Info("generated gift suggestions", "session_id", id, "count", len(payload.Suggestions))
	}
	session.WriteID(w, id, s.opts.CookieMaxAge)

	return RenderPage("results.html", newResultsView(payload)), nil
}

func (s *FlowService) computeSuggestions(ctx context.Context, payload *session.Payload) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.GenerateTimeout)
	defer cancel()

	result, err := s.generator.GenerateSuggestions(ctx, labelAnswers(payload.Questions, payload.Answers), *payload.Budget)
	if err != nil {
		return CodedError(http.StatusInternalServerError, fmt.Errorf("unable to generate gift suggestions: %w", err))
	}

	summary := result.Summary
	payload.Summary = &summary
	payload.Suggestions = result.Suggestions
	if payload.Suggestions == nil {
		payload.Suggestions = []session.GiftItem{}
	}
	return nil
}

func resumeLocation(payload session.Payload) string {
	if payload.Recipient == "" {
		return "/"
	}
	return "/questions?recipient=" + url.QueryEscape(payload.Recipient)
}

// Reset clears the round for the session the client holds. Unknown ids are
// left alone.
func (s *FlowService) Reset(w http.ResponseWriter, r *http.Request) (Page, error) {
	id := session.ReadID(r)
	if id == uuid.Nil {
		return RedirectPage("/"), nil
	}

	unlock, err := s.lockSession(id)
	if err != nil {
		return Page{}, err
	}
	defer unlock()

	ctx := r.Context()
	if _, err := s.sessions.Get(ctx, id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return RedirectPage("/"), nil
		}
		return Page{}, CodedErrorf(http.StatusInternalServerError, "unable to load session: %w", err)
	}

	if err := s.sessions.Reset(ctx, id); err != nil {
		return Page{}, CodedErrorf(http.StatusInternalServerError, "unable to reset session: %w", err)
	}
	session.WriteID(w, id, s.opts.CookieMaxAge)

	return RedirectPage("/"), nil
}

func (s *FlowService) ListSessions(w http.ResponseWriter, r *http.Request) (any, error) {
	entries, err := s.sessions.List(r.Context())
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "unable to list sessions: %w", err)
	}

	listings := make([]api.SessionListing, 0, len(entries))
	for _, e := range entries {
		listing := api.SessionListing{Id: e.Id, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
		if e.Err != nil {
			listing.Error = e.Err.Error()
		} else {
			listing.Data = e.Payload
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
