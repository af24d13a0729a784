package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"chemebot/internal/ai"
	"chemebot/internal/cache"
	"chemebot/internal/classifier"
	"chemebot/internal/model"
	"chemebot/internal/postprocess"
	"chemebot/internal/prompt"
)

var (
	ErrQuestionEmpty    = errors.New("question is empty")
	ErrQuestionTooShort = errors.New("question is too short")
	ErrQuestionTooLong  = errors.New("question is too long")
	ErrGeneration       = errors.New("answer generation failed")
)

const (
	minQuestionLen = 3
	maxQuestionLen = 1000

	// Upper bound on a shared cache-fill run: the search and
	// generation budgets plus slack.
	sharedFillTimeout = 45 * time.Second
)

type SearchRetriever interface {
	Search(ctx context.Context, query string, max int) ([]model.SearchResult, error)
}

type Generator interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
	StreamComplete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, onChunk func(string) error) (string, error)
}

type InteractionPublisher interface {
	Publish(ctx context.Context, interaction model.Interaction) error
}

type AnswerCache interface {
	Get(ctx context.Context, key string) (*model.Answer, bool, error)
	Set(ctx context.Context, key string, answer model.Answer) error
}

type AskInput struct {
	Question  string
	WebSearch bool
}

// AnswerService runs the question pipeline: classify, retrieve,
// assemble, generate, post-process. Retrieval failures degrade the
// answer to sourceless; generation failures surface as ErrGeneration.
type AnswerService struct {
	retriever  SearchRetriever
	generator  Generator
	publisher  InteractionPublisher
	cache      AnswerCache
	llm        ai.ChatConfig
	maxResults int
	logger     *zap.Logger

	sf singleflight.Group
}

func NewAnswerService(
	retriever SearchRetriever,
	generator Generator,
	publisher InteractionPublisher,
	answerCache AnswerCache,
	llm ai.ChatConfig,
	maxResults int,
	logger *zap.Logger,
) *AnswerService {
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerService{
		retriever:  retriever,
		generator:  generator,
		publisher:  publisher,
		cache:      answerCache,
		llm:        llm,
		maxResults: maxResults,
		logger:     logger,
	}
}

// AnswerQuestion is the sole synchronous entry point. With caching
// enabled, concurrent identical questions share one computation per
// cache key.
func (s *AnswerService) AnswerQuestion(ctx context.Context, input AskInput) (*model.Answer, error) {
	question, err := validateQuestion(input.Question)
	if err != nil {
		return nil, err
	}
	category := classifier.Classify(question)

	var answer *model.Answer
	if s.cache != nil {
		key := cache.Key(question, category, input.WebSearch)
		v, sfErr, _ := s.sf.Do(key, func() (interface{}, error) {
			// Followers share this computation, so it runs on its own
			// deadline instead of the leader's context. A leader that
			// aborts mid-flight must not fail everyone behind it.
			fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFillTimeout)
			defer cancel()

			if cached, hit, cacheErr := s.cache.Get(fillCtx, key); cacheErr == nil && hit {
				return cached, nil
			}
			fresh, answerErr := s.answer(fillCtx, question, category, input.WebSearch)
			if answerErr != nil {
				return nil, answerErr
			}
			if setErr := s.cache.Set(fillCtx, key, *fresh); setErr != nil {
				s.logger.Warn("cache answer failed", zap.Error(setErr))
			}
			return fresh, nil
		})
		if sfErr != nil {
			return nil, sfErr
		}
		answer = v.(*model.Answer)
	} else {
		answer, err = s.answer(ctx, question, category, input.WebSearch)
		if err != nil {
			return nil, err
		}
	}

	s.publishInteraction(ctx, question, answer)
	return answer, nil
}

// StreamAnswer forwards generation chunks as they arrive and returns
// the post-processed answer once the stream completes. Streamed
// responses bypass the cache; chunk timing is part of the contract.
func (s *AnswerService) StreamAnswer(ctx context.Context, input AskInput, onChunk func(string) error) (*model.Answer, error) {
	question, err := validateQuestion(input.Question)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	category := classifier.Classify(question)
	results := s.retrieve(ctx, question, input.WebSearch)

	promptText := prompt.Build(category, question, results)
	raw, err := s.generator.StreamComplete(ctx, s.llm, []ai.ChatMessage{{Role: "user", Content: promptText}}, onChunk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	answer := s.finish(raw, category, question, results, start)
	s.publishInteraction(ctx, question, answer)
	return answer, nil
}

func (s *AnswerService) answer(ctx context.Context, question string, category model.Category, webSearch bool) (*model.Answer, error) {
	start := time.Now()
	results := s.retrieve(ctx, question, webSearch)

	promptText := prompt.Build(category, question, results)
	raw, err := s.generator.Complete(ctx, s.llm, []ai.ChatMessage{{Role: "user", Content: promptText}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return s.finish(raw, category, question, results, start), nil
}

// retrieve returns nil on any retrieval failure so the pipeline keeps
// going without web augmentation.
func (s *AnswerService) retrieve(ctx context.Context, question string, webSearch bool) []model.SearchResult {
	if !webSearch || s.retriever == nil {
		return nil
	}
	results, err := s.retriever.Search(ctx, question, s.maxResults)
	if err != nil {
		s.logger.Warn("search degraded, answering without sources",
			zap.String("question", truncate(question, 64)),
			zap.Error(err))
		return nil
	}
	return results
}

func (s *AnswerService) finish(raw string, category model.Category, question string, results []model.SearchResult, start time.Time) *model.Answer {
	answer := postprocess.Process(raw, category, results)
	answer.RelatedTopics = RelatedTopics(question)
	answer.ProcessingMS = time.Since(start).Milliseconds()
	return &answer
}

func (s *AnswerService) publishInteraction(ctx context.Context, question string, answer *model.Answer) {
	if s.publisher == nil {
		return
	}
	interaction := model.Interaction{
		Question:     truncate(question, 128),
		Category:     string(answer.Category),
		WebEnhanced:  answer.WebEnhanced,
		SourceCount:  len(answer.Sources),
		ProcessingMS: answer.ProcessingMS,
		CreatedAt:    time.Now(),
	}
	if err := s.publisher.Publish(ctx, interaction); err != nil {
		s.logger.Warn("publish interaction failed", zap.Error(err))
	}
}

func validateQuestion(raw string) (string, error) {
	question := strings.TrimSpace(raw)
	switch {
	case question == "":
		return "", ErrQuestionEmpty
	case len(question) < minQuestionLen:
		return "", ErrQuestionTooShort
	case len(question) > maxQuestionLen:
		return "", ErrQuestionTooLong
	}
	return question, nil
}

// truncate cuts on a rune boundary so multi-byte characters are
// never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
