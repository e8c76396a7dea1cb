package service

import (
	"context"
	"errors"
	"fmt"

	contentdomain "github.com/lifelevels/journal-backend/internal/content/domain"
	"github.com/lifelevels/journal-backend/internal/levels"
	"github.com/lifelevels/journal-backend/internal/llm"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/metrics"
	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

type ContentLister interface {
	List(ctx context.Context, userID string) ([]contentdomain.Content, error)
}

type BatchStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Batch, error)
	Insert(ctx context.Context, b *domain.Batch) (*domain.Batch, error)
}

type Cache interface {
	Get(ctx context.Context, userID string, milestone int) ([]domain.Book, bool, error)
	Set(ctx context.Context, userID string, milestone int, books []domain.Book) error
}

type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (*llm.Completion, error)
}

type Options struct {
	BooksPerMilestone int
	Prompt            PromptLimits
}

// RecommendationService decides how many books a user is owed at their milestone and fills the gap.
type RecommendationService struct {
	contents ContentLister
	batches  BatchStore
	cache    Cache
	llm      Completer
	opts     Options
}

// NewRecommendationService wires the service. cache may be nil.
func NewRecommendationService(contents ContentLister, batches BatchStore, cache Cache, completer Completer, opts Options) *RecommendationService {
	if opts.BooksPerMilestone < 1 {
		opts.BooksPerMilestone = 1
	}
	return &RecommendationService{
		contents: contents,
		batches:  batches,
		cache:    cache,
		llm:      completer,
		opts:     opts,
	}
}

// Generate returns every book the user holds up to their current milestone, calling the model
// only when the milestone has no stored batch and the entitlement is not yet met.
// requestedCount > 0 caps the stored count used to pick the milestone.
func (s *RecommendationService) Generate(ctx context.Context, userID string, requestedCount int) (*domain.Result, error) {
	res, err := s.generate(ctx, userID, requestedCount)
	switch {
	case err == nil:
		metrics.ObserveRecommendation(res.Outcome)
	case !errors.Is(err, domain.ErrNoContent) && !errors.Is(err, domain.ErrBelowThreshold):
		metrics.ObserveRecommendation(metrics.OutcomeError)
	}
	return res, err
}

func (s *RecommendationService) generate(ctx context.Context, userID string, requestedCount int) (*domain.Result, error) {
	log := logging.Ctx(ctx).With().Str("user_id", userID).Logger()

	items, err := s.contents.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load contents: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoContent
	}

	count := len(items)
	if requestedCount > 0 && requestedCount < count {
		count = requestedCount
	}
	if !levels.Unlocked(count) {
		return nil, &domain.ThresholdError{Count: count, Remaining: levels.UnlockThreshold - count}
	}
	milestone := levels.Milestone(count)

	if books, ok := s.cached(ctx, userID, milestone); ok {
		return &domain.Result{Books: books, Milestone: milestone, Outcome: domain.OutcomeCacheHit}, nil
	}

	batches, err := s.batches.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recommendations: %w", err)
	}
	held := booksUpTo(batches, milestone)

	if hasMilestone(batches, milestone) {
		s.store(ctx, userID, milestone, held)
		return &domain.Result{Books: held, Milestone: milestone, Outcome: domain.OutcomeStored}, nil
	}

	previous, previousTitles := titleSet(batches)
	entitlement := levels.Entitlement(milestone, s.opts.BooksPerMilestone)
	need := entitlement - len(previous)
	if need <= 0 {
		// batches above this milestone can exist after deletions or a lower contentCount
		books := firstDistinct(batches, entitlement)
		s.store(ctx, userID, milestone, books)
		return &domain.Result{Books: books, Milestone: milestone, Outcome: domain.OutcomeStored}, nil
	}

	completion, err := s.llm.Complete(ctx, BuildPrompt(items, previousTitles, need, s.opts.Prompt))
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	parsed, perr := ParseBooks(completion.Content)
	fresh := dedupe(parsed, previous, need)
	if perr != nil || len(fresh) == 0 {
		log.Warn().Err(perr).Int("milestone", milestone).Int("parsed", len(parsed)).Msg("unusable model output, serving placeholder")
		return &domain.Result{Books: withPlaceholder(held, previous), Milestone: milestone, Outcome: domain.OutcomeFallback}, nil
	}

	stored, err := s.batches.Insert(ctx, &domain.Batch{
		UserID:    userID,
		Milestone: milestone,
		Books:     fresh,
		Model:     completion.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("save recommendations: %w", err)
	}
	metrics.RecommendedBooks.Add(float64(len(stored.Books)))

	books := append(held, stored.Books...)
	s.store(ctx, userID, milestone, books)

	log.Info().Int("milestone", milestone).Int("new_books", len(stored.Books)).Str("model", stored.Model).Msg("recommendations generated")
	return &domain.Result{Books: books, Milestone: milestone, Outcome: domain.OutcomeGenerated}, nil
}

// List returns all stored batches, oldest milestone first.
func (s *RecommendationService) List(ctx context.Context, userID string) ([]domain.Batch, error) {
	return s.batches.ListByUser(ctx, userID)
}

func (s *RecommendationService) cached(ctx context.Context, userID string, milestone int) ([]domain.Book, bool) {
	if s.cache == nil {
		return nil, false
	}
	books, ok, err := s.cache.Get(ctx, userID, milestone)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("recommendation cache read")
		return nil, false
	}
	return books, ok
}

func (s *RecommendationService) store(ctx context.Context, userID string, milestone int, books []domain.Book) {
	if s.cache == nil || len(books) == 0 {
		return
	}
	if err := s.cache.Set(ctx, userID, milestone, books); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("recommendation cache write")
	}
}

func booksUpTo(batches []domain.Batch, milestone int) []domain.Book {
	out := []domain.Book{}
	for _, b := range batches {
		if b.Milestone <= milestone {
			out = append(out, b.Books...)
		}
	}
	return out
}

// firstDistinct returns up to limit books with distinct titles, oldest milestone first.
func firstDistinct(batches []domain.Batch, limit int) []domain.Book {
	seen := map[string]struct{}{}
	out := []domain.Book{}
	for _, b := range batches {
		for _, book := range b.Books {
			if len(out) == limit {
				return out
			}
			key := NormalizeTitle(book.Title)
			if _, dup := seen[key]; dup || key == "" {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, book)
		}
	}
	return out
}

func hasMilestone(batches []domain.Batch, milestone int) bool {
	for _, b := range batches {
		if b.Milestone == milestone {
			return true
		}
	}
	return false
}

// titleSet returns the normalized titles over all batches and the distinct originals in order.
func titleSet(batches []domain.Batch) (map[string]struct{}, []string) {
	set := map[string]struct{}{}
	var titles []string
	for _, b := range batches {
		for _, book := range b.Books {
			key := NormalizeTitle(book.Title)
			if key == "" {
				continue
			}
			if _, dup := set[key]; dup {
				continue
			}
			set[key] = struct{}{}
			titles = append(titles, book.Title)
		}
	}
	return set, titles
}

// dedupe drops empty titles, titles already held and repeats, keeping at most limit books.
func dedupe(books []domain.Book, previous map[string]struct{}, limit int) []domain.Book {
	seen := map[string]struct{}{}
	out := make([]domain.Book, 0, limit)
	for _, b := range books {
		if len(out) == limit {
			break
		}
		key := NormalizeTitle(b.Title)
		if key == "" {
			continue
		}
		if _, held := previous[key]; held {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}

func withPlaceholder(held []domain.Book, previous map[string]struct{}) []domain.Book {
	p := domain.Placeholder()
	if _, ok := previous[NormalizeTitle(p.Title)]; ok {
		return held
	}
	return append(held, p)
}
