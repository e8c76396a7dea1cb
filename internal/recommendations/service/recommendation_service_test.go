package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentdomain "github.com/lifelevels/journal-backend/internal/content/domain"
	"github.com/lifelevels/journal-backend/internal/llm"
	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

type fakeContents struct{ items []contentdomain.Content }

func (f *fakeContents) List(context.Context, string) ([]contentdomain.Content, error) {
	return f.items, nil
}

type fakeBatches struct {
	batches   []domain.Batch
	inserted  int
	conflicts map[int][]domain.Book
}

func (f *fakeBatches) ListByUser(context.Context, string) ([]domain.Batch, error) {
	return append([]domain.Batch(nil), f.batches...), nil
}

func (f *fakeBatches) Insert(_ context.Context, b *domain.Batch) (*domain.Batch, error) {
	if books, ok := f.conflicts[b.Milestone]; ok {
		return &domain.Batch{UserID: b.UserID, Milestone: b.Milestone, Books: books}, nil
	}
	f.inserted++
	f.batches = append(f.batches, *b)
	return b, nil
}

type fakeCache map[string][]domain.Book

func (f fakeCache) Get(_ context.Context, userID string, milestone int) ([]domain.Book, bool, error) {
	b, ok := f[fmt.Sprintf("%s:%d", userID, milestone)]
	return b, ok, nil
}

func (f fakeCache) Set(_ context.Context, userID string, milestone int, books []domain.Book) error {
	f[fmt.Sprintf("%s:%d", userID, milestone)] = books
	return nil
}

type fakeLLM struct {
	replies []string
	err     error
	calls   int
	last    []llm.Message
}

func (f *fakeLLM) Complete(_ context.Context, msgs []llm.Message) (*llm.Completion, error) {
	f.calls++
	f.last = msgs
	if f.err != nil {
		return nil, f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return &llm.Completion{Content: reply, Model: "gpt-test"}, nil
}

func diaryItems(n int) []contentdomain.Content {
	items := make([]contentdomain.Content, n)
	for i := range items {
		items[i] = contentdomain.Content{
			ID:    fmt.Sprintf("c%d", i),
			Title: fmt.Sprintf("Entry %d", n-i),
			Type:  contentdomain.TypeDiary,
			URL:   "Went hiking and thought about solitude",
		}
	}
	return items
}

func batch(milestone int, titles ...string) domain.Batch {
	b := domain.Batch{UserID: "u1", Milestone: milestone}
	for _, t := range titles {
		b.Books = append(b.Books, domain.Book{Title: t, Author: "A", Type: domain.BookType})
	}
	return b
}

func reply(titles ...string) string {
	parts := make([]string, 0, len(titles))
	for _, t := range titles {
		parts = append(parts, fmt.Sprintf(`{"title":%q,"author":"Someone","description":"d","reason":"r","link":"https://books.example/%d"}`, t, len(t)))
	}
	return `{"recommendations":[` + strings.Join(parts, ",") + `]}`
}

func newService(items int, batches *fakeBatches, cache Cache, model *fakeLLM, perMilestone int) *RecommendationService {
	return NewRecommendationService(&fakeContents{items: diaryItems(items)}, batches, cache, model, Options{
		BooksPerMilestone: perMilestone,
		Prompt:            PromptLimits{MaxItems: 50, MaxItemChars: 1000},
	})
}

func TestGenerate_Gating(t *testing.T) {
	ctx := context.Background()

	t.Run("no content", func(t *testing.T) {
		svc := newService(0, &fakeBatches{}, nil, &fakeLLM{}, 1)
		_, err := svc.Generate(ctx, "u1", 0)
		assert.ErrorIs(t, err, domain.ErrNoContent)
	})

	t.Run("below threshold", func(t *testing.T) {
		svc := newService(7, &fakeBatches{}, nil, &fakeLLM{}, 1)
		_, err := svc.Generate(ctx, "u1", 0)
		require.ErrorIs(t, err, domain.ErrBelowThreshold)

		var te *domain.ThresholdError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, 3, te.Remaining)
	})

	t.Run("requested count caps stored count", func(t *testing.T) {
		model := &fakeLLM{}
		svc := newService(15, &fakeBatches{}, nil, model, 1)
		_, err := svc.Generate(ctx, "u1", 9)
		assert.ErrorIs(t, err, domain.ErrBelowThreshold)
		assert.Zero(t, model.calls)
	})

	t.Run("requested count above stored count is ignored", func(t *testing.T) {
		model := &fakeLLM{replies: []string{reply("Walden")}}
		svc := newService(12, &fakeBatches{}, nil, model, 1)
		res, err := svc.Generate(ctx, "u1", 40)
		require.NoError(t, err)
		assert.Equal(t, 10, res.Milestone)
	})
}

func TestGenerate_FirstMilestone(t *testing.T) {
	ctx := context.Background()
	batches := &fakeBatches{}
	cache := fakeCache{}
	model := &fakeLLM{replies: []string{reply("Walden", "Into the Wild")}}
	svc := newService(12, batches, cache, model, 1)

	res, err := svc.Generate(ctx, "u1", 12)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeGenerated, res.Outcome)
	require.Len(t, res.Books, 1)
	assert.Equal(t, "Walden", res.Books[0].Title)
	assert.Equal(t, 1, batches.inserted)
	assert.Equal(t, "gpt-test", batches.batches[0].Model)

	require.Len(t, model.last, 2)
	assert.Contains(t, model.last[0].Content, "ONE book")
	assert.Contains(t, model.last[1].Content, "Diary Entry: Entry 12\nWent hiking")

	res, err = svc.Generate(ctx, "u1", 12)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCacheHit, res.Outcome)
	assert.Equal(t, 1, model.calls)
}

func TestGenerate_StoredMilestoneSkipsModel(t *testing.T) {
	model := &fakeLLM{}
	batches := &fakeBatches{batches: []domain.Batch{batch(10, "Walden"), batch(20, "Siddhartha")}}
	svc := newService(25, batches, nil, model, 1)

	res, err := svc.Generate(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStored, res.Outcome)
	assert.Equal(t, []string{"Walden", "Siddhartha"}, titles(res.Books))
	assert.Zero(t, model.calls)

	res, err = svc.Generate(context.Background(), "u1", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"Walden"}, titles(res.Books))
}

func TestGenerate_NextMilestoneAvoidsPreviousTitles(t *testing.T) {
	batches := &fakeBatches{batches: []domain.Batch{batch(10, "Walden")}}
	model := &fakeLLM{replies: []string{reply("  WALDEN ", "The Snow Leopard", "The Snow  Leopard")}}
	svc := newService(23, batches, nil, model, 1)

	res, err := svc.Generate(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Milestone)
	assert.Equal(t, []string{"Walden", "The Snow Leopard"}, titles(res.Books))
	assert.Contains(t, model.last[0].Content, "Do not recommend any of them again:\n- Walden")
	require.Len(t, batches.batches, 2)
	assert.Equal(t, 20, batches.batches[1].Milestone)
}

func TestGenerate_EntitlementScalesWithBooksPerMilestone(t *testing.T) {
	batches := &fakeBatches{}
	model := &fakeLLM{replies: []string{reply("A", "B", "C")}}
	svc := newService(31, batches, nil, model, 2)

	res, err := svc.Generate(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Contains(t, model.last[0].Content, "exactly 6 different books")
	assert.Equal(t, []string{"A", "B", "C"}, titles(res.Books))
}

func TestGenerate_EntitlementAlreadyMet(t *testing.T) {
	model := &fakeLLM{}
	batches := &fakeBatches{batches: []domain.Batch{batch(10, "Walden", "Dune")}}
	svc := newService(21, batches, nil, model, 1)

	res, err := svc.Generate(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStored, res.Outcome)
	assert.Len(t, res.Books, 2)
	assert.Zero(t, model.calls)
}

func TestGenerate_LowerMilestoneServesHeldBooks(t *testing.T) {
	model := &fakeLLM{}
	cache := fakeCache{}
	batches := &fakeBatches{batches: []domain.Batch{batch(20, "Walden", "Dune")}}
	svc := newService(25, batches, cache, model, 1)

	res, err := svc.Generate(context.Background(), "u1", 12)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Milestone)
	assert.Equal(t, domain.OutcomeStored, res.Outcome)
	assert.Equal(t, []string{"Walden"}, titles(res.Books))
	assert.Zero(t, model.calls)
	assert.Equal(t, []string{"Walden"}, titles(cache["u1:10"]))
}

func TestGenerate_EmptyResultIsNotCached(t *testing.T) {
	cache := fakeCache{}
	batches := &fakeBatches{batches: []domain.Batch{{UserID: "u1", Milestone: 10}}}
	svc := newService(12, batches, cache, &fakeLLM{}, 1)

	res, err := svc.Generate(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, res.Books)
	assert.Empty(t, cache)
}

func TestGenerate_Fallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed output", func(t *testing.T) {
		batches := &fakeBatches{batches: []domain.Batch{batch(10, "Walden")}}
		cache := fakeCache{}
		svc := newService(20, batches, cache, &fakeLLM{replies: []string{"Sorry, I can't help with that."}}, 1)

		res, err := svc.Generate(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeFallback, res.Outcome)
		assert.Equal(t, []string{"Walden", domain.Placeholder().Title}, titles(res.Books))
		assert.Zero(t, batches.inserted)
		assert.Empty(t, cache)
	})

	t.Run("only duplicates", func(t *testing.T) {
		batches := &fakeBatches{batches: []domain.Batch{batch(10, "Walden")}}
		svc := newService(20, batches, nil, &fakeLLM{replies: []string{reply("walden")}}, 1)

		res, err := svc.Generate(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeFallback, res.Outcome)
		assert.Len(t, res.Books, 2)
	})

	t.Run("placeholder already held", func(t *testing.T) {
		batches := &fakeBatches{batches: []domain.Batch{batch(10, "Man's Search for Meaning")}}
		svc := newService(20, batches, nil, &fakeLLM{replies: []string{`{}`}}, 1)

		res, err := svc.Generate(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Man's Search for Meaning"}, titles(res.Books))
	})

	t.Run("model error surfaces", func(t *testing.T) {
		svc := newService(10, &fakeBatches{}, nil, &fakeLLM{err: errors.New("upstream down")}, 1)
		_, err := svc.Generate(ctx, "u1", 0)
		assert.ErrorContains(t, err, "upstream down")
	})
}

func TestGenerate_ConcurrentInsertReturnsStoredRow(t *testing.T) {
	batches := &fakeBatches{conflicts: map[int][]domain.Book{10: {{Title: "Dune", Type: domain.BookType}}}}
	svc := newService(10, batches, nil, &fakeLLM{replies: []string{reply("Walden")}}, 1)

	res, err := svc.Generate(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(res.Books))
}

func titles(books []domain.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
