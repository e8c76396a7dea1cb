package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

func TestParseBooks_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		titles []string
	}{
		{"recommendations key", `{"recommendations":[{"title":"Walden"},{"title":"Dune"}]}`, []string{"Walden", "Dune"}},
		{"books key", `{"books":[{"title":"Walden"}]}`, []string{"Walden"}},
		{"single nested object", `{"recommendation":{"title":"Walden"}}`, []string{"Walden"}},
		{"bare array", `[{"title":"Walden"},"noise",{"title":"Dune"}]`, []string{"Walden", "Dune"}},
		{"bare book", `{"title":"Walden","author":"Thoreau"}`, []string{"Walden"}},
		{"fenced", "```json\n{\"books\":[{\"title\":\"Walden\"}]}\n```", []string{"Walden"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := ParseBooks(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.titles, titles(books))
		})
	}
}

func TestParseBooks_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `"just a string"`, `{"message":"nope"}`} {
		_, err := ParseBooks(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedOutput, raw)
	}
}

func TestParseBooks_Defaults(t *testing.T) {
	books, err := ParseBooks(`{"recommendations":[{"title":" The Snow Leopard ","link":"amazon"}]}`)
	require.NoError(t, err)
	require.Len(t, books, 1)

	b := books[0]
	assert.Equal(t, "The Snow Leopard", b.Title)
	assert.Equal(t, defaultAuthor, b.Author)
	assert.Equal(t, defaultDescription, b.Description)
	assert.Equal(t, defaultReason, b.Reason)
	assert.Equal(t, "https://openlibrary.org/search?q=The+Snow+Leopard", b.Link)
	assert.Equal(t, domain.BookType, b.Type)
}

func TestParseBooks_URLFallbackField(t *testing.T) {
	books, err := ParseBooks(`[{"title":"Walden","url":"https://example.org/walden"}]`)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/walden", books[0].Link)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "the snow leopard", NormalizeTitle("  The   Snow\tLEOPARD "))
	assert.Equal(t, "", NormalizeTitle("   "))
}
