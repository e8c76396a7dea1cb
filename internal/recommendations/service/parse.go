package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

const (
	defaultAuthor      = "Unknown author"
	defaultDescription = "A book picked from the themes of your journal."
	defaultReason      = "Recommended based on the themes in your recent entries."
)

// ParseBooks reads books out of a model completion. It accepts {"recommendations":[...]}, {"books":[...]},
// a bare array, or a single book object, and fills missing fields with defaults.
func ParseBooks(raw string) ([]domain.Book, error) {
	raw = stripFences(strings.TrimSpace(raw))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrMalformedOutput)
	}

	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	var items []any
	switch v := probe.(type) {
	case []any:
		items = v
	case map[string]any:
		items = unwrapObject(v)
		if items == nil {
			return nil, fmt.Errorf("%w: no recommendations in object", domain.ErrMalformedOutput)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected %T", domain.ErrMalformedOutput, probe)
	}

	books := make([]domain.Book, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		books = append(books, bookFrom(m))
	}
	return books, nil
}

func unwrapObject(v map[string]any) []any {
	for _, key := range []string{"recommendations", "books", "recommendation", "book"} {
		switch inner := v[key].(type) {
		case []any:
			return inner
		case map[string]any:
			return []any{inner}
		}
	}
	if _, ok := v["title"]; ok {
		return []any{v}
	}
	return nil
}

func bookFrom(m map[string]any) domain.Book {
	b := domain.Book{
		Title:       str(m, "title"),
		Author:      str(m, "author"),
		Description: str(m, "description"),
		Reason:      str(m, "reason"),
		Link:        str(m, "link"),
		Type:        domain.BookType,
	}
	if b.Link == "" {
		b.Link = str(m, "url")
	}

	if b.Author == "" {
		b.Author = defaultAuthor
	}
	if b.Description == "" {
		b.Description = defaultDescription
	}
	if b.Reason == "" {
		b.Reason = defaultReason
	}
	if !strings.HasPrefix(b.Link, "https://") && !strings.HasPrefix(b.Link, "http://") {
		b.Link = domain.OpenLibrarySearchURL(b.Title)
	}
	return b
}

func str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// NormalizeTitle folds case and whitespace for duplicate detection.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
