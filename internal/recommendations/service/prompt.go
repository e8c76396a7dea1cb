package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	contentdomain "github.com/lifelevels/journal-backend/internal/content/domain"
	"github.com/lifelevels/journal-backend/internal/llm"
)

const systemPrompt = `You are a book recommendation expert. Analyze the user's journal content and recommend %s that would be most meaningful to them.
For each book, provide:
1. Title
2. Author
3. Brief description
4. Specific reason why this book would be meaningful to the user, based on their content
5. A link where the book can be found

Format the response as a JSON object:
{"recommendations": [{"title": string, "author": string, "description": string, "reason": string, "link": string, "type": "book"}]}`

// PromptLimits bounds how much journal text goes into one prompt.
type PromptLimits struct {
	MaxItems     int
	MaxItemChars int
}

// BuildPrompt renders the chat messages asking for need books. items are expected newest first.
func BuildPrompt(items []contentdomain.Content, avoid []string, need int, limits PromptLimits) []llm.Message {
	what := "ONE book"
	if need > 1 {
		what = fmt.Sprintf("exactly %d different books", need)
	}
	system := fmt.Sprintf(systemPrompt, what)
	if len(avoid) > 0 {
		system += "\n\nThe user has already been recommended these books. Do not recommend any of them again:\n- " +
			strings.Join(avoid, "\n- ")
	}

	if limits.MaxItems > 0 && len(items) > limits.MaxItems {
		items = items[:limits.MaxItems]
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Type == contentdomain.TypeDiary {
			parts = append(parts, fmt.Sprintf("Diary Entry: %s\n%s", it.Title, clip(it.URL, limits.MaxItemChars)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s\n%s", it.Type, it.Title, clip(it.Description, limits.MaxItemChars)))
	}

	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: "Here is the user's content to analyze:\n\n" + strings.Join(parts, "\n\n")},
	}
}

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
