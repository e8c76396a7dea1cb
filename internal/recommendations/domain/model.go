package domain

import (
	"net/url"
	"time"
)

const BookType = "book"

// Book is one recommendation returned to the client.
type Book struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Link        string `json:"link"`
	Type        string `json:"type"`
}

// Batch is the set of books stored for one user at one milestone. Batches are never mutated.
type Batch struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Milestone int       `json:"milestone"`
	Books     []Book    `json:"books"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateRequest is the body of POST /recommendations.
type GenerateRequest struct {
	UserID       string `json:"userId"`
	ContentCount int    `json:"contentCount" binding:"gte=0"`
}

// Outcome of a Generate call.
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeStored    = "stored"
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
)

type Result struct {
	Books     []Book
	Milestone int
	Outcome   string
}

// OpenLibrarySearchURL links to a title search when the model gives no usable link.
func OpenLibrarySearchURL(title string) string {
	return "https://openlibrary.org/search?q=" + url.QueryEscape(title)
}

// Placeholder is served when the model output cannot be used. It is never persisted.
func Placeholder() Book {
	const title = "Man's Search for Meaning"
	return Book{
		Title:       title,
		Author:      "Viktor E. Frankl",
		Description: "A psychiatrist's account of surviving the Nazi camps and the search for purpose that carried him through.",
		Reason:      "A timeless read for anyone reflecting on their own experiences and what gives them meaning.",
		Link:        OpenLibrarySearchURL(title),
		Type:        BookType,
	}
}
