package domain

import (
	"io"
	"time"
)

// Content types
const (
	TypeDiary = "diary"
	TypeImage = "image"
	TypeVideo = "video"
)

// Content is one journal item. URL holds the diary text for diaries and the public object URL for uploads.
type Content struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsUpload reports whether the type carries a file.
func IsUpload(contentType string) bool {
	return contentType == TypeImage || contentType == TypeVideo
}

// CreateContentRequest represents data needed to create a content item
type CreateContentRequest struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Type        string  `json:"type" validate:"required,oneof=diary image video"`
	Body        string  `json:"body" validate:"max=20000"`
	Description string  `json:"description" validate:"max=2000"`
	File        *Upload `json:"-"`
}

// Upload is a file attached to an image or video item.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// AllowedMediaTypes lists the MIME types accepted per upload type.
var AllowedMediaTypes = map[string][]string{
	TypeImage: {"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
	TypeVideo: {"video/mp4", "video/webm", "video/quicktime"},
}
