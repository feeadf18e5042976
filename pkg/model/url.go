package model

import "time"

// URL is a shortened link as listed by GET /api/v1/urls.
// The client never mutates it; the backend owns its lifecycle.
type URL struct {
	ID          int       `json:"id"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	UserID      *int      `json:"user_id,omitempty"`
	Clicks      int       `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MinifyRequest is the body of POST /api/v1/minify.
// UserID attributes the link to a user; nil submits anonymously.
type MinifyRequest struct {
	URL    string `json:"url"`
	UserID *int   `json:"user_id,omitempty"`
}

// MinifyResponse is returned for a newly shortened URL.
type MinifyResponse struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
}
