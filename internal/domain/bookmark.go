package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Bookmark representa un marcador guardado por un usuario.
// Las columnas en la tabla bookmarks son {id, user_id, title, url, created_at}.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrBookmarkFieldsRequired = errors.New("Title and URL are required")
	ErrBookmarkURLInvalid     = errors.New("Please enter a valid URL (include https://)")
)

// ValidateBookmarkInput normaliza y valida titulo y URL antes de tocar la red.
// La URL debe ser absoluta http(s); "example.com" sin esquema se rechaza aca.
func ValidateBookmarkInput(title, rawURL string) (string, string, error) {
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)
	if title == "" || rawURL == "" {
		return title, rawURL, ErrBookmarkFieldsRequired
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return title, rawURL, ErrBookmarkURLInvalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return title, rawURL, ErrBookmarkURLInvalid
	}
	return title, rawURL, nil
}
