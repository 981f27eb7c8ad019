package domain

import (
	"errors"
	"testing"
)

func TestValidateBookmarkInput(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		url     string
		wantErr error
	}{
		{
			name:  "valid https url",
			title: "Example",
			url:   "https://example.com",
		},
		{
			name:  "valid http url",
			title: "Example",
			url:   "http://example.com/path?q=1",
		},
		{
			name:    "empty title",
			title:   "   ",
			url:     "https://example.com",
			wantErr: ErrBookmarkFieldsRequired,
		},
		{
			name:    "empty url",
			title:   "Example",
			url:     "",
			wantErr: ErrBookmarkFieldsRequired,
		},
		{
			name:    "missing scheme",
			title:   "Example",
			url:     "example.com",
			wantErr: ErrBookmarkURLInvalid,
		},
		{
			name:    "relative url",
			title:   "Example",
			url:     "/path/only",
			wantErr: ErrBookmarkURLInvalid,
		},
		{
			name:    "unsupported scheme",
			title:   "Example",
			url:     "ftp://example.com",
			wantErr: ErrBookmarkURLInvalid,
		},
		{
			name:    "scheme without host",
			title:   "Example",
			url:     "https://",
			wantErr: ErrBookmarkURLInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateBookmarkInput(tt.title, tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateBookmarkInputTrimsValues(t *testing.T) {
	title, url, err := ValidateBookmarkInput("  Example  ", "  https://example.com  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Example" {
		t.Fatalf("expected trimmed title got %q", title)
	}
	if url != "https://example.com" {
		t.Fatalf("expected trimmed url got %q", url)
	}
}

func TestValidateBookmarkInputSchemeMessage(t *testing.T) {
	_, _, err := ValidateBookmarkInput("Example", "example.com")
	if err == nil || err.Error() != "Please enter a valid URL (include https://)" {
		t.Fatalf("expected scheme hint message got %v", err)
	}
}
