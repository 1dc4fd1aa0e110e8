package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mimeType string
		expected string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"text/plain; charset=utf-8", ".txt"},
		{"application/x-unknown-thing", ".bin"},
		{"", ".bin"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtensionFor(tt.mimeType), tt.mimeType)
	}
}

func TestIsImage(t *testing.T) {
	t.Parallel()

	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage(" image/svg+xml; charset=utf-8"))
	assert.False(t, IsImage("text/plain; charset=utf-8"))
	assert.False(t, IsImage("application/octet-stream"))
}
