package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	g := NewURLGenerator("https://site/files/")

	tests := []struct {
		uri  string
		want string
	}{
		{"public://bg.png", "https://site/files/bg.png"},
		{"public://2024/05/bg image.png", "https://site/files/2024/05/bg%20image.png"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
	}
	for _, tt := range tests {
		got, err := g.PublicURL(tt.uri)
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, got, tt.uri)
	}
}

func TestPublicURLErrors(t *testing.T) {
	g := NewURLGenerator("/files")

	_, err := g.PublicURL("private://secret.png")
	assert.True(t, errors.Is(err, ErrUnsupportedScheme))

	_, err = g.PublicURL("public://")
	assert.Error(t, err)

	_, err = g.PublicURL("public://../etc/passwd")
	assert.Error(t, err)
}

func TestRelativeBase(t *testing.T) {
	got, err := NewURLGenerator("/files").PublicURL("public://bg.png")
	require.NoError(t, err)
	assert.Equal(t, "/files/bg.png", got)
}
