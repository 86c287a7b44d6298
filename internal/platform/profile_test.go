package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileHTML(t *testing.T) {
	html := `<html><head><title>Fallback Title</title></head><body>
		<h1> Jane Example </h1>
		<img data-testid="profile-picture" src="https://cdn.example/avatar.jpg" alt="profile photo">
	</body></html>`

	p, err := parseProfileHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "Jane Example", p.DisplayName)
	assert.Equal(t, "https://cdn.example/avatar.jpg", p.ProfilePicture)
}

func TestParseProfileHTML_FallbackSelectors(t *testing.T) {
	html := `<html><head><title>Jane Example | Platform</title></head><body>
		<img alt="Jane's profile picture" src="https://cdn.example/alt-avatar.jpg">
	</body></html>`

	p, err := parseProfileHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "Jane Example | Platform", p.DisplayName)
	assert.Equal(t, "https://cdn.example/alt-avatar.jpg", p.ProfilePicture)
}

func TestParseProfileHTML_Empty(t *testing.T) {
	p, err := parseProfileHTML("<html><body></body></html>")
	require.NoError(t, err)
	assert.Equal(t, unknownDisplayName, p.DisplayName)
	assert.Empty(t, p.ProfilePicture)
}
