package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
)

func TestParseCookieString(t *testing.T) {
	cookies, err := ParseCookieString("c_user=100012345; xs=abc123; datr=zzz", ".facebook.com")
	require.NoError(t, err)
	require.Len(t, cookies, 3)

	assert.Equal(t, schemas.Cookie{
		Name:   "c_user",
		Value:  "100012345",
		Domain: ".facebook.com",
		Path:   "/",
	}, cookies[0])
	assert.Equal(t, "xs", cookies[1].Name)
	assert.Equal(t, "abc123", cookies[1].Value)
}

func TestParseCookieString_SkipsMalformedPairs(t *testing.T) {
	cookies, err := ParseCookieString("c_user=1; novalue; =orphan; ;", ".facebook.com")
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "c_user", cookies[0].Name)
}

func TestParseCookieString_Empty(t *testing.T) {
	_, err := ParseCookieString("", ".facebook.com")
	assert.ErrorIs(t, err, schemas.ErrValidation)

	_, err = ParseCookieString("; ; ;", ".facebook.com")
	assert.ErrorIs(t, err, schemas.ErrValidation)
}

func TestExtractPlatformID(t *testing.T) {
	cookies := []schemas.Cookie{
		{Name: "datr", Value: "zzz"},
		{Name: "c_user", Value: "100012345"},
	}
	id, err := ExtractPlatformID(cookies)
	require.NoError(t, err)
	assert.Equal(t, "100012345", id)

	_, err = ExtractPlatformID([]schemas.Cookie{{Name: "datr", Value: "zzz"}})
	assert.ErrorIs(t, err, schemas.ErrValidation)
}

func TestCookieDomain(t *testing.T) {
	assert.Equal(t, ".facebook.com", CookieDomain(config.PlatformConfig{
		Domains: []string{"facebook.com", "www.facebook.com"},
	}))
	assert.Equal(t, ".facebook.com", CookieDomain(config.PlatformConfig{
		Domains: []string{"www.facebook.com"},
	}))
	assert.Empty(t, CookieDomain(config.PlatformConfig{}))
}
