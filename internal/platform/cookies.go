package platform

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
)

// platformIDCookie is the session cookie that carries the numeric id of
// the authenticated account.
const platformIDCookie = "c_user"

// CookieDomain derives the cookie scope from the first configured platform
// domain, e.g. "facebook.com" becomes ".facebook.com".
func CookieDomain(cfg config.PlatformConfig) string {
	if len(cfg.Domains) == 0 {
		return ""
	}
	d := strings.TrimPrefix(strings.ToLower(cfg.Domains[0]), "www.")
	return "." + strings.TrimPrefix(d, ".")
}

// ParseCookieString turns a browser-exported "name=value; name=value"
// string into session cookies scoped to the platform domain. Pairs
// without a name or value are skipped.
func ParseCookieString(raw, domain string) ([]schemas.Cookie, error) {
	var cookies []schemas.Cookie
	for _, pair := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		cookies = append(cookies, schemas.Cookie{
			Name:   name,
			Value:  value,
			Domain: domain,
			Path:   "/",
		})
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("%w: no cookies found in cookie string", schemas.ErrValidation)
	}
	return cookies, nil
}

// ExtractPlatformID returns the account id carried in the session cookies.
func ExtractPlatformID(cookies []schemas.Cookie) (string, error) {
	for _, c := range cookies {
		if c.Name == platformIDCookie {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("%w: session cookies do not identify an account", schemas.ErrValidation)
}
