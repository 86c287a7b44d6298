package platform

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
)

var (
	profilePHPPattern = regexp.MustCompile(`[?&]id=(\d+)`)
	groupPostPattern  = regexp.MustCompile(`^/groups/(\d+)/posts/(\d+)`)
)

// URLs answers questions about platform URL shapes: whether a target URL
// belongs to the platform, which user a profile URL names, and how to
// build a profile URL for a user id.
type URLs struct {
	home    string
	profile string
	domains map[string]struct{}
	markers []string
}

// NewURLs builds the URL helper from platform config.
func NewURLs(cfg config.PlatformConfig) *URLs {
	domains := make(map[string]struct{}, len(cfg.Domains))
	for _, d := range cfg.Domains {
		domains[strings.ToLower(d)] = struct{}{}
	}
	return &URLs{
		home:    cfg.HomeURL,
		profile: cfg.ProfileURL,
		domains: domains,
		markers: cfg.LoginMarkers,
	}
}

// Home returns the platform landing URL used for session verification.
func (u *URLs) Home() string { return u.home }

// OwnProfile returns the URL of the authenticated account's own profile.
func (u *URLs) OwnProfile() string { return u.profile }

// ValidTarget checks that the raw URL parses and points at one of the
// configured platform domains.
func (u *URLs) ValidTarget(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: malformed URL: %v", schemas.ErrValidation, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: unsupported URL scheme %q", schemas.ErrValidation, parsed.Scheme)
	}
	if _, ok := u.domains[strings.ToLower(parsed.Hostname())]; !ok {
		return fmt.Errorf("%w: host %q is not a platform domain", schemas.ErrValidation, parsed.Hostname())
	}
	return nil
}

// UserProfile builds the profile URL for a user id or vanity name.
func (u *URLs) UserProfile(id string) string {
	base, err := url.Parse(u.home)
	if err != nil {
		return u.home + id
	}
	base.Path = "/" + strings.TrimPrefix(id, "/")
	base.RawQuery = ""
	return base.String()
}

// ExtractUserID pulls a user identifier out of a platform URL. It
// understands numeric profile URLs, group post URLs, and vanity-name
// profile URLs.
func (u *URLs) ExtractUserID(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: malformed URL: %v", schemas.ErrValidation, err)
	}

	if strings.HasPrefix(parsed.Path, "/profile.php") {
		if m := profilePHPPattern.FindStringSubmatch(parsed.RequestURI()); m != nil {
			return m[1], nil
		}
	}
	if m := groupPostPattern.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], nil
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0], nil
	}
	return "", fmt.Errorf("%w: could not extract user id from URL", schemas.ErrValidation)
}

// LoginRedirected reports whether the current URL looks like a login or
// checkpoint interstitial.
func (u *URLs) LoginRedirected(current string) bool {
	lowered := strings.ToLower(current)
	for _, marker := range u.markers {
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
