package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

// Profile is the public information harvested from the authenticated
// account's own profile page.
type Profile struct {
	DisplayName    string
	ProfilePicture string
}

// unknownDisplayName is reported when no name element can be found.
const unknownDisplayName = "Unknown User"

var (
	profileNameSelectors = []string{
		"h1",
		`[data-testid="profile-name"]`,
		"title",
	}
	profilePicSelectors = []string{
		`img[data-testid="profile-picture"]`,
		`img[alt*="profile"]`,
	}
)

// HarvestProfile navigates to the account's own profile and scrapes the
// display name and avatar from a snapshot of the rendered document.
// Missing elements degrade to defaults instead of failing the login flow.
func HarvestProfile(ctx context.Context, page schemas.Page, profileURL string) (Profile, error) {
	if err := page.Navigate(ctx, profileURL); err != nil {
		return Profile{}, err
	}
	html, err := page.OuterHTML(ctx)
	if err != nil {
		return Profile{}, err
	}
	return parseProfileHTML(html)
}

func parseProfileHTML(html string) (Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Profile{}, fmt.Errorf("parse profile snapshot: %w", err)
	}

	profile := Profile{DisplayName: unknownDisplayName}
	for _, sel := range profileNameSelectors {
		if name := strings.TrimSpace(doc.Find(sel).First().Text()); name != "" {
			profile.DisplayName = name
			break
		}
	}
	for _, sel := range profilePicSelectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			profile.ProfilePicture = src
			break
		}
	}
	return profile, nil
}
