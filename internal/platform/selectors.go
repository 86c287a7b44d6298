// Package platform encodes the target-site knowledge: element candidate
// lists, URL shapes, cookie conventions, session verification, and the
// concrete action executors built on top of a schemas.Page.
package platform

import (
	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
)

// Selectors holds the ordered element candidate lists for each control the
// executors interact with. Lists run from the most current markup variant
// to the oldest fallback.
type Selectors struct {
	LoggedIn     []string
	Like         []string
	CommentInput []string
	Follow       []string
}

// DefaultSelectors returns the built-in candidate lists.
func DefaultSelectors() Selectors {
	return Selectors{
		LoggedIn: []string{
			`a[data-testid="blue_bar_profile_link"]`,
			`[data-testid="blue_bar_profile_link"]`,
			`a[aria-label="Your profile"]`,
			`[aria-label="Your profile"]`,
		},
		Like: []string{
			`[aria-label="Like"]`,
			`[aria-label="Like this post"]`,
			`div[data-testid="like-button"]`,
			`a[data-testid="like-button"]`,
			`span[data-testid="like-button"]`,
		},
		CommentInput: []string{
			`[data-testid="comment-composer"]`,
			`[aria-label="Write a comment"]`,
			`div[data-testid="comment-composer"] textarea`,
			`textarea[placeholder*="comment"]`,
			`textarea[placeholder*="Comment"]`,
		},
		Follow: []string{
			`[data-testid="follow-button"]`,
			`[aria-label="Follow"]`,
			`button[data-testid="follow-button"]`,
			`a[data-testid="follow-button"]`,
			`div[data-testid="follow-button"]`,
		},
	}
}

// SelectorsFromConfig merges operator overrides over the defaults. An empty
// list in the config keeps the built-in candidates.
func SelectorsFromConfig(cfg config.SelectorsConfig) Selectors {
	sel := DefaultSelectors()
	if len(cfg.LoggedIn) > 0 {
		sel.LoggedIn = cfg.LoggedIn
	}
	if len(cfg.Like) > 0 {
		sel.Like = cfg.Like
	}
	if len(cfg.CommentInput) > 0 {
		sel.CommentInput = cfg.CommentInput
	}
	if len(cfg.Follow) > 0 {
		sel.Follow = cfg.Follow
	}
	return sel
}

// reactionLabels maps reaction kinds to the accessible label on the
// reaction palette entry.
var reactionLabels = map[schemas.ActionKind]string{
	schemas.ActionLove:  "Love",
	schemas.ActionHaha:  "Haha",
	schemas.ActionWow:   "Wow",
	schemas.ActionSad:   "Sad",
	schemas.ActionAngry: "Angry",
}

// ReactionSelector returns the palette selector for a reaction kind.
func ReactionSelector(kind schemas.ActionKind) (string, bool) {
	label, ok := reactionLabels[kind]
	if !ok {
		return "", false
	}
	return `[aria-label="` + label + `"]`, true
}
