package browser

import "context"

// probeFunc reports whether a single selector currently matches anything
// in the document.
type probeFunc func(ctx context.Context, selector string) bool

// locateFirstWith walks the candidate selectors in order and returns the
// first one the probe accepts. Platform UIs ship several generations of
// markup at once, so candidate lists are ordered from the most current
// markup to the oldest fallback.
func locateFirstWith(ctx context.Context, candidates []string, probe probeFunc) (string, bool) {
	for _, selector := range candidates {
		if ctx.Err() != nil {
			return "", false
		}
		if probe(ctx, selector) {
			return selector, true
		}
	}
	return "", false
}
