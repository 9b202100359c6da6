package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgInitializing   = "Contacting backend…"
	MsgLoadingPopular = "Loading popular movies…"
	MsgSearching      = "Searching…"
	MsgLoadingRecs    = "Loading recommendations…"
	MsgLoadingMore    = "Loading more…"
	MsgNoMatches      = "No matches"
	MsgFeedExhausted  = "No more recommendations"
	MsgRetryHint      = "r: retry • q: quit"
)

func MsgSaved(title string) string {
	return fmt.Sprintf("Added '%s' to watchlist", title)
}

func MsgRemoved(title string) string {
	return fmt.Sprintf("Removed '%s' from watchlist", title)
}

func MsgRecsCount(n int) string {
	if n == 1 {
		return "1 recommendation"
	}
	return fmt.Sprintf("%d recommendations", n)
}
