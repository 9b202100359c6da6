package tui

// Phase is the top-level application lifecycle: initialization runs
// once, is retriable on failure, and gates everything else.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseInitFailed
	PhaseReady
)

// View selects what the Ready phase renders.
type View int

const (
	ViewHome View = iota
	ViewSearch
	ViewDetail
	ViewWatchlist
)
