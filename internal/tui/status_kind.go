package tui

// StatusKind selects the status bar styling: info for progress notes,
// success for watchlist confirmations, error for failed gateway calls.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)
