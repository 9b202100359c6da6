// Package search owns the autocomplete search session: the debounce
// sequence, the request token that guards against out-of-order
// responses, and overlay visibility. Timers and network calls are
// scheduled by the caller; this package only decides what is current.
package search

import (
	"strings"

	"github.com/cinelab/cine/internal/async"
	"github.com/cinelab/cine/internal/movie"
)

// Request describes the one search call the session wants issued.
// Token identifies it; a response carrying an older token is stale.
type Request struct {
	Query string
	Limit int
	Token int
}

type Session struct {
	minChars int
	limit    int

	query   string
	results []movie.Movie
	visible bool

	op async.Op[[]movie.Movie]

	// debounceSeq invalidates earlier timers: only the timer carrying
	// the latest sequence may trigger a request.
	debounceSeq int
	// token identifies the single current request; responses with any
	// other token are discarded.
	token int
	// blurSeq invalidates pending overlay hides after focus returns.
	blurSeq int
}

func NewSession(minChars, limit int) *Session {
	return &Session{minChars: minChars, limit: limit}
}

// QueryChanged records the raw input text and returns the debounce
// sequence the caller should attach to its restarted timer. Timers
// carrying earlier sequences must be ignored when they fire.
func (s *Session) QueryChanged(text string) int {
	s.query = text
	s.debounceSeq++
	return s.debounceSeq
}

// DebounceElapsed is called when a debounce timer fires. A stale
// sequence returns ok=false. A query shorter than the minimum clears
// the results, hides the overlay, and invalidates the outstanding
// request token, so a response still in flight cannot resurrect the
// cleared state. Otherwise the session invalidates the previous
// request token and returns the request to issue; the caller should
// also cancel the previous in-flight call.
func (s *Session) DebounceElapsed(seq int) (Request, bool) {
	if seq != s.debounceSeq {
		return Request{}, false
	}

	trimmed := strings.TrimSpace(s.query)
	if len([]rune(trimmed)) < s.minChars {
		s.results = nil
		s.visible = false
		s.token++
		s.op.Reset()
		return Request{}, false
	}

	s.token++
	s.op.Start()
	return Request{Query: trimmed, Limit: s.limit, Token: s.token}, true
}

// Resolve applies a successful response. Returns false when the token
// is no longer current, in which case nothing was applied. An empty
// result list still shows the overlay so the "no matches" state is
// rendered rather than hidden.
func (s *Session) Resolve(token int, results []movie.Movie) bool {
	if token != s.token {
		return false
	}
	s.results = results
	s.visible = true
	s.op.Succeed(results)
	return true
}

// ResolveError applies a non-cancellation failure: results cleared,
// overlay hidden. Search failures are non-fatal; continued typing
// retries naturally. Stale tokens are ignored.
func (s *Session) ResolveError(token int, err error) bool {
	if token != s.token {
		return false
	}
	s.results = nil
	s.visible = false
	s.op.Fail(err)
	return true
}

// Choose selects a result: the query becomes the chosen title, the
// overlay hides, and any request still in flight is invalidated so
// its response cannot re-show the overlay over the selection.
func (s *Session) Choose(m movie.Movie) {
	s.query = m.Title
	s.visible = false
	s.token++
	s.op.Reset()
}

// InputBlurred starts the grace period before hiding the overlay,
// returning the sequence the caller should attach to its timer. The
// delay keeps a click on a result, which transiently blurs the
// input, from being pre-empted by the hide.
func (s *Session) InputBlurred() int {
	s.blurSeq++
	return s.blurSeq
}

// BlurElapsed hides the overlay if the grace timer is still current.
func (s *Session) BlurElapsed(seq int) bool {
	if seq != s.blurSeq {
		return false
	}
	s.visible = false
	return true
}

// InputFocused cancels any pending overlay hide.
func (s *Session) InputFocused() {
	s.blurSeq++
}

// Reset clears the whole session, invalidating outstanding timers and
// requests.
func (s *Session) Reset() {
	s.query = ""
	s.results = nil
	s.visible = false
	s.debounceSeq++
	s.token++
	s.blurSeq++
	s.op.Reset()
}

func (s *Session) Query() string          { return s.query }
func (s *Session) Results() []movie.Movie { return s.results }
func (s *Session) Visible() bool          { return s.visible }
func (s *Session) Loading() bool          { return s.op.Pending() }
func (s *Session) Err() error             { return s.op.Err() }
