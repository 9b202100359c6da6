// Package recs owns the paginated recommendation feed for a seed
// movie: the offset cursor, the append-vs-replace fetch policy, and
// the fetching latch that serializes page requests.
package recs

import (
	"github.com/cinelab/cine/internal/async"
	"github.com/cinelab/cine/internal/movie"
)

// Request describes one recommendation fetch. Seed doubles as the
// staleness key: a response for a seed that is no longer current is
// discarded.
type Request struct {
	Seed   string
	Count  int
	Offset int
	Append bool
}

type Feed struct {
	pageSize int

	seed   string
	items  []movie.Movie
	offset int

	op async.Op[[]movie.Movie]

	// exhausted is set when a page comes back empty; the backend
	// paginates a fixed ranking, so an empty page is authoritative
	// until the seed changes.
	exhausted bool
}

func NewFeed(pageSize int) *Feed {
	return &Feed{pageSize: pageSize}
}

// SetSeed switches the feed to a new seed movie: items are cleared,
// the cursor resets, and the first page request is returned. Setting
// the current seed again is a no-op.
func (f *Feed) SetSeed(title string) (Request, bool) {
	if title == f.seed && title != "" {
		return Request{}, false
	}
	f.seed = title
	f.items = nil
	f.offset = 0
	f.exhausted = false
	if title == "" {
		f.op.Reset()
		return Request{}, false
	}
	f.op.Start()
	return Request{Seed: title, Count: f.pageSize, Offset: 0, Append: false}, true
}

// LoadMore returns the next page request. It is a no-op while a fetch
// is outstanding (overlapping pages would race on the same offset),
// when the feed is exhausted, or when no seed is set.
func (f *Feed) LoadMore() (Request, bool) {
	if f.seed == "" || f.op.Pending() || f.exhausted {
		return Request{}, false
	}
	f.op.Start()
	return Request{Seed: f.seed, Count: f.pageSize, Offset: f.offset, Append: true}, true
}

// Resolve applies a successful page. Returns false when the request's
// seed is no longer current; nothing is applied then. After every
// successful fetch offset == len(items).
func (f *Feed) Resolve(req Request, page []movie.Movie) bool {
	if req.Seed != f.seed {
		return false
	}
	if req.Append {
		f.items = append(f.items, page...)
		f.offset += len(page)
	} else {
		f.items = page
		f.offset = len(page)
	}
	if len(page) == 0 {
		f.exhausted = true
	}
	f.op.Succeed(page)
	return true
}

// ResolveError applies a failed fetch. A failed first page clears the
// feed; a failed append leaves already-displayed items untouched.
// Stale seeds are ignored.
func (f *Feed) ResolveError(req Request, err error) bool {
	if req.Seed != f.seed {
		return false
	}
	if !req.Append {
		f.items = nil
		f.offset = 0
	}
	f.op.Fail(err)
	return true
}

// Reset tears the feed down entirely (selection cleared).
func (f *Feed) Reset() {
	f.seed = ""
	f.items = nil
	f.offset = 0
	f.exhausted = false
	f.op.Reset()
}

func (f *Feed) Seed() string            { return f.seed }
func (f *Feed) Items() []movie.Movie    { return f.items }
func (f *Feed) Offset() int             { return f.offset }
func (f *Feed) Fetching() bool          { return f.op.Pending() }
func (f *Feed) Exhausted() bool         { return f.exhausted }
func (f *Feed) Err() error              { return f.op.Err() }
func (f *Feed) LastPage() []movie.Movie { return f.op.Value() }
