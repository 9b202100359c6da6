// Package devserver is an in-process implementation of the
// recommendation backend's wire contract, used to run and test the
// client without the real service. The similarity scoring is
// deliberately naive; only the contract matters here.
package devserver

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/cinelab/cine/internal/movie"
)

//go:embed data/movies.json
var embeddedDataset []byte

// Catalog holds the movie dataset and the token sets used for
// content similarity. Initialize must succeed before Search, Popular
// or Recommend are usable, mirroring the real backend's lifecycle.
type Catalog struct {
	mu          sync.RWMutex
	movies      []movie.Movie
	tokens      []map[string]struct{}
	initialized bool
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Initialize loads the embedded dataset and builds the per-movie
// token sets over title, genres and overview.
func (c *Catalog) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var movies []movie.Movie
	if err := json.Unmarshal(embeddedDataset, &movies); err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	if len(movies) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	tokens := make([]map[string]struct{}, len(movies))
	for i, m := range movies {
		tokens[i] = tokenize(m.Title + " " + strings.ReplaceAll(m.Genres, "|", " ") + " " + m.Overview)
	}

	c.movies = movies
	c.tokens = tokens
	c.initialized = true
	return nil
}

func (c *Catalog) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Search returns title matches, exact matches ranked before partial
// ones.
func (c *Catalog) Search(query string, limit int) []movie.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return []movie.Movie{}
	}

	var exact, partial []movie.Movie
	for _, m := range c.movies {
		title := strings.ToLower(m.Title)
		switch {
		case title == q:
			exact = append(exact, m)
		case strings.Contains(title, q):
			partial = append(partial, m)
		}
	}

	results := append(exact, partial...)
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []movie.Movie{}
	}
	return results
}

// Popular ranks the catalog by a weighted blend of popularity and
// vote average.
func (c *Catalog) Popular(limit int) []movie.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ranked := make([]movie.Movie, len(c.movies))
	copy(ranked, c.movies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return weightedScore(ranked[i]) > weightedScore(ranked[j])
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ErrUnknownSeed reports a recommendation request for a movie not in
// the catalog.
type ErrUnknownSeed struct {
	Title string
}

func (e *ErrUnknownSeed) Error() string {
	return fmt.Sprintf("movie not found: %s", e.Title)
}

// Recommend returns one page of the similarity ranking for the seed.
// The ranking is deterministic for a given seed, so offset-based
// pagination slices a stable ordering.
func (c *Catalog) Recommend(seedTitle string, count, offset int) ([]movie.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seedIdx := c.findTitle(seedTitle)
	if seedIdx < 0 {
		return nil, &ErrUnknownSeed{Title: seedTitle}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranking := make([]scored, 0, len(c.movies)-1)
	for i := range c.movies {
		if i == seedIdx {
			continue
		}
		ranking = append(ranking, scored{idx: i, score: overlap(c.tokens[seedIdx], c.tokens[i])})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].score > ranking[j].score
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ranking) || count <= 0 {
		return []movie.Movie{}, nil
	}
	end := offset + count
	if end > len(ranking) {
		end = len(ranking)
	}

	page := make([]movie.Movie, 0, end-offset)
	for _, s := range ranking[offset:end] {
		page = append(page, c.movies[s.idx])
	}
	return page, nil
}

// findTitle matches case-insensitively, exact title first, then the
// first substring match, the way the original lookup behaves.
func (c *Catalog) findTitle(title string) int {
	q := strings.ToLower(strings.TrimSpace(title))
	if q == "" {
		return -1
	}
	for i, m := range c.movies {
		if strings.ToLower(m.Title) == q {
			return i
		}
	}
	for i, m := range c.movies {
		if strings.Contains(strings.ToLower(m.Title), q) {
			return i
		}
	}
	return -1
}

func weightedScore(m movie.Movie) float64 {
	vote := 0.0
	if m.VoteAverage != nil {
		vote = *m.VoteAverage
	}
	return m.Popularity*0.3 + vote*0.7
}

// overlap is the Jaccard index of two token sets.
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?'\"()-")
		if len(f) > 2 {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}
