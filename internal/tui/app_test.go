package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelab/cine/internal/api"
	"github.com/cinelab/cine/internal/config"
	"github.com/cinelab/cine/internal/movie"
	"github.com/cinelab/cine/internal/recs"
	"github.com/cinelab/cine/internal/storage"
)

type fakeGateway struct {
	mu          sync.Mutex
	initErr     error
	searchCalls []string
	recommends  []recs.Request
}

func (f *fakeGateway) Initialize(ctx context.Context) error { return f.initErr }

func (f *fakeGateway) Search(ctx context.Context, query string, limit int) ([]movie.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	return []movie.Movie{{Title: "Inception"}}, nil
}

func (f *fakeGateway) Popular(ctx context.Context, limit int) ([]movie.Movie, error) {
	return []movie.Movie{{Title: "The Godfather"}}, nil
}

func (f *fakeGateway) Recommend(ctx context.Context, seedTitle string, count, offset int) ([]movie.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recommends = append(f.recommends, recs.Request{Seed: seedTitle, Count: count, Offset: offset})
	return []movie.Movie{{Title: "Interstellar"}}, nil
}

type fakeStore struct {
	saved map[string]*storage.SavedMovie
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string]*storage.SavedMovie{}}
}

func (f *fakeStore) Save(entry *storage.SavedMovie) error {
	f.saved[entry.Movie.Title] = entry
	return nil
}

func (f *fakeStore) Delete(title string) error {
	delete(f.saved, title)
	return nil
}

func (f *fakeStore) Has(title string) bool {
	_, ok := f.saved[title]
	return ok
}

func (f *fakeStore) List() ([]*storage.SavedMovie, error) {
	var out []*storage.SavedMovie
	for _, e := range f.saved {
		out = append(out, e)
	}
	return out, nil
}

func newReadyApp() *App {
	app := NewApp(&fakeGateway{}, newFakeStore(), config.TestConfig())
	app.phase = PhaseReady
	app.width = 80
	app.height = 24
	return app
}

func movies(titles ...string) []movie.Movie {
	out := make([]movie.Movie, len(titles))
	for i, title := range titles {
		out[i] = movie.Movie{Title: title}
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitFailureIsRetriable(t *testing.T) {
	app := NewApp(&fakeGateway{}, newFakeStore(), config.TestConfig())
	require.Equal(t, PhaseInitializing, app.phase)

	serverErr := &api.ServerError{Op: "initialize", Status: 500, Message: "dataset missing"}
	app.Update(initDoneMsg{err: serverErr})
	assert.Equal(t, PhaseInitFailed, app.phase)
	require.Error(t, app.appErr)
	assert.Contains(t, app.appErr.Error(), "dataset missing")

	// Retry re-enters Initializing.
	_, cmd := app.Update(keyRunes("r"))
	assert.Equal(t, PhaseInitializing, app.phase)
	assert.Nil(t, app.appErr)
	assert.NotNil(t, cmd)

	// Second attempt succeeds.
	_, cmd = app.Update(initDoneMsg{})
	assert.Equal(t, PhaseReady, app.phase)
	assert.NotNil(t, cmd, "ready phase kicks off the popular listing and watchlist loads")
}

func TestPopularListingPopulatesHome(t *testing.T) {
	app := newReadyApp()
	app.popularOp.Start()

	app.Update(popularLoadedMsg{movies: movies("The Godfather", "Inception")})
	assert.Len(t, app.popularList.Items(), 2)
	assert.False(t, app.popularOp.Pending())
}

func TestStaleSearchResponseSuppressed(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	// Two completed debounce windows produce two request tokens.
	seqA := app.session.QueryChanged("incep")
	_, cmd := app.Update(searchDebounceMsg{seq: seqA})
	require.NotNil(t, cmd)

	seqB := app.session.QueryChanged("inception")
	_, cmd = app.Update(searchDebounceMsg{seq: seqB})
	require.NotNil(t, cmd)

	// The newer request resolves first.
	app.Update(searchResultsMsg{token: 2, movies: movies("Inception")})
	require.Len(t, app.searchList.Items(), 1)

	// The older response arrives late and must not clobber anything.
	app.Update(searchResultsMsg{token: 1, movies: movies("Inca Empire", "Incredibles")})
	require.Len(t, app.searchList.Items(), 1)
	assert.Equal(t, "Inception", app.searchList.Items()[0].(movieItem).movie.Title)
}

func TestStaleDebounceTimerDoesNothing(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	seqOld := app.session.QueryChanged("inc")
	app.session.QueryChanged("ince")

	_, cmd := app.Update(searchDebounceMsg{seq: seqOld})
	assert.False(t, app.session.Loading(), "stale timer must not issue a request")
	_ = cmd
}

func TestClearedQueryDropsLateResponse(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	seq := app.session.QueryChanged("inception")
	_, cmd := app.Update(searchDebounceMsg{seq: seq})
	require.NotNil(t, cmd)
	require.NotNil(t, app.cancelSearch)

	// Backspacing below the minimum clears and abandons the request.
	seq = app.session.QueryChanged("in")
	app.Update(searchDebounceMsg{seq: seq})
	assert.Nil(t, app.cancelSearch, "abandoned request should be cancelled")

	// Its response still arrives; the cleared overlay must stay down.
	app.Update(searchResultsMsg{token: 1, movies: movies("Inception")})
	assert.False(t, app.session.Visible())
	assert.Empty(t, app.searchList.Items())
}

func TestResolvedSearchReleasesCancellation(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	seq := app.session.QueryChanged("inception")
	app.Update(searchDebounceMsg{seq: seq})
	require.NotNil(t, app.cancelSearch)

	app.Update(searchResultsMsg{token: 1, movies: movies("Inception")})
	assert.Nil(t, app.cancelSearch, "resolved request should drop its cancel handle")
}

func TestStaleTimerDoesNotCancelCurrentRequest(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	seqOld := app.session.QueryChanged("incep")
	seqNew := app.session.QueryChanged("inception")
	app.Update(searchDebounceMsg{seq: seqNew})
	require.NotNil(t, app.cancelSearch)

	// A timer from the earlier keystroke fires late. The current
	// request stays in flight, cancel handle intact.
	app.Update(searchDebounceMsg{seq: seqOld})
	assert.NotNil(t, app.cancelSearch)
	assert.True(t, app.session.Loading())
}

func TestChoosingResultCancelsInFlightSearch(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch
	app.searchInput.Blur()

	seq := app.session.QueryChanged("inception")
	app.Update(searchDebounceMsg{seq: seq})
	require.NotNil(t, app.cancelSearch)

	app.searchList.SetItems([]list.Item{movieItem{movie: movie.Movie{Title: "Inception"}}})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Nil(t, app.cancelSearch)

	// The abandoned search resolves late and must not re-show the overlay.
	app.Update(searchResultsMsg{token: 1, movies: movies("Inception", "Inception 2")})
	assert.False(t, app.session.Visible())
	assert.Equal(t, ViewDetail, app.view)
}

func TestCancelledSearchIsNotAFailure(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	seq := app.session.QueryChanged("inception")
	app.Update(searchDebounceMsg{seq: seq})
	require.True(t, app.session.Loading())

	cancelled := fmt.Errorf("search: %w", api.ErrCancelled)
	app.Update(searchResultsMsg{token: 1, err: cancelled})

	// Neither resolved nor failed; the superseding request owns the state.
	assert.True(t, app.session.Loading())
	assert.Nil(t, app.appErr)
	assert.NoError(t, app.session.Err())
}

func TestSearchErrorHidesOverlay(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch

	seq := app.session.QueryChanged("inception")
	app.Update(searchDebounceMsg{seq: seq})

	app.Update(searchResultsMsg{token: 1, err: &api.ConnectivityError{Op: "search"}})
	assert.False(t, app.session.Visible())
	assert.Empty(t, app.searchList.Items())
	assert.Nil(t, app.appErr, "search failures are non-fatal")
}

func TestSelectionStartsRecommendationFeed(t *testing.T) {
	app := newReadyApp()
	app.view = ViewSearch
	app.searchInput.Blur()
	app.searchList.SetItems([]list.Item{movieItem{movie: movie.Movie{Title: "Inception"}}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, ViewDetail, app.view)
	require.NotNil(t, app.selected)
	assert.Equal(t, "Inception", app.selected.Title)
	assert.Equal(t, "Inception", app.feed.Seed())
	assert.True(t, app.feed.Fetching())

	// First page lands.
	req := recs.Request{Seed: "Inception", Count: 10, Offset: 0}
	app.Update(recsPageMsg{req: req, movies: movies("Interstellar", "The Prestige")})
	assert.Len(t, app.recList.Items(), 2)
	assert.False(t, app.feed.Fetching())
}

func TestRecommendationFailureSurfacesError(t *testing.T) {
	app := newReadyApp()
	app.chooseMovie(movie.Movie{Title: "Inception"})

	req := recs.Request{Seed: "Inception", Count: 10, Offset: 0}
	app.Update(recsPageMsg{req: req, err: &api.ServerError{Op: "recommend", Status: 404, Message: "Movie not found"}})

	require.Error(t, app.appErr)
	assert.Contains(t, app.appErr.Error(), "Movie not found")
	assert.Empty(t, app.recList.Items())
}

func TestStaleSeedPageDiscarded(t *testing.T) {
	app := newReadyApp()
	app.chooseMovie(movie.Movie{Title: "Inception"})
	app.chooseMovie(movie.Movie{Title: "Heat"})

	// The first seed's page arrives after the switch.
	old := recs.Request{Seed: "Inception", Count: 10, Offset: 0}
	app.Update(recsPageMsg{req: old, movies: movies("Interstellar")})
	assert.Empty(t, app.recList.Items())

	current := recs.Request{Seed: "Heat", Count: 10, Offset: 0}
	app.Update(recsPageMsg{req: current, movies: movies("Ronin")})
	require.Len(t, app.recList.Items(), 1)
	assert.Equal(t, "Ronin", app.recList.Items()[0].(movieItem).movie.Title)
}

func TestLoadMoreKey(t *testing.T) {
	app := newReadyApp()
	app.chooseMovie(movie.Movie{Title: "Inception"})

	req := recs.Request{Seed: "Inception", Count: 10, Offset: 0}
	app.Update(recsPageMsg{req: req, movies: movies("A", "B", "C")})

	_, cmd := app.Update(keyRunes("m"))
	require.NotNil(t, cmd)
	assert.True(t, app.feed.Fetching())

	// A second press while fetching is a no-op.
	_, cmd = app.Update(keyRunes("m"))
	assert.Nil(t, cmd)
}

func TestEscClearsSelection(t *testing.T) {
	app := newReadyApp()
	app.chooseMovie(movie.Movie{Title: "Inception"})
	require.Equal(t, ViewDetail, app.view)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, app.view)
	assert.Nil(t, app.selected)
	assert.Empty(t, app.feed.Seed())
	assert.Empty(t, app.recList.Items())
}

func TestSearchModeEntryAndExit(t *testing.T) {
	app := newReadyApp()

	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, ViewSearch, app.view)
	assert.True(t, app.searchInput.Focused())

	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, app.view)
	assert.Empty(t, app.session.Query())
}

func TestTypingSchedulesDebounce(t *testing.T) {
	app := newReadyApp()
	app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	_, cmd := app.Update(keyRunes("i"))
	assert.NotNil(t, cmd, "each keystroke restarts the debounce timer")
	assert.Equal(t, "i", app.session.Query())
}

func TestWatchlistToggleUpdatesMarkers(t *testing.T) {
	app := newReadyApp()

	app.Update(watchToggledMsg{title: "Inception", saved: true})
	assert.True(t, app.saved["Inception"])
	assert.Equal(t, StatusSuccess, app.statusKind)

	app.Update(watchToggledMsg{title: "Inception", saved: false})
	assert.False(t, app.saved["Inception"])
}

func TestWatchlistViewToggle(t *testing.T) {
	app := newReadyApp()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, ViewWatchlist, app.view)
	assert.NotNil(t, cmd)

	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, ViewHome, app.view)
}

func TestBlurGraceKeepsOverlayForResultNavigation(t *testing.T) {
	app := newReadyApp()
	app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	seq := app.session.QueryChanged("inception")
	app.Update(searchDebounceMsg{seq: seq})
	app.Update(searchResultsMsg{token: 1, movies: movies("Inception")})
	require.True(t, app.session.Visible())

	// Tab moves focus into the results and schedules the grace timer.
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.True(t, app.searchListFocused)

	// When the timer fires, focus is on the results; the overlay stays.
	app.Update(overlayBlurMsg{seq: 1})
	assert.True(t, app.session.Visible())
}

func TestMovieItemDescriptionHonorsConfiguredLimit(t *testing.T) {
	overview := strings.Repeat("x", 200)

	item := movieItem{movie: movie.Movie{Overview: overview}, descLimit: 150}
	desc := item.Description()
	assert.Contains(t, desc, strings.Repeat("x", 149)+"…")
	assert.NotContains(t, desc, overview)

	// Zero falls back to the built-in limit.
	item = movieItem{movie: movie.Movie{Overview: overview}}
	desc = item.Description()
	assert.Contains(t, desc, strings.Repeat("x", 79)+"…")
	assert.NotContains(t, desc, strings.Repeat("x", 100))

	// Items built by the app carry the configured limit.
	app := newReadyApp()
	items := app.movieItems(movies("Inception"))
	require.Len(t, items, 1)
	assert.Equal(t, app.config.UI.Overview.MaxDescriptionLength, items[0].(movieItem).descLimit)
}

func TestViewRendersWithoutPanicking(t *testing.T) {
	app := NewApp(&fakeGateway{}, newFakeStore(), config.TestConfig())
	app.width = 80
	app.height = 24

	assert.NotEmpty(t, app.View(), "initializing view")

	app.Update(initDoneMsg{err: &api.ConnectivityError{Op: "initialize"}})
	assert.NotEmpty(t, app.View(), "init failed view")

	app.phase = PhaseReady
	for _, v := range []View{ViewHome, ViewSearch, ViewDetail, ViewWatchlist} {
		app.view = v
		assert.NotEmpty(t, app.View())
	}
}
