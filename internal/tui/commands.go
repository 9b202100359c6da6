package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cinelab/cine/internal/movie"
	"github.com/cinelab/cine/internal/recs"
	"github.com/cinelab/cine/internal/search"
	"github.com/cinelab/cine/internal/storage"
)

type initDoneMsg struct {
	err error
}

type popularLoadedMsg struct {
	movies []movie.Movie
	err    error
}

// searchResultsMsg carries the token of the request it answers; the
// update loop discards it when the token is no longer current.
type searchResultsMsg struct {
	token  int
	movies []movie.Movie
	err    error
}

type searchDebounceMsg struct {
	seq int
}

type overlayBlurMsg struct {
	seq int
}

type recsPageMsg struct {
	req    recs.Request
	movies []movie.Movie
	err    error
}

type watchlistLoadedMsg struct {
	entries []*storage.SavedMovie
	err     error
}

type watchToggledMsg struct {
	title string
	saved bool
	err   error
}

type detailRenderedMsg struct {
	title   string
	content string
}

func (a *App) initialize() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: a.gateway.Initialize(context.Background())}
	}
}

func (a *App) loadPopular() tea.Cmd {
	return func() tea.Msg {
		movies, err := a.gateway.Popular(context.Background(), popularListingLimit)
		return popularLoadedMsg{movies: movies, err: err}
	}
}

// performSearch issues the one current search request. The context is
// the cancellation handle held by the app; a superseding search
// cancels it.
func (a *App) performSearch(ctx context.Context, req search.Request) tea.Cmd {
	return func() tea.Msg {
		movies, err := a.gateway.Search(ctx, req.Query, req.Limit)
		return searchResultsMsg{token: req.Token, movies: movies, err: err}
	}
}

func (a *App) fetchRecommendations(req recs.Request) tea.Cmd {
	return func() tea.Msg {
		movies, err := a.gateway.Recommend(context.Background(), req.Seed, req.Count, req.Offset)
		return recsPageMsg{req: req, movies: movies, err: err}
	}
}

func (a *App) loadWatchlist() tea.Cmd {
	return func() tea.Msg {
		if a.store == nil {
			return watchlistLoadedMsg{}
		}
		entries, err := a.store.List()
		return watchlistLoadedMsg{entries: entries, err: err}
	}
}

func (a *App) toggleWatch(m movie.Movie) tea.Cmd {
	return func() tea.Msg {
		if a.store == nil {
			return watchToggledMsg{title: m.Title, err: fmt.Errorf("watchlist unavailable")}
		}
		if a.store.Has(m.Title) {
			err := a.store.Delete(m.Title)
			return watchToggledMsg{title: m.Title, saved: false, err: err}
		}
		err := a.store.Save(&storage.SavedMovie{Movie: m, AddedAt: time.Now()})
		return watchToggledMsg{title: m.Title, saved: true, err: err}
	}
}

// renderDetail builds the markdown detail pane for the selected movie.
func (a *App) renderDetail(m movie.Movie) tea.Cmd {
	return func() tea.Msg {
		var content strings.Builder
		title := m.Title
		if year := m.DisplayYear(); year != "" {
			title += fmt.Sprintf(" (%s)", year)
		}
		content.WriteString(fmt.Sprintf("# %s\n\n", title))
		content.WriteString(fmt.Sprintf("**Rating:** %s", m.RatingLabel()))
		if genres := m.GenreList(); len(genres) > 0 {
			content.WriteString(fmt.Sprintf("  •  *%s*", strings.Join(genres, ", ")))
		}
		content.WriteString("\n\n---\n\n")
		if m.Overview != "" {
			content.WriteString(m.Overview)
		} else {
			content.WriteString("*No overview available.*")
		}
		content.WriteString("\n")

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{title: m.Title, content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			return detailRenderedMsg{title: m.Title, content: content.String()}
		}

		return detailRenderedMsg{title: m.Title, content: rendered}
	}
}

// debounceTick restarts the search debounce window. Only the message
// carrying the latest sequence has any effect.
func debounceTick(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

// blurTick schedules the overlay hide after the blur grace period.
func blurTick(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return overlayBlurMsg{seq: seq}
	})
}
