package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/cinelab/cine/internal/api"
	"github.com/cinelab/cine/internal/async"
	"github.com/cinelab/cine/internal/config"
	"github.com/cinelab/cine/internal/debuglog"
	"github.com/cinelab/cine/internal/movie"
	"github.com/cinelab/cine/internal/recs"
	"github.com/cinelab/cine/internal/search"
	"github.com/cinelab/cine/internal/storage"
)

const popularListingLimit = 20

// Gateway is the backend surface the app depends on; *api.Client
// satisfies it, tests substitute a fake.
type Gateway interface {
	Initialize(ctx context.Context) error
	Search(ctx context.Context, query string, limit int) ([]movie.Movie, error)
	Popular(ctx context.Context, limit int) ([]movie.Movie, error)
	Recommend(ctx context.Context, seedTitle string, count, offset int) ([]movie.Movie, error)
}

// Watchlist is the persistence surface for the watch-later list.
type Watchlist interface {
	Save(entry *storage.SavedMovie) error
	Delete(title string) error
	Has(title string) bool
	List() ([]*storage.SavedMovie, error)
}

type App struct {
	config     *config.Config
	gateway    Gateway
	store      Watchlist
	keyHandler *KeyHandler

	phase        Phase
	view         View
	previousView View
	selected     *movie.Movie
	appErr       error

	session *search.Session
	feed    *recs.Feed
	// cancelSearch aborts the in-flight search when a new one is
	// issued; the token check in Update remains the authoritative
	// staleness guard.
	cancelSearch context.CancelFunc

	initOp    async.Op[struct{}]
	popularOp async.Op[[]movie.Movie]

	popularList list.Model
	searchList  list.Model
	recList     list.Model
	watchList   list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	spin        spinner.Model

	// searchListFocused is true while the user navigates results; the
	// blur grace period never hides the overlay out from under them.
	searchListFocused bool

	saved map[string]bool

	width  int
	height int

	statusText string
	statusKind StatusKind

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(gateway Gateway, store Watchlist, cfg *config.Config) *App {
	ApplyTheme(cfg.UI.Colors)

	popularList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	popularList.Title = "› popular"
	popularList.SetShowStatusBar(false)
	popularList.SetFilteringEnabled(true)
	popularList.SetShowHelp(true)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	recList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	recList.Title = "› because you picked this"
	recList.SetShowStatusBar(false)
	recList.SetShowHelp(false)
	recList.SetFilteringEnabled(false)

	watchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	watchList.Title = "› watch later"
	watchList.SetShowStatusBar(false)
	watchList.SetFilteringEnabled(true)
	watchList.SetShowHelp(true)

	si := textinput.New()
	si.Placeholder = "Search movies…"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:      cfg,
		gateway:     gateway,
		store:       store,
		phase:       PhaseInitializing,
		view:        ViewHome,
		session:     search.NewSession(cfg.Search.MinChars, cfg.Search.Limit),
		feed:        recs.NewFeed(cfg.Recommendations.PageSize),
		popularList: popularList,
		searchList:  searchList,
		recList:     recList,
		watchList:   watchList,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		spin:        sp,
		saved:       map[string]bool{},
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > a.config.UI.Overview.WordWrapMaxWidth {
		wordWrapWidth = a.config.UI.Overview.WordWrapMaxWidth
	}
	if wordWrapWidth < a.config.UI.Overview.WordWrapMinWidth {
		wordWrapWidth = a.config.UI.Overview.WordWrapMinWidth
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	a.initOp.Start()
	return tea.Batch(
		a.spin.Tick,
		a.initialize(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.popularList.SetSize(msg.Width, msg.Height-3)
		a.watchList.SetSize(msg.Width, msg.Height-3)
		// Search view layout needs room for the input frame and help
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		// Detail view splits between viewport and recommendations
		a.viewport.Width = msg.Width
		a.viewport.Height = (msg.Height - 3) / 2
		a.recList.SetSize(msg.Width, msg.Height-3-a.viewport.Height-2)

	case spinner.TickMsg:
		if a.showingSpinner() {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case initDoneMsg:
		if msg.err != nil {
			a.phase = PhaseInitFailed
			a.appErr = wrapErr("initialization failed", msg.err)
			a.initOp.Fail(msg.err)
			debuglog.Errorf("initialize: %v", msg.err)
		} else {
			a.phase = PhaseReady
			a.appErr = nil
			a.initOp.Succeed(struct{}{})
			a.popularOp.Start()
			cmds = append(cmds, a.loadPopular(), a.loadWatchlist())
		}

	case popularLoadedMsg:
		if msg.err != nil {
			a.popularOp.Fail(msg.err)
			debuglog.Warnf("popular listing: %v", msg.err)
		} else {
			a.popularOp.Succeed(msg.movies)
			a.popularList.SetItems(a.movieItems(msg.movies))
		}

	case searchDebounceMsg:
		req, ok := a.session.DebounceElapsed(msg.seq)
		a.searchList.SetItems(a.movieItems(a.session.Results()))
		if ok {
			a.releaseSearch()
			ctx, cancel := context.WithCancel(context.Background())
			a.cancelSearch = cancel
			cmds = append(cmds, a.performSearch(ctx, req))
		} else if !a.session.Loading() {
			// The session dropped the request (query fell below the
			// minimum); abandon the in-flight call with it. A stale
			// timer leaves the session loading and gets no say here.
			a.releaseSearch()
		}

	case searchResultsMsg:
		if api.IsCancelled(msg.err) {
			// Superseded request; not a failure, nothing to apply.
			break
		}
		if msg.err != nil {
			if a.session.ResolveError(msg.token, msg.err) {
				a.releaseSearch()
				a.searchList.SetItems(nil)
				debuglog.Warnf("search: %v", msg.err)
			}
		} else if a.session.Resolve(msg.token, msg.movies) {
			a.releaseSearch()
			a.searchList.SetItems(a.movieItems(msg.movies))
			a.searchList.ResetSelected()
		}

	case overlayBlurMsg:
		if !a.searchListFocused {
			a.session.BlurElapsed(msg.seq)
		}

	case recsPageMsg:
		if msg.err != nil {
			if a.feed.ResolveError(msg.req, msg.err) {
				a.recList.SetItems(a.movieItems(a.feed.Items()))
				a.appErr = wrapErr("recommendations", msg.err)
				debuglog.Errorf("recommend seed=%q offset=%d: %v", msg.req.Seed, msg.req.Offset, msg.err)
			}
		} else if a.feed.Resolve(msg.req, msg.movies) {
			a.recList.SetItems(a.movieItems(a.feed.Items()))
			a.statusText = MsgRecsCount(len(a.feed.Items()))
			a.statusKind = StatusInfo
		}

	case watchlistLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("watchlist: %v", msg.err)
		} else {
			a.saved = map[string]bool{}
			items := make([]list.Item, len(msg.entries))
			for i, e := range msg.entries {
				a.saved[e.Movie.Title] = true
				items[i] = movieItem{movie: e.Movie, saved: true, descLimit: a.config.UI.Overview.MaxDescriptionLength}
			}
			a.watchList.SetItems(items)
		}

	case watchToggledMsg:
		if msg.err != nil {
			a.statusText = fmt.Sprintf("Watchlist error: %v", msg.err)
			a.statusKind = StatusError
			debuglog.Warnf("watchlist toggle %q: %v", msg.title, msg.err)
		} else {
			a.saved[msg.title] = msg.saved
			if msg.saved {
				a.statusText = MsgSaved(msg.title)
			} else {
				a.statusText = MsgRemoved(msg.title)
			}
			a.statusKind = StatusSuccess
			cmds = append(cmds, a.loadWatchlist())
		}

	case detailRenderedMsg:
		if a.view == ViewDetail && a.selected != nil && a.selected.Title == msg.title {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}
	}

	cmds = append(cmds, a.updateComponents(msg))

	return a, tea.Batch(cmds...)
}

// updateComponents delegates non-key messages to the component owning
// the current view.
func (a *App) updateComponents(msg tea.Msg) tea.Cmd {
	if _, isKey := msg.(tea.KeyMsg); isKey {
		return nil
	}

	var cmds []tea.Cmd
	switch a.view {
	case ViewHome:
		newList, cmd := a.popularList.Update(msg)
		a.popularList = newList
		cmds = append(cmds, cmd)
	case ViewSearch:
		newInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newInput
		cmds = append(cmds, cmd)

		newList, listCmd := a.searchList.Update(msg)
		a.searchList = newList
		cmds = append(cmds, listCmd)
	case ViewDetail:
		newViewport, cmd := a.viewport.Update(msg)
		a.viewport = newViewport
		cmds = append(cmds, cmd)

		newList, listCmd := a.recList.Update(msg)
		a.recList = newList
		cmds = append(cmds, listCmd)
	case ViewWatchlist:
		newList, cmd := a.watchList.Update(msg)
		a.watchList = newList
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// releaseSearch cancels and drops the stored cancellation handle.
// Called when the current request resolves or is abandoned; cancelling
// an already-completed request is a no-op.
func (a *App) releaseSearch() {
	if a.cancelSearch != nil {
		a.cancelSearch()
		a.cancelSearch = nil
	}
}

// onSearchInputChanged restarts the debounce window for the new text.
func (a *App) onSearchInputChanged() tea.Cmd {
	seq := a.session.QueryChanged(a.searchInput.Value())
	return debounceTick(a.config.Search.Debounce, seq)
}

// chooseMovie applies a search selection: it becomes the current
// selection, prior errors clear, and the recommendation feed reseeds.
func (a *App) chooseMovie(m movie.Movie) tea.Cmd {
	a.session.Choose(m)
	a.releaseSearch()
	a.searchInput.SetValue(m.Title)
	selected := m
	a.selected = &selected
	a.appErr = nil
	a.view = ViewDetail
	a.searchListFocused = false
	a.statusText = MsgLoadingRecs
	a.statusKind = StatusInfo

	cmds := []tea.Cmd{a.renderDetail(m), a.spin.Tick}
	if req, ok := a.feed.SetSeed(m.Title); ok {
		a.recList.Title = "› because you picked: " + truncateMiddle(m.Title, 40)
		a.recList.SetItems(nil)
		cmds = append(cmds, a.fetchRecommendations(req))
	}
	return tea.Batch(cmds...)
}

// clearSelection drops the selection and tears the feed down.
func (a *App) clearSelection() {
	a.selected = nil
	a.feed.Reset()
	a.recList.SetItems(nil)
	a.appErr = nil
	a.statusText = ""
	a.view = ViewHome
}

// retryInitialization re-enters Initializing from InitFailed.
func (a *App) retryInitialization() tea.Cmd {
	a.phase = PhaseInitializing
	a.appErr = nil
	a.initOp.Start()
	return tea.Batch(a.spin.Tick, a.initialize())
}

// loadMoreRecommendations appends the next page; a no-op while a
// fetch is outstanding or the feed is exhausted.
func (a *App) loadMoreRecommendations() tea.Cmd {
	req, ok := a.feed.LoadMore()
	if !ok {
		return nil
	}
	a.statusText = MsgLoadingMore
	a.statusKind = StatusInfo
	return tea.Batch(a.spin.Tick, a.fetchRecommendations(req))
}

func (a *App) showingSpinner() bool {
	return a.phase == PhaseInitializing ||
		a.popularOp.Pending() ||
		a.session.Loading() ||
		a.feed.Fetching()
}

func (a *App) movieItems(movies []movie.Movie) []list.Item {
	limit := a.config.UI.Overview.MaxDescriptionLength
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, saved: a.saved[m.Title], descLimit: limit}
	}
	return items
}

// highlightedMovie returns the movie under the cursor in whichever
// list the current view shows.
func (a *App) highlightedMovie() (movie.Movie, bool) {
	var sel list.Item
	switch a.view {
	case ViewHome:
		sel = a.popularList.SelectedItem()
	case ViewSearch:
		sel = a.searchList.SelectedItem()
	case ViewDetail:
		sel = a.recList.SelectedItem()
	case ViewWatchlist:
		sel = a.watchList.SelectedItem()
	}
	if item, ok := sel.(movieItem); ok {
		return item.movie, true
	}
	return movie.Movie{}, false
}

func (a *App) View() string {
	switch a.phase {
	case PhaseInitializing:
		return renderCentered(a.width, a.height,
			lipgloss.JoinVertical(lipgloss.Center,
				GetCompactBanner(""),
				a.spin.View()+" "+StatusInfoStyle.Render(MsgInitializing),
			))
	case PhaseInitFailed:
		return renderCentered(a.width, a.height,
			lipgloss.JoinVertical(lipgloss.Center,
				ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.appErr)),
				"",
				renderHelp(MsgRetryHint),
			))
	}

	var content string
	switch a.view {
	case ViewHome:
		content = a.viewHome()
	case ViewSearch:
		content = a.viewSearch()
	case ViewDetail:
		content = a.viewDetail()
	case ViewWatchlist:
		content = a.viewWatchlist()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render(strings.Repeat("─", separatorWidth+1))
		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) viewHome() string {
	switch {
	case a.popularOp.Pending():
		return renderCentered(a.width, a.height-3,
			a.spin.View()+" "+StatusInfoStyle.Render(MsgLoadingPopular))
	case a.popularOp.Status() == async.StatusFailure:
		return renderCentered(a.width, a.height-3,
			lipgloss.JoinVertical(lipgloss.Center,
				ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.popularOp.Err())),
				"",
				renderHelp("r: reload listing • ctrl+s: search"),
			))
	case len(a.popularList.Items()) == 0:
		return renderCentered(a.width, a.height-3, GetWelcomeMessage())
	default:
		return a.popularList.View()
	}
}

func (a *App) viewSearch() string {
	searchInputWidth := a.width - 8
	if searchInputWidth < 10 {
		searchInputWidth = a.width - 4
	}
	a.searchInput.Width = searchInputWidth

	rows := []string{
		renderHeader("› search", "", a.width),
		"",
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), searchInputWidth),
	}

	switch {
	case a.session.Loading():
		rows = append(rows, renderMuted(a.spin.View()+" "+MsgSearching))
	case a.searchInput.Focused():
		rows = append(rows, renderHelp("Type to search • Tab/↓: results • Esc: back"))
	case len(a.searchList.Items()) > 0:
		rows = append(rows, renderHelp("↑↓: navigate • Enter: select • Tab/↑: search box • Esc: back"))
	default:
		rows = append(rows, renderHelp("Tab/↑: search box • Esc: back"))
	}
	rows = append(rows, "")

	if a.session.Visible() {
		if len(a.session.Results()) == 0 {
			rows = append(rows, renderMuted(MsgNoMatches))
		} else {
			rows = append(rows, a.searchList.View())
		}
	}

	return ContentWrapper(a.width, a.height-3).
		Render(lipgloss.JoinVertical(lipgloss.Top, rows...))
}

func (a *App) viewDetail() string {
	if a.selected == nil {
		return renderCentered(a.width, a.height-3, renderMuted("Nothing selected"))
	}

	recsFooter := ""
	switch {
	case a.feed.Fetching():
		recsFooter = renderMuted(a.spin.View() + " " + MsgLoadingMore)
	case a.feed.Exhausted():
		recsFooter = renderMuted(MsgFeedExhausted)
	case len(a.feed.Items()) > 0:
		recsFooter = renderHelp(fmt.Sprintf("%s+%s: load more", a.config.Keys.Modifier, a.config.Keys.Bindings.LoadMore))
	}

	return ContentWrapper(a.width, a.height-3).
		Render(lipgloss.JoinVertical(lipgloss.Top,
			a.viewport.View(),
			a.recList.View(),
			recsFooter,
		))
}

func (a *App) viewWatchlist() string {
	if len(a.watchList.Items()) == 0 {
		return renderCentered(a.width, a.height-3,
			GetCompactBanner(fmt.Sprintf("Nothing saved yet • press %s+%s on a movie to add it", a.config.Keys.Modifier, a.config.Keys.Bindings.ToggleWatch)))
	}
	return a.watchList.View()
}

func (a *App) getCustomStatusBar() string {
	if a.appErr != nil {
		errorMsg := StatusErrorStyle.Render(fmt.Sprintf("✗ %v", a.appErr))
		return StatusBarStyle.Width(a.width).Render(errorMsg)
	}

	if a.statusText != "" {
		var style lipgloss.Style
		switch a.statusKind {
		case StatusSuccess:
			style = StatusSuccessStyle
		case StatusWarn:
			style = StatusWarnStyle
		case StatusError:
			style = StatusErrorStyle
		default:
			style = StatusInfoStyle
		}
		return StatusBarStyle.Width(a.width).Render(style.Render(a.statusText))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return StatusBarStyle.Width(a.width).Render(strings.Join(commands, " • "))
}

type movieItem struct {
	movie     movie.Movie
	saved     bool
	descLimit int
}

func (i movieItem) Title() string {
	title := i.movie.Title
	if year := i.movie.DisplayYear(); year != "" {
		title += GenreStyle.Render(" (" + year + ")")
	}
	rating := RatingStyle.Render(" " + i.movie.RatingLabel())
	if i.saved {
		return SavedMarkerStyle.Render("★ ") + MovieTitleStyle.Render(title) + rating
	}
	return MovieTitleStyle.Render(title) + rating
}

func (i movieItem) Description() string {
	limit := i.descLimit
	if limit <= 0 {
		limit = 80
	}
	desc := truncateEnd(i.movie.Overview, limit)
	if genres := i.movie.GenreList(); len(genres) > 0 {
		return GenreStyle.Render(strings.Join(genres, " · ")) + renderMuted(" · "+desc)
	}
	return renderMuted(desc)
}

func (i movieItem) FilterValue() string { return i.movie.Title }
