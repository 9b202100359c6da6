package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cinelab/cine/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return kh.app, tea.Quit
	}

	switch kh.app.phase {
	case PhaseInitializing:
		if key == "q" {
			return kh.app, tea.Quit
		}
		return kh.app, nil
	case PhaseInitFailed:
		switch key {
		case "q", "esc":
			return kh.app, tea.Quit
		case "r", kh.modifierKey + kh.config.Keys.Bindings.Retry:
			return kh.app, kh.app.retryInitialization()
		}
		return kh.app, nil
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewSearch && kh.app.searchInput.Focused()
}

// isFiltering reports whether the active list is in filter-entry mode,
// in which case plain letter keys belong to the filter.
func (kh *KeyHandler) isFiltering() bool {
	switch kh.app.view {
	case ViewHome:
		return kh.app.popularList.FilterState() == list.Filtering
	case ViewWatchlist:
		return kh.app.watchList.FilterState() == list.Filtering
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "enter":
		// Pick the first result when the user confirms from the input.
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if i, ok := items[0].(movieItem); ok {
				return kh.app, kh.app.chooseMovie(i.movie)
			}
		}
		return kh.app, nil
	case "tab", "down":
		if len(kh.app.searchList.Items()) > 0 {
			return kh.focusSearchResults()
		}
		return kh.app, nil
	default:
		return kh.delegateToSearchInput(msg)
	}
}

// delegateToSearchInput passes the key to the search input and, when
// the text actually changed, restarts the debounce window.
func (kh *KeyHandler) delegateToSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	if kh.app.searchInput.Value() != prev {
		return kh.app, tea.Batch(cmd, kh.app.onSearchInputChanged(), kh.app.spin.Tick)
	}
	return kh.app, cmd
}

// focusSearchResults moves focus from the input to the result list.
// The overlay stays up while the user navigates; the grace timer only
// hides it if focus never lands anywhere search-related.
func (kh *KeyHandler) focusSearchResults() (tea.Model, tea.Cmd) {
	kh.app.searchInput.Blur()
	kh.app.searchListFocused = true
	kh.app.searchList.Select(0)
	seq := kh.app.session.InputBlurred()
	return kh.app, blurTick(kh.config.Search.BlurGrace, seq)
}

// focusSearchInput returns focus to the text input.
func (kh *KeyHandler) focusSearchInput() (tea.Model, tea.Cmd) {
	kh.app.searchListFocused = false
	kh.app.session.InputFocused()
	kh.app.searchInput.Focus()
	return kh.app, nil
}

// handleCustomKeys handles only our custom action keys.
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if kh.isFiltering() {
		return kh.app, nil, false
	}

	// Global custom keys
	switch key {
	case "q":
		return kh.app, tea.Quit, true
	case "esc":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.modifierKey + kh.config.Keys.Bindings.Search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.modifierKey + kh.config.Keys.Bindings.Watchlist:
		model, cmd := kh.enterWatchlist()
		return model, cmd, true
	case kh.modifierKey + kh.config.Keys.Bindings.ToggleWatch:
		if m, ok := kh.app.highlightedMovie(); ok {
			return kh.app, kh.app.toggleWatch(m), true
		}
		if kh.app.view == ViewDetail && kh.app.selected != nil {
			return kh.app, kh.app.toggleWatch(*kh.app.selected), true
		}
		return kh.app, nil, true
	}

	// View-specific custom keys
	switch kh.app.view {
	case ViewHome:
		return kh.handleHomeCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleHomeCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.modifierKey+kh.config.Keys.Bindings.Retry || key == "r" {
		kh.app.popularOp.Start()
		return kh.app, tea.Batch(kh.app.spin.Tick, kh.app.loadPopular()), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.modifierKey+kh.config.Keys.Bindings.LoadMore || key == "m" {
		return kh.app, kh.app.loadMoreRecommendations(), true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewHome:
		wasFiltering := kh.app.popularList.FilterState() == list.Filtering
		kh.app.popularList, cmd = kh.app.popularList.Update(msg)
		if msg.String() == "enter" && !wasFiltering {
			if i, ok := kh.app.popularList.SelectedItem().(movieItem); ok {
				return kh.app, kh.app.chooseMovie(i.movie)
			}
		}
		return kh.app, cmd

	case ViewSearch:
		switch msg.String() {
		case "tab", "shift+tab", "/", "i":
			return kh.focusSearchInput()
		case "up":
			// Refocus the input when already at the top of the results.
			if len(kh.app.searchList.Items()) > 0 && kh.app.searchList.Index() == 0 {
				return kh.focusSearchInput()
			}
		case "enter":
			if i, ok := kh.app.searchList.SelectedItem().(movieItem); ok {
				return kh.app, kh.app.chooseMovie(i.movie)
			}
			return kh.app, nil
		}
		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
		return kh.app, cmd

	case ViewDetail:
		switch msg.String() {
		case "up", "down", "j", "k":
			kh.app.recList, cmd = kh.app.recList.Update(msg)
			return kh.app, cmd
		case "enter":
			if i, ok := kh.app.recList.SelectedItem().(movieItem); ok {
				return kh.app, kh.app.chooseMovie(i.movie)
			}
			return kh.app, nil
		}
		// Everything else scrolls the overview pane.
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	case ViewWatchlist:
		wasFiltering := kh.app.watchList.FilterState() == list.Filtering
		kh.app.watchList, cmd = kh.app.watchList.Update(msg)
		if msg.String() == "enter" && !wasFiltering {
			if i, ok := kh.app.watchList.SelectedItem().(movieItem); ok {
				return kh.app, kh.app.chooseMovie(i.movie)
			}
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// navigateBack implements smart back navigation.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		kh.app.view = kh.app.previousView
		kh.app.searchInput.Reset()
		kh.app.searchListFocused = false
		kh.app.session.Reset()
		kh.app.releaseSearch()
		kh.app.searchList.SetItems([]list.Item{})
		return kh.app, nil

	case ViewDetail:
		kh.app.clearSelection()
		return kh.app, nil

	case ViewWatchlist:
		kh.app.view = ViewHome
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// enterSearchMode transitions to search view with the input focused.
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.previousView = kh.app.view
	kh.app.view = ViewSearch
	kh.app.searchInput.Reset()
	kh.app.searchInput.Focus()
	kh.app.searchListFocused = false
	kh.app.session.Reset()
	kh.app.releaseSearch()
	kh.app.searchList.SetItems([]list.Item{})
	kh.app.statusText = ""
	return kh.app, nil
}

func (kh *KeyHandler) enterWatchlist() (tea.Model, tea.Cmd) {
	if kh.app.view == ViewWatchlist {
		kh.app.view = ViewHome
		return kh.app, nil
	}
	kh.app.view = ViewWatchlist
	return kh.app, kh.app.loadWatchlist()
}

// GetHelpForCurrentView returns only our custom help text (Charm
// handles the rest).
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewHome:
		return []string{
			kh.modifierKey + kh.config.Keys.Bindings.Search + ": search",
			kh.modifierKey + kh.config.Keys.Bindings.Watchlist + ": watch later",
			kh.modifierKey + kh.config.Keys.Bindings.ToggleWatch + ": save",
			"r: reload",
			"q: quit",
		}

	case ViewSearch:
		return []string{
			"enter: select",
			"esc: back",
		}

	case ViewDetail:
		return []string{
			kh.modifierKey + kh.config.Keys.Bindings.LoadMore + ": more recs",
			kh.modifierKey + kh.config.Keys.Bindings.ToggleWatch + ": save",
			kh.modifierKey + kh.config.Keys.Bindings.Search + ": search",
			"esc: back",
		}

	case ViewWatchlist:
		return []string{
			"enter: open",
			kh.modifierKey + kh.config.Keys.Bindings.ToggleWatch + ": remove",
			"esc: back",
		}

	default:
		return []string{}
	}
}
