package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/browser"
	"github.com/Sanket-2736/newsreader/internal/config"
	"github.com/Sanket-2736/newsreader/internal/loader"
	"github.com/Sanket-2736/newsreader/internal/news"
	"github.com/Sanket-2736/newsreader/internal/store"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type view int

const (
	viewFeed view = iota
	viewSearch
	viewSaved
	viewHistory
	viewSettings
	viewHelp
)

type App struct {
	cfg     *config.Config
	loader  *loader.Loader
	cache   *store.NewsCache
	saved   *store.Saved
	history *store.History
	log     *zap.Logger
	ctx     context.Context

	view     view
	prevView view
	catIdx   int
	articles []news.Article
	savedSet map[string]bool
	cursor   int
	focus    focusPane

	width  int
	height int

	searchInput textinput.Model
	searchGen   int
	spinner     spinner.Model

	loading       bool
	refreshing    bool
	fromCache     bool
	errText       string
	status        string
	previewScroll int

	cacheInfo    *store.Info
	savedCount   int
	historyCount int
	currentDate  string
}

// Opts holds all parameters for launching the TUI.
type Opts struct {
	Cfg     *config.Config
	Loader  *loader.Loader
	Cache   *store.NewsCache
	Saved   *store.Saved
	History *store.History
	Log     *zap.Logger
}

func NewApp(opts Opts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search for articles..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return &App{
		cfg:         opts.Cfg,
		loader:      opts.Loader,
		cache:       opts.Cache,
		saved:       opts.Saved,
		history:     opts.History,
		log:         opts.Log,
		ctx:         context.Background(),
		savedSet:    make(map[string]bool),
		searchInput: ti,
		spinner:     sp,
		currentDate: time.Now().Format("Jan 2"),
	}
}

func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(a.loadFeedCmd(a.category(), true), a.spinner.Tick, a.loadSavedSetCmd())
}

func (a *App) category() string {
	return a.cfg.Categories[a.catIdx]
}

// tabIndex maps the current view onto the tab bar.
func (a *App) tabIndex() int {
	switch a.view {
	case viewFeed:
		return a.catIdx
	case viewSearch:
		return len(a.cfg.Categories)
	case viewSaved:
		return len(a.cfg.Categories) + 1
	case viewHistory:
		return len(a.cfg.Categories) + 2
	case viewSettings:
		return len(a.cfg.Categories) + 3
	}
	return a.catIdx
}

// ---- commands ----

func (a *App) loadFeedCmd(category string, useCache bool) tea.Cmd {
	ld := a.loader
	ctx := a.ctx
	return func() tea.Msg {
		res, updates := ld.Load(ctx, category, useCache)
		return feedLoadedMsg{result: res, updates: updates}
	}
}

// waitForRefresh relays the background refresh outcome into the event loop.
func waitForRefresh(updates <-chan loader.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-updates
		if !ok {
			return nil
		}
		return refreshDoneMsg{result: res}
	}
}

// armDebounce starts the search quiescence timer. Each keystroke bumps the
// generation, so only the last armed timer survives to fire a search.
func (a *App) armDebounce() tea.Cmd {
	a.searchGen++
	gen := a.searchGen
	return tea.Tick(a.cfg.SearchDebounceDuration(), func(time.Time) tea.Msg {
		return debounceFiredMsg{gen: gen}
	})
}

func (a *App) searchCmd(gen int, query string) tea.Cmd {
	ld := a.loader
	ctx := a.ctx
	return func() tea.Msg {
		return searchDoneMsg{gen: gen, result: ld.Search(ctx, query)}
	}
}

func (a *App) loadSavedSetCmd() tea.Cmd {
	s := a.saved
	ctx := a.ctx
	return func() tea.Msg {
		list, err := s.List(ctx)
		if err != nil {
			return nil
		}
		return savedListMsg{articles: list}
	}
}

func (a *App) loadHistoryCmd() tea.Cmd {
	h := a.history
	ctx := a.ctx
	return func() tea.Msg {
		entries, err := h.List(ctx)
		if err != nil {
			return historyListMsg{}
		}
		return historyListMsg{entries: entries}
	}
}

func (a *App) loadCacheInfoCmd() tea.Cmd {
	c, s, h := a.cache, a.saved, a.history
	ctx := a.ctx
	return func() tea.Msg {
		info, err := c.Info(ctx)
		if err != nil {
			info = store.Info{Categories: map[string]store.CategoryInfo{}}
		}
		return cacheInfoMsg{info: info, savedCount: s.Count(ctx), historyCount: h.Count(ctx)}
	}
}

func (a *App) clearCacheCmd() tea.Cmd {
	c := a.cache
	ctx := a.ctx
	return func() tea.Msg {
		return cacheClearedMsg{err: c.Clear(ctx)}
	}
}

func (a *App) toggleSaveCmd(article news.Article) tea.Cmd {
	s := a.saved
	ctx := a.ctx
	return func() tea.Msg {
		already, err := s.IsSaved(ctx, article.URL)
		if err != nil {
			return statusMsg{text: "Failed to save article"}
		}
		if already {
			if err := s.Remove(ctx, article.URL); err != nil {
				return statusMsg{text: "Failed to remove article"}
			}
			return statusMsg{text: "Article removed from saved list"}
		}
		saved, err := s.Save(ctx, article)
		switch {
		case err != nil:
			return statusMsg{text: "Failed to save article"}
		case !saved:
			return statusMsg{text: "Article already saved"}
		default:
			return statusMsg{text: "Article saved for offline reading"}
		}
	}
}

func (a *App) openArticleCmd(article news.Article) tea.Cmd {
	h := a.history
	ctx := a.ctx
	return func() tea.Msg {
		h.Record(ctx, article)
		return openDoneMsg{err: browser.Open(article.URL)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// ---- update ----

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case feedLoadedMsg:
		return a.handleFeedLoaded(msg)

	case refreshDoneMsg:
		a.refreshing = false
		// Discard a refresh that landed after the user moved on.
		if a.view != viewFeed || msg.result.Category != a.category() {
			return a, nil
		}
		if msg.result.Err != nil {
			// Content is already on screen; a failed background refresh is
			// logged, never shown.
			a.log.Info("background refresh failed", zap.String("category", msg.result.Category), zap.Error(msg.result.Err))
			return a, nil
		}
		a.articles = msg.result.Articles
		a.fromCache = false
		a.clampCursor()
		return a, nil

	case debounceFiredMsg:
		if msg.gen != a.searchGen || a.view != viewSearch {
			return a, nil
		}
		query := strings.TrimSpace(a.searchInput.Value())
		if query == "" {
			a.articles = nil
			a.errText = ""
			a.loading = false
			return a, nil
		}
		a.loading = true
		a.errText = ""
		return a, tea.Batch(a.searchCmd(msg.gen, query), a.spinner.Tick)

	case searchDoneMsg:
		// A superseded query or a screen switch invalidates the result.
		if msg.gen != a.searchGen || a.view != viewSearch {
			return a, nil
		}
		a.loading = false
		if msg.result.Err != nil {
			a.articles = nil
			a.errText = friendlyError(msg.result.Err)
			return a, nil
		}
		a.articles = msg.result.Articles
		a.errText = ""
		a.cursor = 0
		return a, nil

	case savedListMsg:
		a.savedSet = make(map[string]bool, len(msg.articles))
		for _, sa := range msg.articles {
			a.savedSet[sa.URL] = true
		}
		a.savedCount = len(msg.articles)
		if a.view == viewSaved {
			a.articles = make([]news.Article, len(msg.articles))
			for i, sa := range msg.articles {
				a.articles[i] = sa.Article
			}
			a.clampCursor()
		}
		return a, nil

	case historyListMsg:
		a.historyCount = len(msg.entries)
		if a.view == viewHistory {
			a.articles = make([]news.Article, len(msg.entries))
			for i, e := range msg.entries {
				a.articles[i] = e.Article
			}
			a.clampCursor()
		}
		return a, nil

	case cacheInfoMsg:
		info := msg.info
		a.cacheInfo = &info
		a.savedCount = msg.savedCount
		a.historyCount = msg.historyCount
		return a, nil

	case cacheClearedMsg:
		if msg.err != nil {
			a.status = "Failed to clear cache"
		} else {
			a.status = "Cache cleared successfully"
		}
		return a, tea.Batch(a.loadCacheInfoCmd(), clearStatusAfter(3*time.Second))

	case statusMsg:
		a.status = msg.text
		return a, tea.Batch(a.loadSavedSetCmd(), clearStatusAfter(3*time.Second))

	case clearStatusMsg:
		a.status = ""
		return a, nil

	case openDoneMsg:
		if msg.err != nil {
			a.status = "Could not open browser"
			return a, clearStatusAfter(3 * time.Second)
		}
		return a, a.loadHistoryCmd()

	case spinner.TickMsg:
		if a.loading || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleFeedLoaded(msg feedLoadedMsg) (tea.Model, tea.Cmd) {
	// Late result for a category the user already left.
	if a.view != viewFeed || msg.result.Category != a.category() {
		return a, nil
	}
	a.loading = false
	a.refreshing = false

	if msg.result.Err != nil {
		if len(a.articles) > 0 {
			// A transient failure never displaces a working feed.
			a.log.Info("feed load failed with content visible", zap.Error(msg.result.Err))
			return a, nil
		}
		a.errText = friendlyError(msg.result.Err)
		return a, nil
	}

	a.articles = msg.result.Articles
	a.fromCache = msg.result.FromCache
	a.errText = ""
	a.clampCursor()

	if msg.updates != nil {
		return a, waitForRefresh(msg.updates)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.view == viewSearch && a.searchInput.Focused() {
		return a.handleSearchKey(msg)
	}
	if a.view == viewHelp {
		switch msg.String() {
		case "?", "esc", "q":
			a.view = a.prevView
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.prevView = a.view
		a.view = viewHelp
		return a, nil
	case "tab", "]", "right":
		return a, a.setTab(a.tabIndex() + 1)
	case "shift+tab", "[", "left":
		return a, a.setTab(a.tabIndex() - 1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return a, a.setTab(int(msg.String()[0] - '1'))
	case "/":
		return a, a.setTab(len(a.cfg.Categories))
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.articles)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "enter", "o":
		if art, ok := a.selected(); ok {
			return a, a.openArticleCmd(art)
		}
		return a, nil
	case "s":
		if art, ok := a.selected(); ok {
			return a, a.toggleSaveCmd(art)
		}
		return a, nil
	case "p":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "r":
		if a.view == viewFeed && !a.refreshing {
			a.refreshing = true
			a.errText = ""
			return a, tea.Batch(a.loadFeedCmd(a.category(), false), a.spinner.Tick)
		}
		return a, nil
	case "c":
		if a.view == viewSettings {
			return a, a.clearCacheCmd()
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searchInput.Blur()
		return a, nil
	case "enter":
		// Fire immediately, skipping the remaining quiescence window.
		a.searchInput.Blur()
		query := strings.TrimSpace(a.searchInput.Value())
		if query == "" {
			return a, nil
		}
		a.searchGen++
		a.loading = true
		return a, tea.Batch(a.searchCmd(a.searchGen, query), a.spinner.Tick)
	case "tab":
		a.searchInput.Blur()
		return a, a.setTab(a.tabIndex() + 1)
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if a.searchInput.Value() != before {
		return a, tea.Batch(cmd, a.armDebounce())
	}
	return a, cmd
}

// setTab switches the active tab; entering a tab is "screen focus" and
// triggers that screen's load.
func (a *App) setTab(i int) tea.Cmd {
	total := len(a.cfg.Categories) + len(extraTabs)
	if i < 0 {
		i = total - 1
	}
	if i >= total {
		i = 0
	}

	leavingSearch := a.view == viewSearch
	a.cursor = 0
	a.previewScroll = 0
	a.focus = focusList
	a.errText = ""
	a.articles = nil

	if leavingSearch {
		// Cancel any pending debounce timer and drop the query, matching
		// the clear-on-blur behavior of the search screen.
		a.searchGen++
		a.searchInput.SetValue("")
		a.searchInput.Blur()
	}

	switch {
	case i < len(a.cfg.Categories):
		a.view = viewFeed
		a.catIdx = i
		a.loading = true
		return tea.Batch(a.loadFeedCmd(a.category(), true), a.spinner.Tick)
	case i == len(a.cfg.Categories):
		a.view = viewSearch
		a.loading = false
		a.searchInput.Focus()
		return textinput.Blink
	case i == len(a.cfg.Categories)+1:
		a.view = viewSaved
		a.loading = false
		return a.loadSavedSetCmd()
	case i == len(a.cfg.Categories)+2:
		a.view = viewHistory
		a.loading = false
		return a.loadHistoryCmd()
	default:
		a.view = viewSettings
		a.loading = false
		return a.loadCacheInfoCmd()
	}
}

func (a *App) selected() (news.Article, bool) {
	if len(a.articles) == 0 || a.cursor >= len(a.articles) {
		return news.Article{}, false
	}
	return a.articles[a.cursor], true
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.articles) {
		a.cursor = len(a.articles) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// friendlyError maps loader and API failures to user-facing text.
func friendlyError(err error) string {
	if errors.Is(err, loader.ErrNoArticles) {
		return err.Error()
	}
	var apiErr *news.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return "API rate limit exceeded. Please try again later."
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return "Please check your internet connection and try again."
}

// ---- view ----

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorPrimary).Render("  newsreader")
	}
	if a.view == viewHelp {
		return a.renderHelp()
	}

	headerLeft := headerStyle.Render("newsreader")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	tabs := renderTabs(a.cfg.Categories, a.tabIndex(), a.width)

	headerHeight := 1
	tabsHeight := 1
	statusHeight := 1
	searchHeight := 0
	if a.view == viewSearch {
		searchHeight = 1
	}
	contentHeight := a.height - headerHeight - tabsHeight - statusHeight - searchHeight - 4 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	if a.view == viewSettings {
		content = renderSettings(a.cacheInfo, a.savedCount, a.historyCount, a.width, contentHeight+4)
	} else {
		content = a.renderSplitPane(contentHeight)
	}

	label := a.viewLabel()
	status := renderStatusBar(len(a.articles), label, a.width, a.view == viewSearch && a.searchInput.Focused(), a.refreshing, a.status, a.errText)
	if a.loading || a.refreshing {
		status = a.spinner.View() + " " + status
	}

	rows := []string{header, tabs}
	if a.view == viewSearch {
		rows = append(rows, " "+a.searchInput.View())
	}
	rows = append(rows, content, status)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderSplitPane(contentHeight int) string {
	listWidth := int(float64(a.width) * 0.38)
	previewWidth := a.width - listWidth - 1

	innerListW := listWidth - 4
	listContent := renderList(a.articles, a.cursor, a.savedSet, contentHeight, innerListW, a.emptyMessage())

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	var sel *news.Article
	if len(a.articles) > 0 && a.cursor < len(a.articles) {
		sel = &a.articles[a.cursor]
	}
	innerPreviewW := previewWidth - 4
	var isSaved bool
	if sel != nil {
		isSaved = a.savedSet[sel.URL]
	}
	previewContent := renderPreview(sel, isSaved, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

func (a *App) viewLabel() string {
	switch a.view {
	case viewFeed:
		label := capitalize(a.category())
		if a.fromCache {
			label += " · cached"
		}
		return label
	case viewSearch:
		return "Search"
	case viewSaved:
		return "Saved"
	case viewHistory:
		return "History"
	case viewSettings:
		return "Settings"
	}
	return ""
}

func (a *App) emptyMessage() string {
	if a.loading {
		return "Loading..."
	}
	switch a.view {
	case viewSearch:
		if strings.TrimSpace(a.searchInput.Value()) == "" {
			return "Enter a keyword to find articles"
		}
		return "No results found"
	case viewSaved:
		return "No saved articles yet"
	case viewHistory:
		return "Nothing read yet"
	default:
		if a.errText != "" {
			return "Press r to retry"
		}
		return "No articles found"
	}
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("newsreader")
	dim := settingsDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓      Move within the article list\n" +
		"  tab, [/]       Switch tabs\n" +
		"  1-9            Jump to category\n" +
		"  p              Toggle list/preview focus\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter       Open article in browser\n" +
		"  s              Save / unsave article\n" +
		"  r              Refresh current feed\n" +
		"  /              Search\n" +
		"  c              Clear cache (settings tab)\n\n" +
		dim.Render("General") + "\n" +
		"  ?              Toggle this help\n" +
		"  q, ctrl+c      Quit"

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 3).
		Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts Opts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
