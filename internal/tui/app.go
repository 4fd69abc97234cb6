// Package tui is the kiosk shell: header, section tabs, the lead form and
// toasts, composed on an ultraviolet screen buffer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/homekey-labs/homekey/internal/config"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/hooks"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/state"
	"github.com/homekey-labs/homekey/internal/tui/address"
	"github.com/homekey-labs/homekey/internal/tui/leadform"
	"github.com/homekey-labs/homekey/internal/tui/sections"
	"github.com/homekey-labs/homekey/internal/tui/theme"
	"github.com/homekey-labs/homekey/internal/tui/wizard"
)

// Tab indexes, in display order.
const (
	TabHome = iota
	TabHow
	TabWhyUs
	TabFAQ
	TabOffer
)

type tab struct {
	title   string
	section sections.Section
}

// ContentSource delivers reloaded copy, e.g. a content.Watcher.
type ContentSource interface {
	Updates() <-chan *content.Content
}

// Options wires the App to its collaborators. Only Store is required to
// take leads; everything else has a usable zero value.
type Options struct {
	Config   *config.Config
	Content  *content.Content
	Updates  ContentSource
	Store    leadform.Submitter
	Searcher geocode.Searcher
	Hooks    *hooks.Config
	WorkDir  string
}

// contentReloadedMsg carries a fresh copy of the content file.
type contentReloadedMsg struct {
	content *content.Content
}

// hooksDoneMsg reports the on_lead_submitted hook run for one lead.
type hooksDoneMsg struct {
	leadID  string
	results []hooks.Result
	err     error
}

// App is the main Bubbletea model for the kiosk.
type App struct {
	cfg     *config.Config
	content *content.Content
	tabs    []tab
	form    *leadform.Form
	splash  *sections.Splash
	toast   *Toast
	layout  Layout

	showSplash bool
	active     int
	width      int
	height     int
	quitting   bool

	uiState *state.UIState
	updates ContentSource
	hooks   *hooks.Config
	workDir string
	now     func() time.Time
}

// NewApp creates a new App.
func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	c := opts.Content
	if c == nil {
		c = content.Default()
	}
	c = c.WithBusiness(cfg.CompanyName, cfg.Phone)

	form := leadform.New(leadform.Options{
		Submitter: opts.Store,
		Searcher:  opts.Searcher,
		Lookup: address.Options{
			Debounce: cfg.Lookup.Debounce,
			MinChars: cfg.Lookup.MinChars,
			Timeout:  cfg.Geocoder.Timeout,
		},
		Content: c,
	})

	a := &App{
		cfg:     cfg,
		content: c,
		form:    form,
		tabs: []tab{
			{title: "Home", section: sections.NewHero(c, "enter")},
			{title: "How It Works", section: sections.NewHowItWorks(c)},
			{title: "Why Us", section: sections.NewTrust(c)},
			{title: "FAQ", section: sections.NewFAQ(c)},
			{title: "Get Offer", section: form},
		},
		splash:  sections.NewSplash(c, cfg.Splash.Duration),
		toast:   NewToast(),
		uiState: state.Load(cfg.DataDir),
		updates: opts.Updates,
		hooks:   opts.Hooks,
		workDir: opts.WorkDir,
		now:     time.Now,
	}
	a.showSplash = a.uiState.ShowSplash(cfg.Splash.Always)
	for i, t := range a.tabs {
		if sections.Anchor(t.title) == a.uiState.LastSection {
			a.active = i
		}
	}
	return a
}

// Init starts the splash, focuses the form when it is the restored tab and
// begins listening for content reloads.
func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.showSplash {
		cmds = append(cmds, a.splash.Init())
	}
	if a.active == TabOffer {
		cmds = append(cmds, a.form.Init())
	}
	cmds = append(cmds, a.waitForContent())
	return tea.Batch(cmds...)
}

// Active returns the index of the visible tab.
func (a *App) Active() int { return a.active }

// Layout returns the current layout.
func (a *App) Layout() Layout { return a.layout }

// Form returns the lead form.
func (a *App) Form() *leadform.Form { return a.form }

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyPressMsg:
		return a, a.handleKey(msg)

	case tea.MouseClickMsg:
		if a.showSplash {
			return a, a.splash.Update(msg)
		}
		return a, a.handleMouse(msg)

	case sections.SplashDoneMsg:
		a.showSplash = false
		a.uiState.MarkSplashSeen(a.now())
		a.saveUIState()
		return a, nil

	case wizard.CancelledMsg:
		return a, a.setActive(TabHome)

	case leadform.SubmittedMsg:
		cmd := a.form.Update(msg)
		name := "there"
		if msg.Lead != nil && msg.Lead.Contact.FirstName != "" {
			name = msg.Lead.Contact.FirstName
		}
		return a, tea.Batch(
			cmd,
			a.toast.Show(fmt.Sprintf("Thanks %s, we got your request!", name), ToastSuccess),
			a.runHooks(msg.Lead),
		)

	case leadform.SubmitFailedMsg:
		cmd := a.form.Update(msg)
		return a, tea.Batch(
			cmd,
			a.toast.Show(a.content.R("We couldn't send your request. Try again or call {{phone}}."), ToastError),
		)

	case hooksDoneMsg:
		a.logHooks(msg)
		return a, nil

	case contentReloadedMsg:
		a.applyContent(msg.content)
		logger.Info("Content reloaded")
		return a, tea.Batch(
			a.toast.Show("Page content updated", ToastInfo),
			a.waitForContent(),
		)

	case ShowToastMsg:
		return a, a.toast.Show(msg.Text, msg.Kind)

	case ToastDismissMsg:
		return a, a.toast.Update(msg)
	}

	// Timers, lookups and spinners. The form always gets them so a lookup
	// or submit started on the offer tab finishes in the background.
	var cmds []tea.Cmd
	if a.showSplash {
		cmds = append(cmds, a.splash.Update(msg))
	}
	cmds = append(cmds, a.form.Update(msg))
	if a.active != TabOffer {
		cmds = append(cmds, a.tabs[a.active].section.Update(msg))
	}
	return a, tea.Batch(cmds...)
}

// handleKey routes a key press. ctrl+c always quits and alt+1..5 always
// switch tabs. On the offer tab every other key belongs to the form, so
// typing a digit into a field never changes the page.
func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		a.quitting = true
		a.saveUIState()
		return tea.Quit
	}
	if a.showSplash {
		return a.splash.Update(msg)
	}
	if i, ok := tabForKey(key, "alt+", len(a.tabs)); ok {
		return a.setActive(i)
	}
	if a.active == TabOffer {
		return a.form.Update(msg)
	}
	if i, ok := tabForKey(key, "", len(a.tabs)); ok {
		return a.setActive(i)
	}

	switch key {
	case "tab", "right":
		return a.setActive((a.active + 1) % len(a.tabs))
	case "shift+tab", "left":
		return a.setActive((a.active + len(a.tabs) - 1) % len(a.tabs))
	case "enter":
		if a.active == TabHome {
			return a.setActive(TabOffer)
		}
	}
	return a.tabs[a.active].section.Update(msg)
}

// tabForKey maps "1".."9" (with an optional modifier prefix) to a tab index.
func tabForKey(key, prefix string, count int) (int, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || len(rest) != 1 || rest[0] < '1' || rest[0] > '9' {
		return 0, false
	}
	i := int(rest[0] - '1')
	return i, i < count
}

func (a *App) handleMouse(msg tea.MouseClickMsg) tea.Cmd {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	for i, r := range a.tabRects() {
		if mouse.X >= r.Min.X && mouse.X < r.Max.X && mouse.Y >= r.Min.Y && mouse.Y < r.Max.Y {
			return a.setActive(i)
		}
	}
	return a.tabs[a.active].section.Update(msg)
}

// setActive switches tabs and remembers the choice.
func (a *App) setActive(i int) tea.Cmd {
	if i < 0 || i >= len(a.tabs) || i == a.active {
		return nil
	}
	a.active = i
	a.uiState.LastSection = sections.Anchor(a.tabs[i].title)
	a.saveUIState()
	if i == TabOffer {
		return a.form.Init()
	}
	return nil
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.layout = CalculateLayout(width, height, len(a.tabs))
	compact := a.layout.IsCompact()
	for _, t := range a.tabs {
		t.section.SetCompact(compact)
		t.section.SetSize(a.layout.Body.Dx(), a.layout.Body.Dy())
	}
	a.splash.SetSize(width, height)
}

// applyContent swaps in reloaded copy. Company and phone from the config
// still win over the file.
func (a *App) applyContent(c *content.Content) {
	if c == nil {
		return
	}
	a.content = c.WithBusiness(a.cfg.CompanyName, a.cfg.Phone)
	for _, t := range a.tabs {
		t.section.SetContent(a.content)
	}
}

// waitForContent blocks on the next content reload.
func (a *App) waitForContent() tea.Cmd {
	if a.updates == nil {
		return nil
	}
	ch := a.updates.Updates()
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return contentReloadedMsg{content: c}
	}
}

// runHooks fires the on_lead_submitted hooks off the event loop.
func (a *App) runHooks(l *lead.Lead) tea.Cmd {
	if l == nil || a.hooks == nil || len(a.hooks.Hooks.OnLeadSubmitted) == 0 {
		return nil
	}
	cfg, dir := a.hooks, a.workDir
	return func() tea.Msg {
		results, err := hooks.RunLeadSubmitted(context.Background(), cfg, dir, l)
		return hooksDoneMsg{leadID: l.ID, results: results, err: err}
	}
}

func (a *App) logHooks(msg hooksDoneMsg) {
	if msg.err != nil {
		logger.Warn("Hooks for lead %s stopped: %v", msg.leadID, msg.err)
	}
	failed := 0
	for _, r := range msg.results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("Ran %d hooks for lead %s (%d failed)", len(msg.results), msg.leadID, failed)
}

// saveUIState persists the current UI state to disk.
func (a *App) saveUIState() {
	if err := state.Save(a.cfg.DataDir, a.uiState); err != nil {
		logger.Warn("failed to save UI state: %v", err)
	}
}

// View renders the current view. In Bubbletea v2, this returns tea.View
// with display options like AltScreen and MouseMode.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting || a.width <= 0 || a.height <= 0 {
		view.AltScreen = !a.quitting
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = lipgloss.Color(theme.Current().BgBase)
	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	if a.showSplash {
		uv.NewStyledString(a.splash.View()).Draw(scr, area)
		return
	}

	uv.NewStyledString(a.renderHeader(a.layout.Header.Dx())).Draw(scr, a.layout.Header)
	uv.NewStyledString(a.renderTabs()).Draw(scr, a.layout.Tabs)
	uv.NewStyledString(a.tabs[a.active].section.View()).Draw(scr, a.layout.Body)
	uv.NewStyledString(a.renderFooter()).Draw(scr, a.layout.Footer)

	// Toast last so it sits on top, bottom-right above the footer.
	if toast := a.toast.View(area.Dx() - 2); toast != "" {
		w, h := lipgloss.Width(toast), lipgloss.Height(toast)
		x := max(area.Max.X-w-1, area.Min.X)
		y := max(a.layout.Footer.Min.Y-h, area.Min.Y)
		uv.NewStyledString(toast).Draw(scr, uv.Rect(x, y, w, h))
	}
}

func (a *App) renderHeader(width int) string {
	s := theme.Current().S()
	left := s.HeaderTitle.Render("⌂ " + a.content.Company)
	right := s.HeaderPhone.Render("☎ " + a.content.Phone)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) tabLabel(i int) string {
	s := theme.Current().S()
	label := fmt.Sprintf("%d %s", i+1, a.tabs[i].title)
	if i == a.active {
		return s.TabActive.Render(label)
	}
	return s.TabInactive.Render(label)
}

// tabRects returns the screen rectangle of each tab label.
func (a *App) tabRects() []uv.Rectangle {
	rects := make([]uv.Rectangle, len(a.tabs))
	origin := a.layout.Tabs.Min
	x := origin.X
	for i := range a.tabs {
		w := lipgloss.Width(a.tabLabel(i))
		if a.layout.IsCompact() {
			rects[i] = uv.Rect(origin.X, origin.Y+i, w, 1)
			continue
		}
		rects[i] = uv.Rect(x, origin.Y, w, 1)
		x += w + 1
	}
	return rects
}

func (a *App) renderTabs() string {
	labels := make([]string, len(a.tabs))
	for i := range a.tabs {
		labels[i] = a.tabLabel(i)
	}
	if a.layout.IsCompact() {
		return strings.Join(labels, "\n")
	}
	return strings.Join(labels, " ")
}

func (a *App) renderFooter() string {
	s := theme.Current().S()
	if a.active == TabOffer {
		if a.form.Editing() {
			return s.HintBar("alt+1-5", "sections", "ctrl+c", "quit")
		}
		return s.HintBar("esc", "back", "alt+1-5", "sections", "ctrl+c", "quit")
	}
	return s.HintBar("1-5", "sections", "←/→", "switch", "ctrl+c", "quit")
}
