package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/homekey-labs/homekey/internal/config"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/hooks"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/state"
	"github.com/homekey-labs/homekey/internal/tui/leadform"
	"github.com/homekey-labs/homekey/internal/tui/sections"
	"github.com/homekey-labs/homekey/internal/tui/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

var (
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	keyRight = tea.KeyPressMsg{Code: tea.KeyRight}
	keyLeft  = tea.KeyPressMsg{Code: tea.KeyLeft}
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keyCtrlC = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
)

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func alt(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModAlt}
}

type fakeStore struct {
	err error
}

func (s *fakeStore) Submit(_ context.Context, l lead.Lead) (*lead.Lead, error) {
	if s.err != nil {
		return nil, s.err
	}
	l.ID = "lead-7"
	return &l, nil
}

type fakeUpdates struct {
	ch chan *content.Content
}

func (f *fakeUpdates) Updates() <-chan *content.Content { return f.ch }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.CompanyName = "Acme Homes"
	cfg.Phone = "(555) 123-4567"
	return cfg
}

func markSplashSeen(t *testing.T, dataDir string) {
	t.Helper()
	st := state.DefaultUIState()
	st.MarkSplashSeen(time.Now())
	require.NoError(t, state.Save(dataDir, st))
}

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
		markSplashSeen(t, opts.Config.DataDir)
	}
	if opts.Store == nil {
		opts.Store = &fakeStore{}
	}
	a := NewApp(opts)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func press(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func screen(a *App) string {
	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	return ansi.Strip(canvas.Render())
}

func lineOf(s, sub string) int {
	for i, line := range strings.Split(s, "\n") {
		if strings.Contains(line, sub) {
			return i
		}
	}
	return -1
}

func TestApp_FirstRunShowsSplash(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, Options{Config: cfg})

	require.True(t, a.showSplash)
	assert.Contains(t, screen(a), "press any key")

	cmd := press(a, char('x'))
	require.NotNil(t, cmd)
	done, ok := cmd().(sections.SplashDoneMsg)
	require.True(t, ok)
	press(a, done)

	assert.False(t, a.showSplash)
	assert.Equal(t, TabHome, a.Active(), "the skipping key does not reach the page")
	assert.True(t, state.Load(cfg.DataDir).Splash.Seen)
	assert.Contains(t, screen(a), "Acme Homes")
}

func TestApp_SplashSkippedOnceSeen(t *testing.T) {
	a := newTestApp(t, Options{})
	assert.False(t, a.showSplash)

	cfg := testConfig(t)
	markSplashSeen(t, cfg.DataDir)
	cfg.Splash.Always = true
	assert.True(t, newTestApp(t, Options{Config: cfg}).showSplash, "splash.always forces it")
}

func TestApp_KeysSwitchTabs(t *testing.T) {
	a := newTestApp(t, Options{})

	press(a, char('3'))
	assert.Equal(t, TabWhyUs, a.Active())
	press(a, keyRight)
	assert.Equal(t, TabFAQ, a.Active())
	press(a, keyLeft)
	assert.Equal(t, TabWhyUs, a.Active())
	press(a, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, TabHow, a.Active())
	press(a, keyLeft)
	press(a, keyLeft)
	assert.Equal(t, TabOffer, a.Active(), "left wraps around")
}

func TestApp_OfferTabKeepsPlainKeys(t *testing.T) {
	a := newTestApp(t, Options{})

	press(a, char('5'))
	require.Equal(t, TabOffer, a.Active())

	press(a, char('1'))
	press(a, keyRight)
	assert.Equal(t, TabOffer, a.Active(), "digits and arrows belong to the form")
	assert.Equal(t, "1", a.Form().Lead().Address.Line)

	press(a, alt('1'))
	assert.Equal(t, TabHome, a.Active(), "alt+digit switches from anywhere")
}

func TestApp_EnterOnHomeOpensOffer(t *testing.T) {
	a := newTestApp(t, Options{})

	press(a, keyEnter)
	assert.Equal(t, TabOffer, a.Active())
}

func TestApp_EscOnFirstStepReturnsHome(t *testing.T) {
	a := newTestApp(t, Options{})
	press(a, char('5'))

	cmd := press(a, keyEsc)
	require.NotNil(t, cmd)
	msg, ok := cmd().(wizard.CancelledMsg)
	require.True(t, ok)

	press(a, msg)
	assert.Equal(t, TabHome, a.Active())
}

func TestApp_RestoresLastSection(t *testing.T) {
	cfg := testConfig(t)
	markSplashSeen(t, cfg.DataDir)
	a := newTestApp(t, Options{Config: cfg})
	press(a, char('4'))

	assert.Equal(t, "faq", state.Load(cfg.DataDir).LastSection)
	assert.Equal(t, TabFAQ, newTestApp(t, Options{Config: cfg}).Active())
}

func TestApp_SectionKeysReachActiveSection(t *testing.T) {
	a := newTestApp(t, Options{})
	press(a, char('4'))

	faq := a.tabs[TabFAQ].section.(*sections.FAQ)
	press(a, keyDown)
	assert.Equal(t, 1, faq.Selected())
	press(a, keyEnter)
	assert.Equal(t, 1, faq.Open())
	assert.Equal(t, TabFAQ, a.Active(), "enter only opens the form from home")
}

func TestApp_DesktopScreen(t *testing.T) {
	a := newTestApp(t, Options{})
	out := screen(a)

	assert.Contains(t, out, "⌂ Acme Homes")
	assert.Contains(t, out, "☎ (555) 123-4567")
	assert.Equal(t, lineOf(out, "1 Home"), lineOf(out, "5 Get Offer"), "tabs share one row")
	assert.Contains(t, out, "ctrl+c quit")
	assert.Contains(t, out, "Get My Cash Offer")
}

func TestApp_CompactStacksTabs(t *testing.T) {
	a := newTestApp(t, Options{})
	press(a, tea.WindowSizeMsg{Width: 80, Height: 30})

	require.True(t, a.Layout().IsCompact())
	out := screen(a)
	home, how := lineOf(out, "1 Home"), lineOf(out, "2 How It Works")
	require.NotEqual(t, -1, home)
	assert.Equal(t, home+1, how)
}

func TestApp_MouseClickSwitchesTab(t *testing.T) {
	a := newTestApp(t, Options{})

	r := a.tabRects()[TabFAQ]
	press(a, tea.MouseClickMsg{X: r.Min.X + 1, Y: r.Min.Y, Button: tea.MouseLeft})
	assert.Equal(t, TabFAQ, a.Active())

	r = a.tabRects()[TabHow]
	press(a, tea.MouseClickMsg{X: r.Min.X, Y: r.Min.Y, Button: tea.MouseRight})
	assert.Equal(t, TabFAQ, a.Active(), "only left clicks switch")
}

func TestApp_SubmittedShowsToast(t *testing.T) {
	a := newTestApp(t, Options{})
	press(a, char('5'))

	cmd := press(a, leadform.SubmittedMsg{Lead: &lead.Lead{ID: "lead-7", Contact: lead.Contact{FirstName: "Dana"}}})
	assert.NotNil(t, cmd)
	assert.Equal(t, wizard.StatusSubmitted, a.Form().Wizard().Status())
	assert.Contains(t, a.toast.Message(), "Thanks Dana")
	assert.Contains(t, screen(a), "Thanks Dana")
}

func TestApp_SubmitFailedShowsErrorToast(t *testing.T) {
	a := newTestApp(t, Options{})
	press(a, char('5'))

	press(a, leadform.SubmitFailedMsg{Err: errors.New("stream unavailable")})
	assert.Contains(t, a.toast.Message(), "(555) 123-4567")
	assert.NotEqual(t, wizard.StatusSubmitted, a.Form().Wizard().Status())
}

func TestApp_SubmitFailedIsNotLoggedByShell(t *testing.T) {
	var buf bytes.Buffer
	logger.Default.SetOutput(&buf)
	t.Cleanup(func() { logger.Default.SetOutput(io.Discard) })

	a := newTestApp(t, Options{})
	press(a, char('5'))
	press(a, leadform.SubmitFailedMsg{Err: errors.New("stream unavailable")})

	assert.NotContains(t, buf.String(), "stream unavailable", "the form's submit command already logs the failure")
}

func TestApp_RunHooks(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, Options{
		WorkDir: dir,
		Hooks: &hooks.Config{Hooks: hooks.HooksConfig{
			OnLeadSubmitted: []*hooks.HookConfig{{Command: "cat > lead.json"}},
		}},
	})

	cmd := a.runHooks(&lead.Lead{ID: "lead-7"})
	require.NotNil(t, cmd)
	done, ok := cmd().(hooksDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.Len(t, done.results, 1)
	assert.NoError(t, done.results[0].Err)

	data, err := os.ReadFile(filepath.Join(dir, "lead.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lead-7"`)

	assert.Nil(t, newTestApp(t, Options{}).runHooks(&lead.Lead{ID: "x"}), "no hooks configured")
}

func TestApp_ContentReload(t *testing.T) {
	src := &fakeUpdates{ch: make(chan *content.Content, 1)}
	a := newTestApp(t, Options{Updates: src})

	c := content.Default()
	c.Company = "Someone Else"
	c.Hero.Headline = "We buy houses in Springfield"
	src.ch <- c

	msg := a.waitForContent()()
	require.IsType(t, contentReloadedMsg{}, msg)
	cmd := press(a, msg)
	assert.NotNil(t, cmd, "keeps listening")

	out := screen(a)
	assert.Contains(t, out, "We buy houses in Springfield")
	assert.Contains(t, out, "⌂ Acme Homes", "configured company wins over the file")
	assert.Equal(t, "Page content updated", a.toast.Message())

	close(src.ch)
	assert.Nil(t, a.waitForContent()())
	assert.Nil(t, newTestApp(t, Options{}).waitForContent())
}

func TestApp_CtrlCQuits(t *testing.T) {
	cfg := testConfig(t)
	markSplashSeen(t, cfg.DataDir)
	a := newTestApp(t, Options{Config: cfg})
	press(a, char('5'))

	cmd := press(a, keyCtrlC)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.True(t, a.quitting)
	assert.Equal(t, "get-offer", state.Load(cfg.DataDir).LastSection)
}

func TestTabForKey(t *testing.T) {
	tests := []struct {
		key    string
		prefix string
		want   int
		ok     bool
	}{
		{key: "1", want: 0, ok: true},
		{key: "5", want: 4, ok: true},
		{key: "6", ok: false},
		{key: "0", ok: false},
		{key: "alt+2", prefix: "alt+", want: 1, ok: true},
		{key: "alt+2", ok: false},
		{key: "2", prefix: "alt+", ok: false},
		{key: "enter", ok: false},
	}
	for _, tt := range tests {
		got, ok := tabForKey(tt.key, tt.prefix, 5)
		assert.Equal(t, tt.ok, ok, tt.key)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.key)
		}
	}
}
