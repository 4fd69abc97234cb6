package sections

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/homekey-labs/homekey/internal/content"
	"github.com/homekey-labs/homekey/internal/tui/theme"
)

const (
	splashInterval = 80 * time.Millisecond
	splashBarWidth = 32
)

// SplashDoneMsg is sent once when the splash finishes or is skipped.
type SplashDoneMsg struct{}

type splashTickMsg struct{}

// Splash is the startup screen: company name, tagline and an animated
// gradient bar. Any key skips it.
type Splash struct {
	content  *content.Content
	duration time.Duration
	elapsed  time.Duration
	frame    int
	done     bool
	width    int
	height   int
	colors   []string
}

// NewSplash creates a splash that runs for duration.
func NewSplash(c *content.Content, duration time.Duration) *Splash {
	t := theme.Current()
	// A there-and-back gradient so the shifted bar has no seam.
	half := theme.Gradient(t.Primary, t.Accent, splashBarWidth/2)
	colors := append([]string{}, half...)
	for i := len(half) - 1; i >= 0; i-- {
		colors = append(colors, half[i])
	}
	return &Splash{
		content:  c,
		duration: duration,
		width:    80,
		height:   24,
		colors:   colors,
	}
}

// Init starts the animation. A non-positive duration finishes at once.
func (s *Splash) Init() tea.Cmd {
	if s.duration <= 0 {
		return s.finish()
	}
	return s.tick()
}

// Done reports whether the splash has finished.
func (s *Splash) Done() bool {
	return s.done
}

// Progress returns the elapsed fraction in [0, 1].
func (s *Splash) Progress() float64 {
	if s.duration <= 0 {
		return 1
	}
	return min(float64(s.elapsed)/float64(s.duration), 1)
}

func (s *Splash) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *Splash) Update(msg tea.Msg) tea.Cmd {
	if s.done {
		return nil
	}
	switch msg.(type) {
	case splashTickMsg:
		s.frame++
		s.elapsed += splashInterval
		if s.elapsed >= s.duration {
			return s.finish()
		}
		return s.tick()
	case tea.KeyPressMsg, tea.MouseClickMsg:
		return s.finish()
	}
	return nil
}

func (s *Splash) View() string {
	st := theme.Current().S()
	c := s.content

	var bar strings.Builder
	n := len(s.colors)
	for i := 0; i < n; i++ {
		color := s.colors[(i+s.frame)%n]
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
	}

	block := lipgloss.JoinVertical(lipgloss.Center,
		st.HeaderTitle.Render(c.Company),
		"",
		st.SectionSubtitle.Render(c.R(c.Splash)),
		"",
		bar.String(),
		"",
		st.Hint.Render("press any key"),
	)
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, block)
}

func (s *Splash) tick() tea.Cmd {
	return tea.Tick(splashInterval, func(time.Time) tea.Msg {
		return splashTickMsg{}
	})
}

func (s *Splash) finish() tea.Cmd {
	s.done = true
	return func() tea.Msg { return SplashDoneMsg{} }
}
