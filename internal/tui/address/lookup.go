// Package address provides debounced address autocomplete for the lead form.
package address

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/logger"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultDebounce = 400 * time.Millisecond
	DefaultMinChars = 3
	DefaultTimeout  = 10 * time.Second
)

// Options configures a Lookup.
type Options struct {
	Debounce time.Duration
	MinChars int
	Timeout  time.Duration
}

// debounceMsg fires once the query has been quiet for the debounce window.
type debounceMsg struct {
	seq uint64
}

// resultsMsg carries a finished search back to the event loop.
type resultsMsg struct {
	seq        uint64
	candidates []geocode.Candidate
	err        error
}

// Lookup turns a stream of query edits into at most one search per quiet
// period. Every edit bumps seq; ticks and responses tagged with an older seq
// are ignored.
type Lookup struct {
	searcher geocode.Searcher
	debounce time.Duration
	minChars int
	timeout  time.Duration

	query   string
	seq     uint64
	results []geocode.Candidate
	applied uint64
	loading bool
	cancel  context.CancelFunc
}

// New creates a Lookup backed by searcher.
func New(searcher geocode.Searcher, opts Options) *Lookup {
	if opts.Debounce < 0 {
		opts.Debounce = 0
	} else if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Lookup{
		searcher: searcher,
		debounce: opts.Debounce,
		minChars: opts.MinChars,
		timeout:  opts.Timeout,
	}
}

// Query returns the last query passed to SetQuery.
func (l *Lookup) Query() string { return l.query }

// Results returns the candidates for the current query in service order.
func (l *Lookup) Results() []geocode.Candidate { return l.results }

// Loading reports whether a search is in flight for the current query.
func (l *Lookup) Loading() bool { return l.loading }

// SetQuery records a query edit. Results are cleared immediately; a query
// long enough to search schedules a debounce tick.
func (l *Lookup) SetQuery(query string) tea.Cmd {
	if query == l.query {
		return nil
	}
	l.query = query
	l.invalidate()

	if utf8.RuneCountInString(strings.TrimSpace(query)) < l.minChars {
		return nil
	}

	seq := l.seq
	return tea.Tick(l.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// ClearResults empties the result list and abandons any pending search.
func (l *Lookup) ClearResults() {
	l.invalidate()
}

func (l *Lookup) invalidate() {
	l.seq++
	l.results = nil
	l.loading = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Update handles debounce ticks and search results.
func (l *Lookup) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.seq != l.seq {
			return nil
		}
		l.loading = true
		return l.search(msg.seq, strings.TrimSpace(l.query))

	case resultsMsg:
		if msg.seq != l.seq {
			logger.Debug("Dropping stale address results (seq %d, current %d)", msg.seq, l.seq)
			return nil
		}
		l.loading = false
		l.cancel = nil
		if msg.err != nil {
			logger.Warn("Address lookup failed: %v", msg.err)
			l.results = []geocode.Candidate{}
			l.applied++
			return nil
		}
		if msg.candidates == nil {
			msg.candidates = []geocode.Candidate{}
		}
		l.results = msg.candidates
		l.applied++
	}
	return nil
}

func (l *Lookup) search(seq uint64, query string) tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	l.cancel = cancel
	searcher := l.searcher

	return func() tea.Msg {
		defer cancel()
		candidates, err := searcher.Search(ctx, query)
		return resultsMsg{seq: seq, candidates: candidates, err: err}
	}
}
