// Package tui is the live, full-screen view behind `prayer-times watch`.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/smokyabdulrahman/prayer-engine/internal/schedule"
)

// Options configure the view.
type Options struct {
	// Config is the calculation input; its Date is replaced by the day being
	// viewed, in Location.
	Config   prayer.Config
	Location *time.Location
	Place    string
	Layout   string
	Now      func() time.Time
	// Date is the civil day shown first. Zero means today.
	Date time.Time
}

type tickMsg time.Time

// Model is the root Bubble Tea model.
type Model struct {
	opts Options

	clock  time.Time
	offset int // days from today

	day   time.Time
	sched schedule.Schedule
	err   error

	width    int
	help     help.Model
	showHelp bool
}

// New builds a model showing opts.Date, or today when it is zero.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Layout == "" {
		opts.Layout = prayer.Layout24h
	}

	m := Model{opts: opts, help: help.New()}
	m.clock = opts.Now().In(opts.Location)
	if !opts.Date.IsZero() {
		m.offset = daysBetween(m.clock, opts.Date)
	}
	m.recompute()
	return m
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// viewedDay is the civil day offset days from the clock's day.
func (m Model) viewedDay() time.Time {
	y, mo, d := m.clock.Date()
	return time.Date(y, mo, d+m.offset, 0, 0, 0, 0, m.opts.Location)
}

// daysBetween counts civil days from a to b, each read in its own location.
func daysBetween(a, b time.Time) int {
	civil := func(t time.Time) time.Time {
		y, mo, d := t.Date()
		return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	}
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

func (m *Model) recompute() {
	day := m.viewedDay()
	if day.Equal(m.day) && m.err == nil && !m.sched.Times.Fajr.IsZero() {
		return
	}
	cfg := m.opts.Config
	cfg.Date = day

	m.day = day
	t, err := prayer.Compute(cfg)
	if err != nil {
		m.err = err
		m.sched = schedule.Schedule{}
		return
	}
	m.err = nil
	m.sched = schedule.Build(t)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.clock = m.opts.Now().In(m.opts.Location)
		m.recompute()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		case key.Matches(msg, keys.Prev):
			m.offset--
			m.recompute()
		case key.Matches(msg, keys.Next):
			m.offset++
			m.recompute()
		case key.Matches(msg, keys.Today):
			m.offset = 0
			m.recompute()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := "Prayer Times"
	if m.opts.Place != "" {
		title += " · " + m.opts.Place
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(subtitleStyle.Render(m.dayLabel()) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n\n")
		b.WriteString(m.help.View(keys))
		return b.String()
	}

	b.WriteString(panelStyle.Render(m.timesView()) + "\n")
	b.WriteString(m.stateView() + "\n\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) dayLabel() string {
	label := m.day.Format("Monday, 2 January 2006")
	switch m.offset {
	case 0:
		return label + " · " + m.clock.Format(m.opts.Layout)
	case 1:
		return label + " (tomorrow)"
	case -1:
		return label + " (yesterday)"
	}
	return label
}

func (m Model) timesView() string {
	layout := m.opts.Layout
	prayers := m.sched.Times.Prayers(prayer.AllEvents)
	next, hasNext := prayer.Next(prayers, m.clock)
	hasNext = hasNext && m.offset == 0

	var rows []string
	for _, p := range prayers {
		line := fmt.Sprintf("%-8s %8s", p.Name(), p.Time.Format(layout))
		if w, ok := m.sched.WindowOf(p.Event); ok {
			line += "   " + prayer.FormatRange(w.Start, w.End, layout)
		}
		switch {
		case hasNext && p.Event == next.Event:
			line = nextRowStyle.Render(line + "  ◂ in " + prayer.FormatRemaining(prayer.TimeRemaining(p, m.clock)))
		case !p.Time.After(m.clock):
			line = pastRowStyle.Render(line)
		}
		rows = append(rows, line)
	}

	rows = append(rows, "")
	for _, f := range m.sched.Forbidden {
		rows = append(rows, pastRowStyle.Render(fmt.Sprintf("%-14s %s", f.Restriction, prayer.FormatRange(f.Start, f.End, layout))))
	}
	tahajjud := m.sched.Window(schedule.PeriodTahajjud)
	rows = append(rows, pastRowStyle.Render(fmt.Sprintf("%-14s %s", "Tahajjud", prayer.FormatRange(tahajjud.Start, tahajjud.End, layout))))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) stateView() string {
	if m.offset != 0 {
		return subtitleStyle.Render("press t to return to today")
	}

	s := schedule.Summarize(m.sched.Classify(m.clock))
	switch s.Kind {
	case "prayer":
		return prayerStateStyle.Render(fmt.Sprintf("● %s time · %s left", s.Label, prayer.FormatRemaining(s.Remaining)))
	case "forbidden":
		return forbiddenStateStyle.Render(fmt.Sprintf("✕ %s · prayer forbidden for %s", s.Label, prayer.FormatRemaining(s.Remaining)))
	}
	return neutralStateStyle.Render("○ No prayer window")
}
