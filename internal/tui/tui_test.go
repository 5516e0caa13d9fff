package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

var dhaka = time.FixedZone("UTC+6", 6*3600)

func newTestModel(t *testing.T, now time.Time) Model {
	t.Helper()
	display.SetEnabled(false)
	return New(Options{
		Config: prayer.Config{
			Location:   prayer.Location{Latitude: 23.8103, Longitude: 90.4125},
			Convention: "Karachi",
		},
		Location: dhaka,
		Place:    "Dhaka",
		Now:      func() time.Time { return now },
	})
}

func press(m Model, k tea.KeyMsg) Model {
	next, _ := m.Update(k)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_ComputesToday(t *testing.T) {
	m := newTestModel(t, time.Date(2026, 6, 21, 13, 0, 0, 0, dhaka))

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if got := m.sched.Times.Fajr.Format("15:04"); got != "03:44" {
		t.Errorf("Fajr = %s, want 03:44", got)
	}
}

func TestView_Today(t *testing.T) {
	m := newTestModel(t, time.Date(2026, 6, 21, 13, 0, 0, 0, dhaka))
	v := m.View()

	for _, want := range []string{
		"Prayer Times · Dhaka",
		"Sunday, 21 June 2026 · 13:00",
		"03:44 – 05:11",
		"Asr",
		"◂ in 2h 18m",
		"Zawal",
		"● Dhuhr time · 2h 17m left",
	} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestView_ForbiddenState(t *testing.T) {
	m := newTestModel(t, time.Date(2026, 6, 21, 11, 56, 0, 0, dhaka))
	if v := m.View(); !strings.Contains(v, "✕ Zawal · prayer forbidden for 4m") {
		t.Errorf("view missing forbidden state:\n%s", v)
	}
}

func TestView_NeutralState(t *testing.T) {
	m := newTestModel(t, time.Date(2026, 6, 21, 9, 0, 0, 0, dhaka))
	if v := m.View(); !strings.Contains(v, "○ No prayer window") {
		t.Errorf("view missing neutral state:\n%s", v)
	}
}

func TestUpdate_DayNavigation(t *testing.T) {
	m := newTestModel(t, time.Date(2026, 6, 21, 13, 0, 0, 0, dhaka))

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.offset != 1 || m.day.Day() != 22 {
		t.Fatalf("after →: offset=%d day=%d", m.offset, m.day.Day())
	}
	if v := m.View(); !strings.Contains(v, "(tomorrow)") || !strings.Contains(v, "press t to return to today") {
		t.Errorf("tomorrow view:\n%s", v)
	}

	m = press(m, runes("h"))
	m = press(m, runes("h"))
	if m.offset != -1 || m.day.Day() != 20 {
		t.Fatalf("after ←←: offset=%d day=%d", m.offset, m.day.Day())
	}
	if !strings.Contains(m.View(), "(yesterday)") {
		t.Error("expected yesterday label")
	}

	m = press(m, runes("t"))
	if m.offset != 0 || m.day.Day() != 21 {
		t.Errorf("after t: offset=%d day=%d", m.offset, m.day.Day())
	}
}

func TestNew_StartsAtDate(t *testing.T) {
	now := time.Date(2026, 6, 20, 13, 0, 0, 0, dhaka)
	m := New(Options{
		Config:   prayer.Config{Location: prayer.Location{Latitude: 23.8103, Longitude: 90.4125}, Convention: "Karachi"},
		Location: dhaka,
		Now:      func() time.Time { return now },
		Date:     time.Date(2026, 6, 21, 0, 0, 0, 0, dhaka),
	})

	if m.offset != 1 || m.day.Day() != 21 {
		t.Fatalf("offset=%d day=%d, want 1 and 21", m.offset, m.day.Day())
	}
	if got := m.sched.Times.Fajr.Format("15:04"); got != "03:44" {
		t.Errorf("Fajr = %s, want 03:44", got)
	}
	v := m.View()
	if !strings.Contains(v, "Sunday, 21 June 2026 (tomorrow)") {
		t.Errorf("view missing start day:\n%s", v)
	}
	if strings.Contains(v, "◂ in") {
		t.Errorf("next marker shown for another day:\n%s", v)
	}

	m = press(m, runes("t"))
	if m.offset != 0 || m.day.Day() != 20 {
		t.Errorf("after t: offset=%d day=%d", m.offset, m.day.Day())
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{time.Date(2026, 6, 21, 23, 0, 0, 0, dhaka), time.Date(2026, 6, 21, 0, 0, 0, 0, dhaka), 0},
		{time.Date(2026, 6, 21, 13, 0, 0, 0, dhaka), time.Date(2026, 6, 18, 0, 0, 0, 0, dhaka), -3},
		{time.Date(2026, 12, 31, 13, 0, 0, 0, dhaka), time.Date(2027, 1, 2, 0, 0, 0, 0, dhaka), 2},
	}
	for _, tt := range tests {
		if got := daysBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("daysBetween(%s, %s) = %d, want %d", tt.a.Format("2006-01-02"), tt.b.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestUpdate_NavigationCrossesMonth(t *testing.T) {
	m := newTestModel(t, time.Date(2026, 6, 30, 13, 0, 0, 0, dhaka))
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})

	if m.day.Month() != time.July || m.day.Day() != 1 {
		t.Errorf("day = %s, want 1 July", m.day.Format("2006-01-02"))
	}
}

func TestUpdate_TickAdvancesClockAndDay(t *testing.T) {
	now := time.Date(2026, 6, 21, 23, 59, 59, 0, dhaka)
	m := New(Options{
		Config:   prayer.Config{Location: prayer.Location{Latitude: 23.8103, Longitude: 90.4125}, Convention: "Karachi"},
		Location: dhaka,
		Now:      func() time.Time { return now },
	})
	if m.day.Day() != 21 {
		t.Fatalf("initial day = %d", m.day.Day())
	}

	now = now.Add(2 * time.Second)
	next, cmd := m.Update(tickMsg(now))
	m = next.(Model)

	if cmd == nil {
		t.Error("tick should schedule another tick")
	}
	if m.day.Day() != 22 {
		t.Errorf("day after midnight tick = %d, want 22", m.day.Day())
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(t, time.Now())

	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestUpdate_HelpToggle(t *testing.T) {
	m := newTestModel(t, time.Now())

	m = press(m, runes("?"))
	if !m.showHelp || !m.help.ShowAll {
		t.Fatal("? should expand help")
	}
	if !strings.Contains(m.View(), "today") {
		t.Error("full help should list the today binding")
	}
	m = press(m, runes("?"))
	if m.showHelp {
		t.Error("second ? should collapse help")
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(t, time.Now())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if got := next.(Model).help.Width; got != 100 {
		t.Errorf("help width = %d, want 100", got)
	}
}

func TestView_Error(t *testing.T) {
	m := newTestModel(t, time.Now())
	m.err = errors.New("boom")

	if v := m.View(); !strings.Contains(v, "error: boom") {
		t.Errorf("view missing error:\n%s", v)
	}
}
