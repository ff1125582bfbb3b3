// Package ui is the terminal live display. It renders the sliding window
// and turns key presses into command intents.
//
// Bubble Tea delivers every message to Update on one goroutine, so ticks
// and key presses never overlap. Only the transport read runs elsewhere,
// as a command, and the next read is not issued until its line has been
// handled.
package ui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pressle-logger/controller"
	"pressle-logger/models"
	"pressle-logger/views"
)

type tickMsg time.Time

type lineMsg struct {
	raw []byte
	err error
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	recordingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	idleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Width(5)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the Bubble Tea model for the live display.
type Model struct {
	session  *controller.Session
	interval time.Duration
	width    int
	lastSent string
	quitting bool
	err      error
}

func NewModel(session *controller.Session, interval time.Duration) Model {
	return Model{session: session, interval: interval, width: 80}
}

// Err returns the fatal error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func readLine(s *controller.Session) tea.Cmd {
	return func() tea.Msg {
		raw, err := s.ReadLine()
		return lineMsg{raw: raw, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, readLine(m.session)

	case lineMsg:
		if m.quitting {
			return m, nil
		}
		if msg.err != nil {
			return m.fail(msg.err)
		}
		if err := m.session.HandleLine(msg.raw); err != nil {
			return m.fail(err)
		}
		return m, tick(m.interval)

	case tea.KeyMsg:
		intent, ok := keyIntent(msg)
		if !ok {
			return m, nil
		}
		err := m.session.Dispatch(intent)
		if errors.Is(err, controller.ErrQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if err != nil {
			return m.fail(err)
		}
		m.lastSent = intent.String()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.quitting = true
	return m, tea.Quit
}

func keyIntent(k tea.KeyMsg) (controller.Intent, bool) {
	switch k.String() {
	case "g":
		return controller.IntentStart, true
	case "x":
		return controller.IntentStop, true
	case " ":
		return controller.IntentToggle, true
	case "q", "ctrl+c":
		return controller.IntentQuit, true
	}
	return 0, false
}

func (m Model) View() string {
	var b strings.Builder

	state := idleStyle.Render("● IDLE")
	if m.session.State() == models.Recording {
		state = recordingStyle.Render("● RECORDING")
	}
	b.WriteString(titleStyle.Render("Pressle logger") + "  " + state + "\n\n")

	w := m.session.Window()
	sparkWidth := max(m.width-24, 10)
	for _, ch := range []views.Channel{
		views.ChannelDistance,
		views.ChannelAccelX, views.ChannelAccelY, views.ChannelAccelZ,
		views.ChannelGyroX, views.ChannelGyroY, views.ChannelGyroZ,
	} {
		series := w.Series(ch)
		last := "-"
		if n := len(series); n > 0 {
			last = fmt.Sprintf("%.2f", series[n-1])
		}
		fmt.Fprintf(&b, "%s %10s  %s\n", labelStyle.Render(ch.String()), last, Sparkline(series, sparkWidth))
	}

	st := m.session.Stats()
	fmt.Fprintf(&b, "\nwindow %d/%d  samples %d  rows %d  events %d\n",
		w.Len(), w.Cap(), st.Samples, st.TelemetryRows, st.EventRows)
	if m.lastSent != "" {
		fmt.Fprintf(&b, "last command: %s\n", m.lastSent)
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("g start · x stop · space toggle · q quit") + "\n")
	return b.String()
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// nonFinite marks an Inf or NaN point.
const nonFinite = '·'

// Sparkline renders the last width values scaled between their min and
// max. Inf and NaN are drawn as a dot and do not affect the scale.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	top := len(sparkRunes) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		if !isFinite(v) {
			out[i] = nonFinite
			continue
		}
		idx := 0
		if hi > lo {
			idx = min(max(int((v-lo)/(hi-lo)*float64(top)), 0), top)
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
