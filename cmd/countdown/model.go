package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/offerkit/countdown-go/pkg/countdown"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5F5F5"))

	digitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ADE80")).
			Padding(0, 1)

	urgentDigitStyle = digitStyle.
				Foreground(lipgloss.Color("#F59E0B"))

	captionStyle = lipgloss.NewStyle().
			Faint(true)

	expiredStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(1, 3)
)

// urgentBelow switches the digits to the warning colour.
const urgentBelow = 60_000

// remainingMsg carries one update from the session.
type remainingMsg countdown.Remaining

// finishedMsg is sent once the session's update stream closes.
type finishedMsg struct {
	state countdown.State
}

// session is the part of *countdown.Session the view drives.
type session interface {
	State() countdown.State
	Deactivate()
}

type model struct {
	title        string
	session      session
	updates      <-chan countdown.Remaining
	labels       bool
	exitOnExpire bool

	remaining countdown.Remaining
	state     countdown.State
}

func newModel(title string, s session, updates <-chan countdown.Remaining, labels, exitOnExpire bool) model {
	return model{
		title:        title,
		session:      s,
		updates:      updates,
		labels:       labels,
		exitOnExpire: exitOnExpire,
		state:        countdown.StateRunning,
	}
}

// waitForRemaining blocks on the next update and turns it into a message.
func (m model) waitForRemaining() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.updates
		if !ok {
			return finishedMsg{state: m.session.State()}
		}
		return remainingMsg(r)
	}
}

func (m model) Init() tea.Cmd {
	return m.waitForRemaining()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case remainingMsg:
		m.remaining = countdown.Remaining(msg)
		return m, m.waitForRemaining()

	case finishedMsg:
		m.state = msg.state
		if m.state == countdown.StateExpired {
			m.remaining = countdown.Remaining{}
			if m.exitOnExpire {
				return m, tea.Quit
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// The stored deadline survives so the next run resumes.
			m.session.Deactivate()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var body string
	switch {
	case m.state == countdown.StateExpired:
		body = expiredStyle.Render("This offer has expired")
	case m.labels:
		body = m.labeledView()
	default:
		body = m.compactView()
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(m.title),
		"",
		body,
	)
	return boxStyle.Render(content) + "\n" + hintStyle.Render("q: quit (the countdown keeps running)") + "\n"
}

func (m model) digits() lipgloss.Style {
	if m.remaining.RemainingMs < urgentBelow {
		return urgentDigitStyle
	}
	return digitStyle
}

func (m model) compactView() string {
	return fmt.Sprintf("Ends in %s", m.digits().Render(m.remaining.String()))
}

func (m model) labeledView() string {
	block := func(value, caption string) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			m.digits().Render(value),
			captionStyle.Render(caption),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		block(m.remaining.MinutesText(), "Minutes"),
		m.digits().Render(":"),
		block(m.remaining.SecondsText(), "Seconds"),
	)
}
