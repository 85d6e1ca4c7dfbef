// Package tui is a terminal monitor for a live websocket session: loop
// state, cursor position, viewer count and the current joint positions,
// refreshed on a fixed cadence.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kinviz/kinviz/internal/gui"
)

const refreshInterval = 100 * time.Millisecond

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
)

// StatsProvider is what the monitor polls; *gui.WebsocketSession
// satisfies it.
type StatsProvider interface {
	Stats() gui.Stats
}

type tickMsg time.Time

// Model is the bubbletea model for the monitor.
type Model struct {
	provider StatsProvider
	title    string
	stats    gui.Stats
	width    int
}

func NewModel(title string, provider StatsProvider) Model {
	return Model{provider: provider, title: title, stats: provider.Stats()}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.stats = m.provider.Stats()
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("kinviz monitor — " + m.title))
	b.WriteString("\n")

	status := idleStyle.Render("idle")
	if m.stats.Looping {
		status = activeStyle.Render("looping")
	}
	row(&b, "status", status)
	row(&b, "viewers", fmt.Sprintf("%d", m.stats.Connections))
	row(&b, "tick", m.stats.TickPeriod.String())

	if m.stats.Frames > 0 {
		row(&b, "frame", fmt.Sprintf("%d / %d", m.stats.Cursor, m.stats.Frames))
		row(&b, "progress", progressBar(m.stats.Cursor, m.stats.Frames, 40))
	}

	if len(m.stats.Positions) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("positions"))
		b.WriteString("\n")
		for i, v := range m.stats.Positions {
			b.WriteString(valueStyle.Render(fmt.Sprintf("  q%-3d %+.4f", i, v)))
			b.WriteString("\n")
			if i >= 15 {
				b.WriteString(valueStyle.Render(fmt.Sprintf("  … %d more", len(m.stats.Positions)-i-1)))
				b.WriteString("\n")
				break
			}
		}
	}

	b.WriteString(helpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func progressBar(cur, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := cur * width / total
	if filled > width {
		filled = width
	}
	return barStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// Run blocks inside the bubbletea program until the user quits.
func Run(title string, provider StatsProvider) error {
	_, err := tea.NewProgram(NewModel(title, provider)).Run()
	return err
}
