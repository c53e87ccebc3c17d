package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pcgrand/internal/fleet"
)

const benchRefresh = 100 * time.Millisecond

var (
	benchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	benchRateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	benchHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

type benchTickMsg time.Time

type benchDoneMsg struct {
	stats fleet.Stats
	err   error
}

// benchModel shows a running fleet's progress toward its budget.
type benchModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	fleet  *fleet.Fleet
	budget fleet.Budget
	bar    progress.Model

	start time.Time
	now   time.Time

	done  bool
	stats fleet.Stats
	err   error
}

func newBenchModel(ctx context.Context, f *fleet.Fleet, budget fleet.Budget) *benchModel {
	ctx, cancel := context.WithCancel(ctx)
	now := time.Now()
	return &benchModel{
		ctx:    ctx,
		cancel: cancel,
		fleet:  f,
		budget: budget,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		start:  now,
		now:    now,
	}
}

func benchTick() tea.Cmd {
	return tea.Tick(benchRefresh, func(t time.Time) tea.Msg {
		return benchTickMsg(t)
	})
}

func (m *benchModel) Init() tea.Cmd {
	return tea.Batch(m.runFleet(), benchTick())
}

func (m *benchModel) runFleet() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.fleet.Run(m.ctx, m.budget)
		return benchDoneMsg{stats: stats, err: err}
	}
}

func (m *benchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case benchTickMsg:
		m.now = time.Time(msg)
		if m.done {
			return m, nil
		}
		return m, benchTick()

	case benchDoneMsg:
		m.done = true
		m.stats = msg.stats
		m.err = msg.err
		m.cancel()
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// The fleet notices cancellation between chunks and reports back
			// through benchDoneMsg.
			m.cancel()
		}
	}
	return m, nil
}

// fraction is the share of the budget spent, by whichever limit is closer.
func (m *benchModel) fraction() float64 {
	if m.done {
		return 1
	}
	var frac float64
	if m.budget.Duration > 0 {
		frac = float64(m.now.Sub(m.start)) / float64(m.budget.Duration)
	}
	if m.budget.Bytes > 0 {
		frac = max(frac, float64(m.fleet.Produced())/float64(m.budget.Bytes))
	}
	return min(max(frac, 0), 1)
}

func (m *benchModel) rate() float64 {
	if m.done {
		return m.stats.Throughput() / (1 << 20)
	}
	elapsed := m.now.Sub(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.fleet.Produced()) / elapsed / (1 << 20)
}

func (m *benchModel) View() string {
	var b strings.Builder
	b.WriteString(benchTitleStyle.Render(fmt.Sprintf("%s on %d workers", m.fleet.Variant, m.fleet.Workers)))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.fraction()))
	b.WriteString("\n\n")
	b.WriteString(benchRateStyle.Render(fmt.Sprintf("%.1f MiB/s", m.rate())))
	b.WriteString(fmt.Sprintf("  %d bytes\n", m.fleet.Produced()))
	if !m.done {
		b.WriteString(benchHelpStyle.Render("q to stop"))
		b.WriteString("\n")
	}
	return b.String()
}
