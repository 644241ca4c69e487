package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trailscore/internal/service"
	"trailscore/internal/store"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Window sizes cycled with 'w'
var historyWindows = []int{7, 30, 90}

// HistoryModel is the score history screen model
type HistoryModel struct {
	queryService *service.QueryService
	end          time.Time
	windowIdx    int
	data         *service.HistoryData
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewHistoryModel creates a history screen ending on end
func NewHistoryModel(qs *service.QueryService, end time.Time, width, height int) HistoryModel {
	m := HistoryModel{
		queryService: qs,
		end:          store.StartOfDay(end),
		windowIdx:    1,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the history screen
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory
}

type historyLoadedMsg struct {
	days int
	data *service.HistoryData
	err  error
}

func (m HistoryModel) days() int {
	return historyWindows[m.windowIdx]
}

func (m HistoryModel) loadHistory() tea.Msg {
	data, err := m.queryService.GetHistory(context.Background(), m.end, m.days())
	return historyLoadedMsg{days: m.days(), data: data, err: err}
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.days != m.days() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.data != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadHistory
		case "w":
			m.windowIdx = (m.windowIdx + 1) % len(historyWindows)
			m.loading = true
			return m, m.loadHistory
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the history screen
func (m HistoryModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  Loading the last %d days...", m.days())
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  w: change window  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m HistoryModel) renderContent() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Score History - last %d days", m.days()))

	if m.data == nil || len(m.data.Scores) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			"No scores in this window. Score a day with 'trailscore score' or import a log.")
	}

	var sections []string
	sections = append(sections, title)
	sections = append(sections, m.renderSummary())

	if len(m.data.Composite) > 1 {
		sections = append(sections, m.renderChart())
	}

	sections = append(sections, m.renderTable())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryModel) renderSummary() string {
	d := m.data
	lines := []string{
		RenderMetric("Days scored", fmt.Sprintf("%d of %d", len(d.Scores), m.days())),
		RenderMetric("Average", fmt.Sprintf("%.1f", d.Average)),
		RenderMetric("Best", fmt.Sprintf("%.1f on %s", d.Best.Result.CompositeScore, d.Best.Date)),
		RenderMetric("Worst", fmt.Sprintf("%.1f on %s", d.Worst.Result.CompositeScore, d.Worst.Date)),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m HistoryModel) renderChart() string {
	width := 60
	if m.width > 20 && m.width-12 < width {
		width = m.width - 12
	}

	graph := asciigraph.Plot(m.data.Composite,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption("composite"),
	)
	return cardStyle.Render(graph)
}

func (m HistoryModel) renderTable() string {
	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %9s  %10s  %6s  %9s  %5s  %-9s",
		"Date", "Composite", "Trail Fuel", "Climb", "Base Camp", "Bonus", "Goal"))

	rows := []string{header}
	// Newest first
	for i := len(m.data.Scores) - 1; i >= 0; i-- {
		s := m.data.Scores[i]
		r := s.Result
		row := fmt.Sprintf("%-10s  %9.1f  %10.1f  %6.1f  %9.1f  %5.0f  %-9s",
			s.Date, r.CompositeScore, r.TrailFuelScore, r.ClimbScore, r.BaseCampScore,
			r.ConsistencyBonus, goalLabel(r.GoalType))
		if m.data.Best != nil && s.Date == m.data.Best.Date {
			rows = append(rows, tableBestStyle.Render(row))
			continue
		}
		rows = append(rows, tableRowStyle.Render(row))
	}

	return strings.Join(rows, "\n")
}
