package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"trailscore/internal/scoring"
	"trailscore/internal/service"
	"trailscore/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	date         time.Time
	today        time.Time
	data         *service.DashboardData
	loading      bool
	err          error
	width        int
	height       int
}

// NewDashboardModel creates a dashboard showing date
func NewDashboardModel(qs *service.QueryService, date time.Time, width, height int) DashboardModel {
	date = store.StartOfDay(date)
	return DashboardModel{
		queryService: qs,
		date:         date,
		today:        store.StartOfDay(time.Now()),
		loading:      true,
		width:        width,
		height:       height,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData(context.Background(), m.date)
	if err != nil {
		return dashboardDataMsg{date: m.date, err: err}
	}
	return dashboardDataMsg{date: m.date, data: data}
}

type dashboardDataMsg struct {
	date time.Time
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		// Stale load from a date we already stepped away from
		if !msg.date.Equal(m.date) {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.data = msg.data

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "left", "h":
			return m.step(-1)
		case "right", "l":
			if m.date.Before(m.today) {
				return m.step(1)
			}
		case "t":
			if !m.date.Equal(m.today) {
				m.date = m.today
				m.loading = true
				return m, m.loadData
			}
		}
	}
	return m, nil
}

func (m DashboardModel) step(days int) (tea.Model, tea.Cmd) {
	m.date = m.date.AddDate(0, 0, days)
	m.loading = true
	return m, m.loadData
}

// View renders the dashboard
func (m DashboardModel) View() string {
	heading := cardTitleStyle.Render(m.date.Format("Monday, Jan 2 2006"))

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, heading, "  Loading scores...")
	}

	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, heading, errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}

	if m.data == nil {
		return lipgloss.JoinVertical(lipgloss.Left, heading, "  No data available.")
	}

	if !m.data.Sufficient() {
		return lipgloss.JoinVertical(lipgloss.Left, heading, m.renderInsufficient(), m.renderDayCard(), m.renderFooter())
	}

	var sections []string
	sections = append(sections, heading)

	// Composite with the day's inputs beside it
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderCompositeCard(), "  ", m.renderDayCard())
	sections = append(sections, topRow)

	detail := m.data.Score.Result.Detail
	components := lipgloss.JoinHorizontal(lipgloss.Top,
		renderComponentCard("Trail Fuel", "nutrition", detail.TrailFuel),
		"  ",
		renderComponentCard("Climb", "training", detail.Climb),
		"  ",
		renderComponentCard("Base Camp", "recovery", detail.BaseCamp),
	)
	sections = append(sections, components)

	if len(m.data.Trend) > 2 {
		sections = append(sections, m.renderTrend())
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderInsufficient() string {
	title := cardTitleStyle.Render("Not enough data")

	lines := []string{warningStyle.Render("This day cannot be scored yet. Missing:")}
	for _, src := range m.data.Missing {
		lines = append(lines, "  • "+src)
	}
	lines = append(lines, "", dimStyle.Render("Import a day log or sync with Strava to fill the gaps."))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderCompositeCard() string {
	r := m.data.Score.Result
	title := cardTitleStyle.Render("Trail Score")

	source := "stored"
	if m.data.Live {
		source = "preview, not saved"
	}

	bonus := fmt.Sprintf("+%.0f", r.ConsistencyBonus)
	if r.ConsistencyBonus == 0 {
		bonus = "0"
	}

	lines := []string{
		RenderScore(r.CompositeScore) + dimStyle.Render(" / 100"),
		RenderScoreBar(r.CompositeScore, 30),
		"",
		RenderMetric("Goal", goalLabel(r.GoalType)),
		RenderMetric("Consistency bonus", bonus),
		dimStyle.Render(source),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderDayCard() string {
	title := cardTitleStyle.Render("The Day")
	d := m.data

	steps := "-"
	if d.Steps != nil {
		steps = humanize.Comma(int64(*d.Steps))
	}

	sleep := "-"
	if d.SleepMinutes > 0 {
		sleep = formatMinutes(d.SleepMinutes)
	}

	sessions := "rest"
	if len(d.Sessions) > 0 {
		names := make([]string, 0, len(d.Sessions))
		for _, s := range d.Sessions {
			name := s.Name
			if name == "" {
				name = s.Source
			}
			names = append(names, truncateName(name, 18))
		}
		sessions = strings.Join(names, ", ")
	}

	lastSync := "never"
	if !d.LastSync.IsZero() {
		lastSync = humanize.Time(d.LastSync)
	}

	lines := []string{
		RenderMetric("Steps", steps),
		RenderMetric("Sleep", sleep),
		RenderMetric("Training", sessions),
		RenderMetric("Food entries", fmt.Sprintf("%d", d.FoodEntries)),
		RenderMetric("Last Strava sync", lastSync),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func renderComponentCard(name, subtitle string, c scoring.ComponentScore) string {
	title := cardTitleStyle.Render(name + " " + dimStyle.Render(subtitle))

	lines := []string{
		RenderScore(c.Value) + " " + RenderScoreBar(c.Value, 14),
		dimStyle.Render(fmt.Sprintf("confidence %.0f%%", c.Confidence*100)),
		"",
	}

	keys := make([]string, 0, len(c.Breakdown))
	for k := range c.Breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, breakdownLine(k, c.Breakdown[k]))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(30).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func breakdownLine(key string, v float64) string {
	label := strings.ReplaceAll(key, "_", " ")
	return labelStyle.Width(18).Render(label) + valueStyle.Render(fmt.Sprintf("%5.1f", v))
}

func (m DashboardModel) renderTrend() string {
	title := cardTitleStyle.Render("Composite - Previous Week")

	width := 60
	if m.width > 20 && m.width-12 < width {
		width = m.width - 12
	}

	graph := asciigraph.Plot(m.data.Trend,
		asciigraph.Height(6),
		asciigraph.Width(width),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderFooter() string {
	return statusStyle.Render("←/→ change day  t: today  r: refresh  s: sync")
}

func goalLabel(g scoring.GoalType) string {
	switch g {
	case scoring.GoalLeanBulk:
		return "lean bulk"
	case "":
		return "-"
	default:
		return string(g)
	}
}

func formatMinutes(minutes float64) string {
	total := int(minutes + 0.5)
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
