package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Score history"},
		{"3 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	dashSection := m.renderSection("Dashboard", []keyHelp{
		{"h / left", "Previous day"},
		{"l / right", "Next day"},
		{"t", "Jump to today"},
		{"r", "Refresh"},
	})
	sections = append(sections, dashSection)

	histSection := m.renderSection("History", []keyHelp{
		{"j / down", "Scroll down"},
		{"k / up", "Scroll up"},
		{"w", "Cycle 7 / 30 / 90 day window"},
		{"r", "Refresh"},
	})
	sections = append(sections, histSection)

	syncSection := m.renderSection("Sync Screen", []keyHelp{
		{"s / enter", "Start sync"},
	})
	sections = append(sections, syncSection)

	sections = append(sections, m.renderScoresHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderScoresHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Scores Explained"))
	lines = append(lines, "")

	scores := []struct {
		name string
		desc string
	}{
		{"Trail Fuel", "Nutrition: calories, protein, fiber and hydration against your targets."},
		{"Climb", "Training: completion, intensity, progression and warm-up. Rest days score full."},
		{"Base Camp", "Recovery: sleep duration, bedtime regularity and daily steps."},
		{"Consistency bonus", "Extra points for a week of steady composites."},
		{"Trail Score", "Goal-weighted blend of the three plus the bonus, capped at 100."},
	}

	for _, s := range scores {
		lines = append(lines, "  "+keyStyle.Render(s.name))
		lines = append(lines, "  "+dimStyle.Render(s.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
