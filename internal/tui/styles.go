package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Scores use the good/fair/poor bands.
var (
	brandColor = lipgloss.Color("#0F766E")
	goodColor  = lipgloss.Color("#10B981")
	fairColor  = lipgloss.Color("#F59E0B")
	poorColor  = lipgloss.Color("#EF4444")
	dimColor   = lipgloss.Color("#6B7280")
	inkColor   = lipgloss.Color("#F9FAFB")
)

const (
	goodScore = 80
	fairScore = 60
)

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(inkColor).
			Background(brandColor).
			Padding(0, 1).
			MarginBottom(1)

	tabBarStyle    = lipgloss.NewStyle().MarginBottom(1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(brandColor).Underline(true)
	tabIdleStyle   = lipgloss.NewStyle().Foreground(dimColor)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor).
			Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(goodColor)

	labelStyle = lipgloss.NewStyle().Foreground(dimColor).Width(20)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(inkColor)
	scoreStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(brandColor).
				Padding(0, 1)

	tableRowStyle  = lipgloss.NewStyle().Padding(0, 1)
	tableBestStyle = tableRowStyle.Bold(true).Foreground(inkColor).Background(brandColor)

	statusStyle  = lipgloss.NewStyle().Foreground(dimColor).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(poorColor)
	successStyle = lipgloss.NewStyle().Foreground(goodColor)
	warningStyle = lipgloss.NewStyle().Foreground(fairColor)

	keyStyle = lipgloss.NewStyle().Bold(true).Foreground(brandColor)
	dimStyle = lipgloss.NewStyle().Foreground(dimColor)

	barEmptyStyle = lipgloss.NewStyle().Foreground(dimColor)
	barFillStyle  = lipgloss.NewStyle().Foreground(brandColor)
)

// bandColor maps a 0-100 score to its band
func bandColor(score float64) lipgloss.Color {
	switch {
	case score >= goodScore:
		return goodColor
	case score >= fairScore:
		return fairColor
	default:
		return poorColor
	}
}

// RenderScore renders a 0-100 score in its band color
func RenderScore(score float64) string {
	return scoreStyle.Foreground(bandColor(score)).Render(fmt.Sprintf("%.0f", score))
}

// RenderScoreBar renders a 0-100 score as a bar in its band color
func RenderScoreBar(score float64, width int) string {
	return bar(score/100, width, lipgloss.NewStyle().Foreground(bandColor(score)))
}

// RenderProgressBar renders fraction (0-1) of width cells
func RenderProgressBar(fraction float64, width int) string {
	return bar(fraction, width, barFillStyle)
}

func bar(fraction float64, width int, fill lipgloss.Style) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	return fill.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderMetric renders a label/value row
func RenderMetric(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return keyStyle.Render(key) + " " + dimStyle.Render(desc)
}
