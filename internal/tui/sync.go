package tui

import (
	"context"
	"fmt"
	"strings"

	"trailscore/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService  *service.SyncService
	scoreService *service.ScoreService
	syncing      bool
	progress     chan service.SyncProgress
	last         service.SyncProgress
	result       *service.SyncResult
	rescored     int
	err          error
	done         bool
}

// NewSyncModel creates a new sync model. ss is nil when no Strava account is linked.
func NewSyncModel(ss *service.SyncService, scores *service.ScoreService) SyncModel {
	return SyncModel{
		syncService:  ss,
		scoreService: scores,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync and rescoring finish
type SyncDoneMsg struct {
	Result   *service.SyncResult
	Rescored int
	Err      error
}

type syncProgressMsg struct {
	progress service.SyncProgress
}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.last = msg.progress
		return m, waitForProgress(m.progress)

	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.rescored = msg.Rescored
		m.err = msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if !m.syncing && m.syncService != nil {
			switch msg.String() {
			case "enter", "s":
				m.syncing = true
				m.done = false
				m.err = nil
				m.result = nil
				m.last = service.SyncProgress{}
				m.progress = make(chan service.SyncProgress, 8)
				return m, tea.Batch(m.runSync(m.progress), waitForProgress(m.progress))
			}
		}
	}
	return m, nil
}

// waitForProgress reads one progress update. SyncAll closes the channel when it
// returns, which ends the chain.
func waitForProgress(ch <-chan service.SyncProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return syncProgressMsg{progress: p}
	}
}

func (m SyncModel) runSync(progress chan service.SyncProgress) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		result, err := m.syncService.SyncAll(ctx, progress)
		if err != nil {
			return SyncDoneMsg{Result: result, Err: err}
		}

		rescored, err := m.scoreService.Rescore(ctx, result.Days)
		n := 0
		for _, s := range rescored {
			if s.Result.Sufficient() {
				n++
			}
		}
		return SyncDoneMsg{Result: result, Rescored: n, Err: err}
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Strava Sync")
	sections = append(sections, title)

	if m.syncService == nil {
		sections = append(sections, warningStyle.Render("\n  No Strava account linked."))
		sections = append(sections, "\n"+statusStyle.Render("  Run 'trailscore login' and restart to enable sync"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will sync your Strava activities:")
	lines = append(lines, "")
	lines = append(lines, "  1. Fetch activities since the last sync")
	lines = append(lines, "  2. Store runs and rides as training sessions")
	lines = append(lines, "  3. Rescore the affected days")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	switch m.last.Phase {
	case "sessions":
		lines = append(lines, fmt.Sprintf("  Storing sessions %d/%d", m.last.Completed, m.last.Total))
		if m.last.Total > 0 {
			lines = append(lines, "  "+RenderProgressBar(float64(m.last.Completed)/float64(m.last.Total), 30))
		}
		if m.last.CurrentActivity != "" {
			lines = append(lines, statusStyle.Render("  "+truncateName(m.last.CurrentActivity, 40)))
		}
	case "activities":
		lines = append(lines, fmt.Sprintf("  Fetching activities... %d so far", m.last.Completed))
	default:
		lines = append(lines, "  Connecting to Strava...")
	}
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  This may take a moment..."))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	var lines []string

	if m.result == nil {
		return ""
	}

	r := m.result
	lines = append(lines, "")

	if r.SessionsStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d sessions stored (%d with heart rate)", r.SessionsStored, r.WithHR)))
	} else {
		lines = append(lines, statusStyle.Render("  No new activities"))
	}

	if r.Skipped > 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %d non-endurance activities skipped", r.Skipped)))
	}

	if m.rescored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d days rescored", m.rescored)))
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}
