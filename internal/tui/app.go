package tui

import (
	"time"

	"trailscore/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenHistory
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard  DashboardModel
	history    HistoryModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	queryService *service.QueryService
	scoreService *service.ScoreService
	syncService  *service.SyncService

	// Day the dashboard opens on
	date time.Time

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App opening on date. syncService may be nil when no
// Strava account is linked.
func NewApp(queryService *service.QueryService, scoreService *service.ScoreService, syncService *service.SyncService, date time.Time) *App {
	a := &App{
		screen:       ScreenDashboard,
		queryService: queryService,
		scoreService: scoreService,
		syncService:  syncService,
		date:         date,
		dashboard:    NewDashboardModel(queryService, date, 0, 0),
		history:      NewHistoryModel(queryService, date, 0, 0),
		syncScreen:   NewSyncModel(syncService, scoreService),
		help:         NewHelpModel(),
	}
	if syncService == nil {
		a.status = "Strava not linked: sync disabled"
	}
	return a
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless in sync mode)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.queryService, a.dashboard.date, a.width, a.height)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenHistory
				a.history = NewHistoryModel(a.queryService, a.date, a.width, a.height)
				return a, a.history.Init()
			case "3", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Every screen tracks the size, not only the visible one
		var cmds []tea.Cmd
		var m tea.Model
		var cmd tea.Cmd
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
		cmds = append(cmds, cmd)
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case SyncCompleteMsg:
		// Stay on the sync summary; the dashboard reloads in the background
		a.dashboard = NewDashboardModel(a.queryService, a.dashboard.date, a.width, a.height)
		return a, a.dashboard.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	// Loads finishing after the user switched screens still belong to their model
	switch msg.(type) {
	case dashboardDataMsg:
		if a.screen != ScreenDashboard {
			m, _ := a.dashboard.Update(msg)
			a.dashboard = m.(DashboardModel)
		}
	case historyLoadedMsg:
		if a.screen != ScreenHistory {
			m, _ := a.history.Update(msg)
			a.history = m.(HistoryModel)
		}
	case syncProgressMsg, SyncDoneMsg:
		if a.screen != ScreenSync {
			var m tea.Model
			m, cmd = a.syncScreen.Update(msg)
			a.syncScreen = m.(SyncModel)
		}
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return titleBarStyle.Render("TrailScore - Daily Fitness Score")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "History", ScreenHistory},
		{"3", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += tabActiveStyle.Render(label)
		} else {
			nav += tabIdleStyle.Render(label)
		}
	}

	nav += "  " + tabIdleStyle.Render("[q] Quit")

	return tabBarStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
