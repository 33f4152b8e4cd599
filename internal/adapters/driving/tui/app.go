package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/views/audit"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/views/board"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/views/proposals"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// boardView is the pipeline board view component.
	boardView *board.View

	// proposalsView is the masked proposal queue view component.
	proposalsView *proposals.View

	// auditView is the audit log view component.
	auditView *audit.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		boardView:     board.NewView(s, ports.Board),
		proposalsView: proposals.NewView(s, ports.Proposals, ports.Disclosure),
		auditView:     audit.NewView(s, ports.Audit),
		currentView:   messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("hira - Recruiting Pipeline"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.boardView.SetDimensions(msg.Width, msg.Height)
		a.proposalsView.SetDimensions(msg.Width, msg.Height)
		a.auditView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewBoard:
			// Esc from the board goes to menu unless the add input is open
			if msg.Type == tea.KeyEsc && !a.boardView.Adding() {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.boardView, cmd = a.boardView.Update(msg)
			a.err = a.boardView.Err()
			return a, cmd

		case messages.ViewProposals:
			// Esc from proposals goes to menu unless the reason picker is open
			if msg.Type == tea.KeyEsc && !a.proposalsView.Rejecting() {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.proposalsView, cmd = a.proposalsView.Update(msg)
			a.err = a.proposalsView.Err()
			return a, cmd

		case messages.ViewAudit:
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.auditView, cmd = a.auditView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewBoard:
			return a, a.boardView.Init()
		case messages.ViewProposals:
			return a, a.proposalsView.Init()
		case messages.ViewAudit:
			return a, a.auditView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.BoardLoaded, messages.ItemAdded, messages.ItemMoved:
		a.boardView, cmd = a.boardView.Update(msg)
		a.err = a.boardView.Err()
		return a, cmd

	case messages.ProposalsLoaded, messages.ProposalRejected, messages.ProposalDisclosed:
		a.proposalsView, cmd = a.proposalsView.Update(msg)
		a.err = a.proposalsView.Err()
		return a, cmd

	case messages.AuditLoaded:
		a.auditView, cmd = a.auditView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewBoard:
		a.boardView, cmd = a.boardView.Update(msg)
	case messages.ViewProposals:
		a.proposalsView, cmd = a.proposalsView.Update(msg)
	case messages.ViewAudit:
		a.auditView, cmd = a.auditView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewBoard:
		return a.boardView.View()
	case messages.ViewProposals:
		return a.proposalsView.View()
	case messages.ViewAudit:
		return a.auditView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Board:
  h/l, ←/→    Select stage column
  j/k, ↑/↓    Select item
  a           Add a candidate to the selected stage
  H/L         Move item to previous/next stage
  J/K         Reorder item within its stage
  r           Reload

Proposals:
  j/k, ↑/↓    Navigate proposals
  d           Disclose into intake
  x           Reject (pick a reason)
  r           Reload

Audit Log:
  j/k, ↑/↓    Scroll
  g/G         Jump to top/bottom
  r           Reload

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.boardView.SetDimensions(width, height)
	a.proposalsView.SetDimensions(width, height)
	a.auditView.SetDimensions(width, height)
}
