// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewBoard is the pipeline board view.
	ViewBoard
	// ViewProposals is the masked proposal queue view.
	ViewProposals
	// ViewAudit is the audit log view.
	ViewAudit
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewBoard:
		return "board"
	case ViewProposals:
		return "proposals"
	case ViewAudit:
		return "audit"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// BoardLoaded carries the board's stage columns from the service.
type BoardLoaded struct {
	Columns []driving.StageColumn
	Err     error
}

// ItemAdded signals a pipeline item was added to the board.
type ItemAdded struct {
	ID  string
	Err error
}

// ItemMoved signals a pipeline item changed stage or position.
type ItemMoved struct {
	Item *domain.PipelineItem
	Err  error
}

// ProposalsLoaded carries the pending proposal queue.
type ProposalsLoaded struct {
	Proposals []domain.Proposal
	Err       error
}

// ProposalRejected signals a proposal was rejected.
type ProposalRejected struct {
	ID  string
	Err error
}

// ProposalDisclosed signals a proposal was disclosed onto the board.
type ProposalDisclosed struct {
	ProposalID string
	Item       *domain.PipelineItem
	Err        error
}

// AuditLoaded carries audit log entries.
type AuditLoaded struct {
	Entries []domain.AuditEntry
	Err     error
}
