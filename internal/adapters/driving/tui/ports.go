// Package tui provides an interactive terminal user interface for hira.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Board manages pipeline items and their stage ordering.
	Board driving.BoardService

	// Proposals manages the masked referral queue.
	Proposals driving.ProposalService

	// Disclosure converts accepted proposals into pipeline items.
	// Optional; the proposals view disables disclosure when nil.
	Disclosure driving.DisclosureService

	// Audit exposes the audit log for the audit view.
	// Optional; the audit view reports it as unconfigured when nil.
	Audit driving.AuditReader
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	board driving.BoardService,
	proposals driving.ProposalService,
	disclosure driving.DisclosureService,
	audit driving.AuditReader,
) *Ports {
	return &Ports{
		Board:      board,
		Proposals:  proposals,
		Disclosure: disclosure,
		Audit:      audit,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Board == nil {
		return ErrMissingBoardService
	}
	if p.Proposals == nil {
		return ErrMissingProposalService
	}
	return nil
}
