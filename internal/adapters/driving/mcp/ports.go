package mcp

import (
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Board manages pipeline items and stages.
	Board driving.BoardService

	// Proposals manages the blind-review referral queue.
	Proposals driving.ProposalService

	// Disclosure converts accepted proposals into pipeline items.
	Disclosure driving.DisclosureService

	// Audit reads the append-only audit log.
	Audit driving.AuditReader
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
	// Disclosure and Audit are optional
	return nil
}
