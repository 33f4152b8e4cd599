package driving

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// ProposalService manages the masked referral queue.
type ProposalService interface {
	// Submit enqueues a proposal with status forced to pending and
	// returns its id.
	Submit(ctx context.Context, proposal domain.Proposal) (string, error)

	// Get retrieves a proposal by ID.
	Get(ctx context.Context, id string) (*domain.Proposal, error)

	// Accept resolves a pending proposal to accepted and returns the
	// read view with the disclosure capability token. Fails with
	// domain.ErrInvalidState unless the proposal is pending.
	Accept(ctx context.Context, id string) (*domain.AcceptedProposal, error)

	// Reject resolves a pending proposal to rejected, writing a
	// rejection record. The reason must be one of the enumerated set.
	Reject(ctx context.Context, id string, reason domain.RejectionReason) error

	// ListPending returns pending proposals, earliest received first.
	ListPending(ctx context.Context) ([]domain.Proposal, error)

	// MarkDisclosed links an accepted proposal to its minted pipeline
	// item. An empty itemID clears the link (disclosure undo). Called
	// by the disclosure bridge only.
	MarkDisclosed(ctx context.Context, id, itemID string) error
}
