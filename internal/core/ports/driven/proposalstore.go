package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// ProposalStore persists proposals and rejection records.
type ProposalStore interface {
	// Insert adds a new proposal. Returns domain.ErrDuplicateID if the
	// id is already present.
	Insert(ctx context.Context, proposal domain.Proposal) error

	// Get retrieves a proposal by ID.
	Get(ctx context.Context, id string) (*domain.Proposal, error)

	// ListPending returns pending proposals ordered by ReceivedAt,
	// earliest first.
	ListPending(ctx context.Context) ([]domain.Proposal, error)

	// Resolve moves a proposal out of pending in one atomic step. It
	// fails with domain.ErrInvalidState when the proposal has already
	// left pending; terminal statuses never regress.
	Resolve(ctx context.Context, id string, status domain.ProposalStatus, resolvedAt time.Time) (*domain.Proposal, error)

	// MarkDisclosed links an accepted proposal to the pipeline item
	// minted by disclosure. It fails with domain.ErrInvalidState unless
	// the proposal is accepted.
	MarkDisclosed(ctx context.Context, id, itemID string) error

	// AddRejection appends a rejection record. Records are append-only.
	AddRejection(ctx context.Context, record domain.RejectionRecord) error

	// ListRejections returns all rejection records in append order.
	ListRejections(ctx context.Context) ([]domain.RejectionRecord, error)
}
