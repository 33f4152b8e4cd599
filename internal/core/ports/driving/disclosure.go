package driving

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// DisclosureService converts accepted proposals into pipeline items,
// revealing the candidate's identity in the process.
type DisclosureService interface {
	// Disclose accepts the proposal (or resumes one already accepted
	// but not yet disclosed), resolves the candidate identity, and
	// places a new pipeline item per the placement. The sequence is
	// atomic to observers: either a pending proposal becomes an
	// accepted proposal with exactly one pipeline item, or an error
	// reports precisely how far it got.
	Disclose(ctx context.Context, proposalID string, placement domain.Placement) (*domain.PipelineItem, error)

	// Undo removes the pipeline item minted for a disclosed proposal.
	// The proposal stays accepted; disclosure can run again.
	Undo(ctx context.Context, proposalID string) error
}
