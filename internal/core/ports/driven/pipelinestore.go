package driven

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// PipelineStore persists pipeline items and their per-stage ordering.
//
// Implementations own the dense position numbering: after any mutation
// every affected stage's positions form a gap-free 0..n-1 sequence, and
// each item belongs to exactly one stage. Mutations that span two stage
// lists are atomic; readers never observe an item in zero or two stages.
type PipelineStore interface {
	// Insert adds a new item to its stage's ordered list. If
	// beforeItemID names an item in the same stage, the new item is
	// placed immediately before it; otherwise it is appended.
	// Returns domain.ErrDuplicateID if the id is already present.
	Insert(ctx context.Context, item domain.PipelineItem, beforeItemID string) error

	// Get retrieves an item by ID.
	Get(ctx context.Context, id string) (*domain.PipelineItem, error)

	// Move relocates an item to targetStage in a single atomic step,
	// inserting before beforeItemID when that item is present in the
	// target stage and appending otherwise. The move only applies when
	// the stored version equals expectedVersion; otherwise it fails
	// with domain.ErrVersionMismatch. On success the item's version is
	// incremented, its timestamp refreshed, and both affected stage
	// lists renumbered densely.
	Move(ctx context.Context, id string, targetStage domain.Stage, beforeItemID string, expectedVersion int64) (*domain.PipelineItem, error)

	// ListByStage returns the stage's items ordered by position.
	// The result is a snapshot; it never reflects a torn state.
	ListByStage(ctx context.Context, stage domain.Stage) ([]domain.PipelineItem, error)

	// Delete removes an item and renumbers its stage. Reserved for the
	// disclosure bridge's compensating-action path.
	Delete(ctx context.Context, id string) error
}
