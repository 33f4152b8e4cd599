package driving

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// StageColumn is one column of the board read view: a stage definition
// with its position-ordered items.
type StageColumn struct {
	Stage domain.StageDefinition
	Items []domain.PipelineItem
}

// BoardService manages pipeline items and their ordering across stages.
type BoardService interface {
	// AddItem adds an item to a stage. If beforeItemID names an item
	// in that stage the new item is inserted before it; otherwise it
	// is appended. Returns the item's id.
	AddItem(ctx context.Context, item domain.PipelineItem, stage domain.Stage, beforeItemID string) (string, error)

	// MoveItem relocates an item, validating the transition against
	// the stage registry and the expectedVersion against the stored
	// version. Callers supply expectedVersion from their last read and
	// handle domain.ErrVersionMismatch by re-reading and retrying.
	MoveItem(ctx context.Context, id string, targetStage domain.Stage, beforeItemID string, expectedVersion int64) (*domain.PipelineItem, error)

	// GetItem retrieves a single item by ID.
	GetItem(ctx context.Context, id string) (*domain.PipelineItem, error)

	// ListByStage returns the stage's items ordered by position.
	ListByStage(ctx context.Context, stage domain.Stage) ([]domain.PipelineItem, error)

	// Board returns every stage in display order with its items.
	Board(ctx context.Context) ([]StageColumn, error)

	// Stages returns the ordered stage definitions.
	Stages() []domain.StageDefinition
}

// ItemRemover hard-deletes a pipeline item. It exists solely for the
// disclosure bridge's compensating-action path; ordinary stage movement
// never deletes.
type ItemRemover interface {
	RemoveItem(ctx context.Context, id string) error
}
