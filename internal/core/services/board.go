package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// Ensure BoardService implements the interfaces.
var (
	_ driving.BoardService = (*BoardService)(nil)
	_ driving.ItemRemover  = (*BoardService)(nil)
)

// BoardService manages pipeline items on a single recruiting board.
// Ordering and version checks live in the store; the service validates
// transitions against the stage registry and records audit entries.
type BoardService struct {
	store driven.PipelineStore
	audit *AuditRecorder

	regMu    sync.RWMutex
	registry *StageRegistry
}

// NewBoardService creates a board service. The audit recorder may be
// nil, in which case mutations are not audited.
func NewBoardService(store driven.PipelineStore, registry *StageRegistry, audit *AuditRecorder) *BoardService {
	return &BoardService{
		store:    store,
		audit:    audit,
		registry: registry,
	}
}

// SetRegistry swaps in a rebuilt stage registry. Used by the board
// config watcher on configuration reload.
func (s *BoardService) SetRegistry(registry *StageRegistry) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.registry = registry
}

func (s *BoardService) reg() *StageRegistry {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return s.registry
}

// AddItem adds an item to a stage. An empty item ID is filled with a
// fresh UUID. If beforeItemID names an item in the stage the new item
// is inserted before it; otherwise it is appended.
func (s *BoardService) AddItem(ctx context.Context, item domain.PipelineItem, stage domain.Stage, beforeItemID string) (string, error) {
	if s.store == nil {
		return "", domain.ErrNotImplemented
	}

	reg := s.reg()
	if reg == nil || !reg.Has(stage) {
		return "", fmt.Errorf("%w: unknown stage %q", domain.ErrConfiguration, stage)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.Stage = stage
	if item.Version <= 0 {
		item.Version = 1
	}
	item.LastUpdatedAt = time.Now().UTC()

	if err := s.store.Insert(ctx, item, beforeItemID); err != nil {
		return "", err
	}
	return item.ID, nil
}

// MoveItem relocates an item to targetStage, inserting before
// beforeItemID when that item is present in the target stage and
// appending otherwise. The move applies only when expectedVersion
// matches the stored version; a mismatch fails with
// domain.ErrVersionMismatch and the caller re-reads and retries.
func (s *BoardService) MoveItem(ctx context.Context, id string, targetStage domain.Stage, beforeItemID string, expectedVersion int64) (*domain.PipelineItem, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	reg := s.reg()
	if reg == nil {
		return nil, fmt.Errorf("%w: no stage registry", domain.ErrConfiguration)
	}
	allowed, err := reg.IsTransitionAllowed(item.Stage, targetStage)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, item.Stage, targetStage)
	}

	fromStage := item.Stage
	moved, err := s.store.Move(ctx, id, targetStage, beforeItemID, expectedVersion)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(ctx, domain.AuditStageTransition, domain.AuditPayload{
			ItemID:    id,
			FromStage: fromStage,
			ToStage:   targetStage,
		})
	}

	return moved, nil
}

// GetItem retrieves a single item by ID.
func (s *BoardService) GetItem(ctx context.Context, id string) (*domain.PipelineItem, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}

// ListByStage returns the stage's items ordered by position.
func (s *BoardService) ListByStage(ctx context.Context, stage domain.Stage) ([]domain.PipelineItem, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListByStage(ctx, stage)
}

// Board returns every stage in display order with its items.
func (s *BoardService) Board(ctx context.Context) ([]driving.StageColumn, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	reg := s.reg()
	if reg == nil {
		return nil, fmt.Errorf("%w: no stage registry", domain.ErrConfiguration)
	}

	stages := reg.OrderedStages()
	columns := make([]driving.StageColumn, 0, len(stages))
	for _, def := range stages {
		items, err := s.store.ListByStage(ctx, def.ID)
		if err != nil {
			return nil, err
		}
		columns = append(columns, driving.StageColumn{Stage: def, Items: items})
	}
	return columns, nil
}

// Stages returns the ordered stage definitions.
func (s *BoardService) Stages() []domain.StageDefinition {
	reg := s.reg()
	if reg == nil {
		return nil
	}
	return reg.OrderedStages()
}

// RemoveItem hard-deletes an item. Reserved for the disclosure
// bridge's compensating-action path; stage movement never deletes.
func (s *BoardService) RemoveItem(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Delete(ctx, id)
}
