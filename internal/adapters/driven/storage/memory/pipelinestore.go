package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
)

// Ensure PipelineStore implements the interface.
var _ driven.PipelineStore = (*PipelineStore)(nil)

// PipelineStore is an in-memory implementation of driven.PipelineStore.
// All mutations run under one mutex, which gives the atomicity the port
// demands: readers never see an item in zero or two stages.
type PipelineStore struct {
	mu    sync.RWMutex
	items map[string]*domain.PipelineItem
	order map[domain.Stage][]string
}

// NewPipelineStore creates a new in-memory pipeline store.
func NewPipelineStore() *PipelineStore {
	return &PipelineStore{
		items: make(map[string]*domain.PipelineItem),
		order: make(map[domain.Stage][]string),
	}
}

// Insert adds a new item to its stage's ordered list.
func (s *PipelineStore) Insert(_ context.Context, item domain.PipelineItem, beforeItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, item.ID)
	}

	stored := cloneItem(&item)
	s.items[item.ID] = stored
	s.order[item.Stage] = insertID(s.order[item.Stage], item.ID, s.indexIn(item.Stage, beforeItemID))
	s.renumber(item.Stage)
	return nil
}

// Get retrieves an item by ID.
func (s *PipelineStore) Get(_ context.Context, id string) (*domain.PipelineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return cloneItem(item), nil
}

// Move relocates an item atomically, guarded by the version check.
func (s *PipelineStore) Move(_ context.Context, id string, targetStage domain.Stage, beforeItemID string, expectedVersion int64) (*domain.PipelineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	if item.Version != expectedVersion {
		return nil, fmt.Errorf("%w: item %s is at version %d, caller expected %d",
			domain.ErrVersionMismatch, id, item.Version, expectedVersion)
	}

	fromStage := item.Stage
	s.order[fromStage] = removeID(s.order[fromStage], id)

	item.Stage = targetStage
	item.Version++
	item.LastUpdatedAt = time.Now().UTC()
	s.order[targetStage] = insertID(s.order[targetStage], id, s.indexIn(targetStage, beforeItemID))

	s.renumber(fromStage)
	if targetStage != fromStage {
		s.renumber(targetStage)
	}

	return cloneItem(item), nil
}

// ListByStage returns the stage's items ordered by position.
func (s *PipelineStore) ListByStage(_ context.Context, stage domain.Stage) ([]domain.PipelineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order[stage]
	result := make([]domain.PipelineItem, 0, len(ids))
	for _, id := range ids {
		result = append(result, *cloneItem(s.items[id]))
	}
	return result, nil
}

// Delete removes an item and renumbers its stage.
func (s *PipelineStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}

	s.order[item.Stage] = removeID(s.order[item.Stage], id)
	s.renumber(item.Stage)
	delete(s.items, id)
	return nil
}

// indexIn returns the index of beforeItemID within the stage's order,
// or -1 when absent (append). Must be called with the lock held.
func (s *PipelineStore) indexIn(stage domain.Stage, beforeItemID string) int {
	if beforeItemID == "" {
		return -1
	}
	for i, id := range s.order[stage] {
		if id == beforeItemID {
			return i
		}
	}
	return -1
}

// renumber reassigns dense positions for a stage. Must be called with
// the lock held.
func (s *PipelineStore) renumber(stage domain.Stage) {
	for i, id := range s.order[stage] {
		s.items[id].Position = i
	}
}

func insertID(ids []string, id string, at int) []string {
	if at < 0 || at >= len(ids) {
		return append(ids, id)
	}
	ids = append(ids, "")
	copy(ids[at+1:], ids[at:])
	ids[at] = id
	return ids
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneItem(item *domain.PipelineItem) *domain.PipelineItem {
	clone := *item
	if item.Annotations != nil {
		clone.Annotations = make(map[string]any, len(item.Annotations))
		for k, v := range item.Annotations {
			clone.Annotations[k] = v
		}
	}
	return &clone
}
