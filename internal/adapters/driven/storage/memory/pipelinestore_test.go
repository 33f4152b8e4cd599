package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func addItem(t *testing.T, store *PipelineStore, id string, stage domain.Stage) {
	t.Helper()
	err := store.Insert(context.Background(), domain.PipelineItem{
		ID:      id,
		Stage:   stage,
		Version: 1,
	}, "")
	require.NoError(t, err)
}

func stageIDs(t *testing.T, store *PipelineStore, stage domain.Stage) []string {
	t.Helper()
	items, err := store.ListByStage(context.Background(), stage)
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for i, item := range items {
		assert.Equal(t, i, item.Position, "positions must be dense")
		ids = append(ids, item.ID)
	}
	return ids
}

func TestPipelineStore_Insert_AppendsInOrder(t *testing.T) {
	store := NewPipelineStore()

	addItem(t, store, "a", domain.StageInterview)
	addItem(t, store, "b", domain.StageInterview)
	addItem(t, store, "c", domain.StageInterview)

	assert.Equal(t, []string{"a", "b", "c"}, stageIDs(t, store, domain.StageInterview))
}

func TestPipelineStore_Insert_BeforeSibling(t *testing.T) {
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)
	addItem(t, store, "b", domain.StageInterview)

	err := store.Insert(context.Background(), domain.PipelineItem{
		ID:      "c",
		Stage:   domain.StageInterview,
		Version: 1,
	}, "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c", "b"}, stageIDs(t, store, domain.StageInterview))
}

func TestPipelineStore_Insert_Duplicate(t *testing.T) {
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)

	err := store.Insert(context.Background(), domain.PipelineItem{
		ID:    "a",
		Stage: domain.StageOffer,
	}, "")

	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestPipelineStore_Get_NotFound(t *testing.T) {
	store := NewPipelineStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipelineStore_Move_AppendToTarget(t *testing.T) {
	// interview = [A, B, C]; moving C to offer with no sibling appends.
	store := NewPipelineStore()
	addItem(t, store, "A", domain.StageInterview)
	addItem(t, store, "B", domain.StageInterview)
	addItem(t, store, "C", domain.StageInterview)

	moved, err := store.Move(context.Background(), "C", domain.StageOffer, "", 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StageOffer, moved.Stage)
	assert.Equal(t, int64(2), moved.Version)
	assert.Equal(t, []string{"A", "B"}, stageIDs(t, store, domain.StageInterview))
	assert.Equal(t, []string{"C"}, stageIDs(t, store, domain.StageOffer))
}

func TestPipelineStore_Move_BeforeSiblingAcrossStages(t *testing.T) {
	// interview = [A, C], offer = [B]; moving B before A lands it at
	// the head of interview.
	store := NewPipelineStore()
	addItem(t, store, "A", domain.StageInterview)
	addItem(t, store, "C", domain.StageInterview)
	addItem(t, store, "B", domain.StageOffer)

	_, err := store.Move(context.Background(), "B", domain.StageInterview, "A", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A", "C"}, stageIDs(t, store, domain.StageInterview))
	assert.Empty(t, stageIDs(t, store, domain.StageOffer))
}

func TestPipelineStore_Move_ReorderWithinStage(t *testing.T) {
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)
	addItem(t, store, "b", domain.StageInterview)
	addItem(t, store, "c", domain.StageInterview)

	_, err := store.Move(context.Background(), "c", domain.StageInterview, "a", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, stageIDs(t, store, domain.StageInterview))
}

func TestPipelineStore_Move_UnknownSiblingAppends(t *testing.T) {
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)
	addItem(t, store, "b", domain.StageOffer)

	// Sibling "a" is in interview, not offer; insert degrades to append.
	_, err := store.Move(context.Background(), "a", domain.StageOffer, "zzz", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, stageIDs(t, store, domain.StageOffer))
}

func TestPipelineStore_Move_VersionMismatch(t *testing.T) {
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)

	// First caller wins with the current version.
	_, err := store.Move(context.Background(), "a", domain.StageOffer, "", 1)
	require.NoError(t, err)

	// Second caller still holds the stale version.
	_, err = store.Move(context.Background(), "a", domain.StageInterview, "", 1)
	assert.ErrorIs(t, err, domain.ErrVersionMismatch)
}

func TestPipelineStore_Move_NotFound(t *testing.T) {
	store := NewPipelineStore()

	_, err := store.Move(context.Background(), "missing", domain.StageOffer, "", 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipelineStore_Delete_Renumbers(t *testing.T) {
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)
	addItem(t, store, "b", domain.StageInterview)
	addItem(t, store, "c", domain.StageInterview)

	err := store.Delete(context.Background(), "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, stageIDs(t, store, domain.StageInterview))

	_, err = store.Get(context.Background(), "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipelineStore_SingleMembership(t *testing.T) {
	// After any move the item must be counted exactly once across all
	// stages.
	store := NewPipelineStore()
	addItem(t, store, "a", domain.StageInterview)

	_, err := store.Move(context.Background(), "a", domain.StageOffer, "", 1)
	require.NoError(t, err)
	_, err = store.Move(context.Background(), "a", domain.StageHired, "", 2)
	require.NoError(t, err)

	total := 0
	for _, stage := range []domain.Stage{domain.StageInterview, domain.StageOffer, domain.StageHired} {
		total += len(stageIDs(t, store, stage))
	}
	assert.Equal(t, 1, total)
}

func TestPipelineStore_ListByStage_ReturnsCopies(t *testing.T) {
	store := NewPipelineStore()
	err := store.Insert(context.Background(), domain.PipelineItem{
		ID:          "a",
		Stage:       domain.StageInterview,
		Version:     1,
		Annotations: map[string]any{"score": 7},
	}, "")
	require.NoError(t, err)

	items, err := store.ListByStage(context.Background(), domain.StageInterview)
	require.NoError(t, err)
	items[0].Annotations["score"] = 9

	fresh, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 7, fresh.Annotations["score"])
}
