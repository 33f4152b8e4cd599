package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func TestAuditCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "audit")

	require.NoError(t, err)
	assert.Contains(t, out, "No audit entries")
}

func TestAuditCmd_ShowsTransitionsAndRejections(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()

	id, err := svcs.board.AddItem(context.Background(),
		domain.PipelineItem{CandidateRef: "candidate-7"}, domain.StageInterview, "")
	require.NoError(t, err)
	_, err = svcs.board.MoveItem(context.Background(), id, domain.StageOffer, "", 1)
	require.NoError(t, err)

	propID, err := svcs.proposals.Submit(context.Background(), domain.Proposal{SourceRef: "agent-7"})
	require.NoError(t, err)
	require.NoError(t, svcs.proposals.Reject(context.Background(), propID, domain.ReasonLocation))

	out, err := execute(t, "audit")

	require.NoError(t, err)
	assert.Contains(t, out, "moved "+id+": interview -> offer")
	assert.Contains(t, out, "rejected "+propID+" (location)")
}

func TestAuditCmd_AfterFlag(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { auditAfterSeq = 0 }()

	id, err := svcs.board.AddItem(context.Background(),
		domain.PipelineItem{CandidateRef: "a"}, domain.StageInterview, "")
	require.NoError(t, err)
	_, err = svcs.board.MoveItem(context.Background(), id, domain.StageOffer, "", 1)
	require.NoError(t, err)
	_, err = svcs.board.MoveItem(context.Background(), id, domain.StageHired, "", 2)
	require.NoError(t, err)

	out, err := execute(t, "audit", "--after", "1")

	require.NoError(t, err)
	assert.NotContains(t, out, "interview -> offer")
	assert.Contains(t, out, "offer -> hired")
}

func TestAuditCmd_JSON(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { auditJSON = false }()

	id, err := svcs.board.AddItem(context.Background(),
		domain.PipelineItem{CandidateRef: "a"}, domain.StageInterview, "")
	require.NoError(t, err)
	_, err = svcs.board.MoveItem(context.Background(), id, domain.StageOffer, "", 1)
	require.NoError(t, err)

	out, err := execute(t, "audit", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, "\"Kind\"")
	assert.Contains(t, out, "stage_transition")
}

func TestAuditCmd_ReaderNotConfigured(t *testing.T) {
	old := auditReader
	auditReader = nil
	defer func() { auditReader = old }()

	_, err := execute(t, "audit")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit reader not configured")
}
