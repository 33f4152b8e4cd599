package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func submitTestProposal(t *testing.T, svcs *testServices) string {
	t.Helper()
	id, err := svcs.proposals.Submit(context.Background(), domain.Proposal{
		SourceRef: "agent-7",
		JobRef:    "backend-eng",
		Profile: domain.MaskedProfile{
			ExperienceSummary: "8 years backend",
			Skills:            []string{"go", "sql"},
		},
	})
	require.NoError(t, err)
	return id
}

func TestProposalsSubmitCmd(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() {
		proposalSubmitSource = ""
		proposalSubmitSkills = ""
	}()

	out, err := execute(t, "proposals", "submit", "--source", "agent-7", "--skills", "go, sql")

	require.NoError(t, err)
	assert.Contains(t, out, "Submitted proposal:")

	pending, err := svcs.proposals.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "agent-7", pending[0].SourceRef)
	assert.Equal(t, []string{"go", "sql"}, pending[0].Profile.Skills)
}

func TestProposalsListCmd(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	submitTestProposal(t, svcs)

	out, err := execute(t, "proposals", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Pending proposals (1)")
	assert.Contains(t, out, "agent-7")
	assert.Contains(t, out, "go, sql")
}

func TestProposalsListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "proposals", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No pending proposals")
}

func TestProposalsAcceptCmd(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	id := submitTestProposal(t, svcs)

	out, err := execute(t, "proposals", "accept", id)

	require.NoError(t, err)
	assert.Contains(t, out, "Accepted proposal: "+id)
	assert.Contains(t, out, "Disclosure token:")
}

func TestProposalsRejectCmd(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	id := submitTestProposal(t, svcs)
	defer func() { proposalRejectReason = "" }()

	out, err := execute(t, "proposals", "reject", id, "--reason", "skill_mismatch")

	require.NoError(t, err)
	assert.Contains(t, out, "Rejected proposal "+id)

	prop, err := svcs.proposals.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, prop.Status)
}

func TestProposalsRejectCmd_RequiresReason(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	id := submitTestProposal(t, svcs)
	proposalRejectReason = ""

	_, err := execute(t, "proposals", "reject", id)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--reason is required")
}

func TestProposalsRejectCmd_InvalidReason(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	id := submitTestProposal(t, svcs)
	defer func() { proposalRejectReason = "" }()

	_, err := execute(t, "proposals", "reject", id, "--reason", "vibes")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProposalsDiscloseCmd(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	id := submitTestProposal(t, svcs)
	defer func() { discloseStage = string(domain.StageCandidateIntake) }()

	out, err := execute(t, "proposals", "disclose", id, "--stage", "interview")

	require.NoError(t, err)
	assert.Contains(t, out, "Disclosed candidate-1 into interview")

	items, err := svcs.board.ListByStage(context.Background(), domain.StageInterview)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "candidate-1", items[0].CandidateRef)
}

func TestProposalsUndoCmd(t *testing.T) {
	svcs, cleanup := setupTestServices(t)
	defer cleanup()
	id := submitTestProposal(t, svcs)

	_, err := execute(t, "proposals", "disclose", id)
	require.NoError(t, err)

	out, err := execute(t, "proposals", "undo", id)

	require.NoError(t, err)
	assert.Contains(t, out, "Removed disclosed item")

	items, err := svcs.board.ListByStage(context.Background(), domain.StageCandidateIntake)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProposalsCmd_ServiceNotConfigured(t *testing.T) {
	old := proposalService
	proposalService = nil
	defer func() { proposalService = old }()

	_, err := execute(t, "proposals", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "proposal service not configured")
}
