package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func TestHandleListBoard(t *testing.T) {
	server, ports := newTestServer(t)
	_, err := ports.Board.AddItem(context.Background(),
		domain.PipelineItem{CandidateRef: "candidate-7"}, domain.StageInterview, "")
	require.NoError(t, err)

	_, output, err := server.handleListBoard(context.Background(), nil, ListBoardInput{})
	require.NoError(t, err)

	require.Len(t, output.Stages, len(domain.DefaultBoardConfig().Stages))
	var interview *StageOutput
	for i := range output.Stages {
		if output.Stages[i].ID == string(domain.StageInterview) {
			interview = &output.Stages[i]
		}
	}
	require.NotNil(t, interview)
	require.Len(t, interview.Items, 1)
	assert.Equal(t, "candidate-7", interview.Items[0].CandidateRef)
}

func TestHandleListBoard_SingleStage(t *testing.T) {
	server, ports := newTestServer(t)
	_, err := ports.Board.AddItem(context.Background(),
		domain.PipelineItem{CandidateRef: "candidate-7"}, domain.StageOffer, "")
	require.NoError(t, err)

	_, output, err := server.handleListBoard(context.Background(), nil, ListBoardInput{Stage: "offer"})
	require.NoError(t, err)

	require.Len(t, output.Stages, 1)
	require.Len(t, output.Stages[0].Items, 1)
}

func TestHandleMoveItem(t *testing.T) {
	server, ports := newTestServer(t)
	id, err := ports.Board.AddItem(context.Background(),
		domain.PipelineItem{CandidateRef: "candidate-7"}, domain.StageInterview, "")
	require.NoError(t, err)

	_, output, err := server.handleMoveItem(context.Background(), nil, MoveItemInput{
		ItemID: id,
		Stage:  "offer",
	})
	require.NoError(t, err)

	assert.Equal(t, "offer", output.Item.Stage)
	assert.Equal(t, int64(2), output.Item.Version)
}

func TestHandleMoveItem_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	_, _, err := server.handleMoveItem(context.Background(), nil, MoveItemInput{
		ItemID: "missing",
		Stage:  "offer",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleSubmitProposal(t *testing.T) {
	server, ports := newTestServer(t)

	_, output, err := server.handleSubmitProposal(context.Background(), nil, SubmitProposalInput{
		SourceRef: "agent-7",
		Skills:    []string{"go"},
		Note:      "strong referral",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.ProposalID)

	pending, err := ports.Proposals.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "agent-7", pending[0].SourceRef)
}

func TestHandleSubmitProposal_RequiresSource(t *testing.T) {
	server, _ := newTestServer(t)

	_, _, err := server.handleSubmitProposal(context.Background(), nil, SubmitProposalInput{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHandleListProposals(t *testing.T) {
	server, ports := newTestServer(t)
	_, err := ports.Proposals.Submit(context.Background(), domain.Proposal{SourceRef: "agent-7"})
	require.NoError(t, err)

	_, output, err := server.handleListProposals(context.Background(), nil, struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 1, output.Count)
	require.Len(t, output.Proposals, 1)
	assert.Equal(t, "agent-7", output.Proposals[0].SourceRef)
}

func TestHandleRejectProposal(t *testing.T) {
	server, ports := newTestServer(t)
	id, err := ports.Proposals.Submit(context.Background(), domain.Proposal{SourceRef: "agent-7"})
	require.NoError(t, err)

	_, output, err := server.handleRejectProposal(context.Background(), nil, RejectProposalInput{
		ProposalID: id,
		Reason:     "skill_mismatch",
	})
	require.NoError(t, err)
	assert.Equal(t, id, output.ProposalID)

	prop, err := ports.Proposals.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, prop.Status)
}

func TestHandleRejectProposal_InvalidReason(t *testing.T) {
	server, ports := newTestServer(t)
	id, err := ports.Proposals.Submit(context.Background(), domain.Proposal{SourceRef: "agent-7"})
	require.NoError(t, err)

	_, _, err = server.handleRejectProposal(context.Background(), nil, RejectProposalInput{
		ProposalID: id,
		Reason:     "vibes",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHandleDiscloseProposal(t *testing.T) {
	server, ports := newTestServer(t)
	id, err := ports.Proposals.Submit(context.Background(), domain.Proposal{
		SourceRef: "agent-7",
		Profile:   domain.MaskedProfile{Note: "strong referral"},
	})
	require.NoError(t, err)

	_, output, err := server.handleDiscloseProposal(context.Background(), nil, DiscloseProposalInput{
		ProposalID: id,
		Stage:      "interview",
	})
	require.NoError(t, err)

	assert.Equal(t, "candidate-1", output.Item.CandidateRef)
	assert.Equal(t, "interview", output.Item.Stage)
	assert.Equal(t, "strong referral", output.Item.Memo)
}
