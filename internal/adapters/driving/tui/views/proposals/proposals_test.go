package proposals

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hira-cli/internal/core/services"
)

type staticResolver struct{ ref string }

func (r *staticResolver) Resolve(_ context.Context, _ domain.MaskedProfile) (string, error) {
	return r.ref, nil
}

func newTestView(t *testing.T) (*View, driving.ProposalService) {
	t.Helper()

	registry, err := services.NewStageRegistry(domain.DefaultBoardConfig())
	require.NoError(t, err)
	board := services.NewBoardService(memory.NewPipelineStore(), registry, nil)
	proposalService := services.NewProposalService(memory.NewProposalStore(), nil)
	disclosure := services.NewDisclosureService(proposalService, board, board, &staticResolver{ref: "candidate-1"})

	v := NewView(styles.DefaultStyles(), proposalService, disclosure)
	v.SetDimensions(120, 40)
	return v, proposalService
}

func loadView(t *testing.T, v *View) *View {
	t.Helper()

	msg := v.loadProposals()()
	loaded, ok := msg.(messages.ProposalsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	v, _ = v.Update(loaded)
	return v
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func submitProposal(t *testing.T, svc driving.ProposalService, source string) string {
	t.Helper()

	id, err := svc.Submit(context.Background(), domain.Proposal{
		SourceRef: source,
		Profile: domain.MaskedProfile{
			AgeBracket:        "30-34",
			ExperienceSummary: "8y backend",
			Skills:            []string{"go"},
		},
	})
	require.NoError(t, err)
	return id
}

func TestView_LoadsPendingQueue(t *testing.T) {
	v, svc := newTestView(t)
	submitProposal(t, svc, "agent-7")

	v = loadView(t, v)

	require.Len(t, v.Proposals(), 1)
	assert.Contains(t, v.View(), "8y backend")
	assert.Contains(t, v.View(), "agent-7")
}

func TestView_DiscloseRemovesFromQueue(t *testing.T) {
	v, svc := newTestView(t)
	id := submitProposal(t, svc, "agent-7")
	v = loadView(t, v)

	v, cmd := v.Update(keyMsg("d"))
	require.NotNil(t, cmd)

	disclosed, ok := cmd().(messages.ProposalDisclosed)
	require.True(t, ok)
	require.NoError(t, disclosed.Err)
	assert.Equal(t, id, disclosed.ProposalID)
	assert.Equal(t, "candidate-1", disclosed.Item.CandidateRef)
	assert.Equal(t, domain.StageCandidateIntake, disclosed.Item.Stage)

	// The view reloads after a disclosure; the queue is now empty.
	v, cmd = v.Update(disclosed)
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	assert.Empty(t, v.Proposals())
}

func TestView_RejectFlow(t *testing.T) {
	v, svc := newTestView(t)
	id := submitProposal(t, svc, "agent-7")
	v = loadView(t, v)

	// Open the reason picker and choose the second reason.
	v, _ = v.Update(keyMsg("x"))
	require.True(t, v.Rejecting())

	v, _ = v.Update(keyMsg("j"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.Rejecting())

	rejected, ok := cmd().(messages.ProposalRejected)
	require.True(t, ok)
	require.NoError(t, rejected.Err)
	assert.Equal(t, id, rejected.ID)

	prop, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, prop.Status)
}

func TestView_RejectCancelledWithEsc(t *testing.T) {
	v, svc := newTestView(t)
	id := submitProposal(t, svc, "agent-7")
	v = loadView(t, v)

	v, _ = v.Update(keyMsg("x"))
	require.True(t, v.Rejecting())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.Rejecting())

	prop, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalPending, prop.Status)
}

func TestView_DiscloseWithoutService(t *testing.T) {
	proposalService := services.NewProposalService(memory.NewProposalStore(), nil)
	submitProposal(t, proposalService, "agent-7")

	v := NewView(styles.DefaultStyles(), proposalService, nil)
	v.SetDimensions(120, 40)
	v = loadView(t, v)

	v, cmd := v.Update(keyMsg("d"))
	require.NotNil(t, cmd)

	disclosed, ok := cmd().(messages.ProposalDisclosed)
	require.True(t, ok)
	require.Error(t, disclosed.Err)

	v, _ = v.Update(disclosed)
	assert.Error(t, v.Err())
}

func TestView_EmptyQueueRendered(t *testing.T) {
	v, _ := newTestView(t)
	v = loadView(t, v)

	assert.Contains(t, v.View(), "No pending proposals")
}
