package audit

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
	"github.com/custodia-labs/hira-cli/internal/core/services"
)

func newTestView(t *testing.T) (*View, *services.AuditRecorder) {
	t.Helper()

	recorder := services.NewAuditRecorder(memory.NewAuditLog())
	v := NewView(styles.DefaultStyles(), recorder)
	v.SetDimensions(120, 40)
	return v, recorder
}

func loadView(t *testing.T, v *View) *View {
	t.Helper()

	msg := v.loadEntries()()
	loaded, ok := msg.(messages.AuditLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	v, _ = v.Update(loaded)
	return v
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_LoadsEntries(t *testing.T) {
	v, recorder := newTestView(t)
	recorder.Record(context.Background(), domain.AuditStageTransition, domain.AuditPayload{
		ItemID:    "item-1",
		FromStage: domain.StageCandidateIntake,
		ToStage:   domain.StageInterview,
	})

	v = loadView(t, v)

	require.Len(t, v.Entries(), 1)
	rendered := v.View()
	assert.Contains(t, rendered, "moved item-1")
	assert.Contains(t, rendered, "interview")
}

func TestView_RendersRejections(t *testing.T) {
	v, recorder := newTestView(t)
	recorder.Record(context.Background(), domain.AuditRejection, domain.AuditPayload{
		ProposalID: "prop-1",
		Reason:     domain.ReasonSkillMismatch,
	})

	v = loadView(t, v)

	assert.Contains(t, v.View(), "rejected prop-1 (skill_mismatch)")
}

func TestView_Scrolling(t *testing.T) {
	v, recorder := newTestView(t)
	for i := 0; i < 3; i++ {
		recorder.Record(context.Background(), domain.AuditStageTransition,
			domain.AuditPayload{ItemID: "item-1"})
	}
	v = loadView(t, v)

	v, _ = v.Update(keyMsg("j"))
	assert.Equal(t, 1, v.Offset())

	v, _ = v.Update(keyMsg("G"))
	assert.Equal(t, 2, v.Offset())

	v, _ = v.Update(keyMsg("g"))
	assert.Equal(t, 0, v.Offset())
}

func TestView_EmptyLog(t *testing.T) {
	v, _ := newTestView(t)
	v = loadView(t, v)

	assert.Contains(t, v.View(), "No audit entries yet.")
}

func TestView_NoReaderConfigured(t *testing.T) {
	v := NewView(styles.DefaultStyles(), nil)
	v.SetDimensions(120, 40)

	msg := v.loadEntries()()
	loaded, ok := msg.(messages.AuditLoaded)
	require.True(t, ok)
	require.Error(t, loaded.Err)

	v, _ = v.Update(loaded)
	assert.Contains(t, v.View(), "audit log not configured")
}
