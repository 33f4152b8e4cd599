package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func sampleProposals() []domain.Proposal {
	received := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Proposal{
		{
			ID:        "p1",
			SourceRef: "agent-7",
			Profile: domain.MaskedProfile{
				AgeBracket:        "30-34",
				ExperienceSummary: "8y backend",
				Skills:            []string{"go", "sql"},
			},
			ReceivedAt: received,
		},
		{
			ID:         "p2",
			SourceRef:  "agent-9",
			Profile:    domain.MaskedProfile{Note: "strong referral"},
			ReceivedAt: received.Add(time.Hour),
		},
	}
}

func TestProposalList_Empty(t *testing.T) {
	l := NewProposalList(styles.DefaultStyles())

	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedProposal())
	assert.Contains(t, l.View(), "No pending proposals")
}

func TestProposalList_RendersMaskedProfile(t *testing.T) {
	l := NewProposalList(styles.DefaultStyles())
	l.SetDimensions(100, 20)
	l.SetProposals(sampleProposals())

	rendered := l.View()
	assert.Contains(t, rendered, "Pending (2)")
	assert.Contains(t, rendered, "[30-34] 8y backend")
	assert.Contains(t, rendered, "go, sql")
	assert.Contains(t, rendered, "via agent-7")
}

func TestProposalList_Navigation(t *testing.T) {
	l := NewProposalList(styles.DefaultStyles())
	l.SetProposals(sampleProposals())

	l.MoveDown()
	require.NotNil(t, l.SelectedProposal())
	assert.Equal(t, "p2", l.SelectedProposal().ID)

	// Cannot move past the end
	l.MoveDown()
	assert.Equal(t, 1, l.Selected())

	l.MoveUp()
	assert.Equal(t, "p1", l.SelectedProposal().ID)
}

func TestProposalList_SetProposalsResetsOutOfRangeSelection(t *testing.T) {
	l := NewProposalList(styles.DefaultStyles())
	l.SetProposals(sampleProposals())
	l.SetSelected(1)

	l.SetProposals(sampleProposals()[:1])

	assert.Equal(t, 0, l.Selected())
}
