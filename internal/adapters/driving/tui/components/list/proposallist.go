// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// ProposalList displays pending masked proposals in a navigable list.
type ProposalList struct {
	proposals []domain.Proposal
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewProposalList creates a new proposal list component.
func NewProposalList(s *styles.Styles) *ProposalList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ProposalList{
		proposals: nil,
		selected:  0,
		styles:    s,
		width:     80,
		height:    10,
	}
}

// Init initialises the proposal list.
func (l *ProposalList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ProposalList) Update(msg tea.Msg) (*ProposalList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			l.MoveUp()
		case "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the proposal list.
func (l *ProposalList) View() string {
	if len(l.proposals) == 0 {
		return l.styles.Muted.Render("No pending proposals")
	}

	lines := make([]string, 0, len(l.proposals)*2+2)

	header := l.styles.Subtitle.Render(fmt.Sprintf("Pending (%d)", len(l.proposals)))
	lines = append(lines, header, "")

	// Each proposal takes two lines: summary plus note.
	visibleCount := (l.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.proposals) {
		end = len(l.proposals)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderProposal(i, &l.proposals[i]))
	}

	return strings.Join(lines, "\n")
}

// renderProposal formats a single masked proposal. The candidate's
// identity is never available here; only the masked profile renders.
func (l *ProposalList) renderProposal(index int, proposal *domain.Proposal) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	summary := proposal.Profile.ExperienceSummary
	if summary == "" {
		summary = "(no summary)"
	}
	if proposal.Profile.AgeBracket != "" {
		summary = fmt.Sprintf("[%s] %s", proposal.Profile.AgeBracket, summary)
	}

	maxLen := l.width - 16
	if maxLen < 20 {
		maxLen = 20
	}
	if len(summary) > maxLen {
		summary = summary[:maxLen-3] + "..."
	}

	received := proposal.ReceivedAt.Format("Jan 02 15:04")

	var headLine string
	if index == l.selected {
		headLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxLen, summary, received))
	} else {
		headLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxLen, summary)) +
			l.styles.Muted.Render(received)
	}

	detail := "via " + proposal.SourceRef
	if len(proposal.Profile.Skills) > 0 {
		detail += "  " + strings.Join(proposal.Profile.Skills, ", ")
	}
	if proposal.Profile.Note != "" {
		detail += "  " + proposal.Profile.Note
	}
	maxDetailLen := l.width - 6
	if maxDetailLen < 20 {
		maxDetailLen = 20
	}
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen-3] + "..."
	}
	detailLine := l.styles.Muted.Render("    " + detail)

	return headLine + "\n" + detailLine
}

// SetProposals updates the proposal list.
func (l *ProposalList) SetProposals(proposals []domain.Proposal) {
	l.proposals = proposals
	if l.selected >= len(proposals) {
		l.selected = 0
	}
}

// Proposals returns the current proposals.
func (l *ProposalList) Proposals() []domain.Proposal {
	return l.proposals
}

// Selected returns the index of the selected proposal.
func (l *ProposalList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *ProposalList) SetSelected(index int) {
	if index >= 0 && index < len(l.proposals) {
		l.selected = index
	}
}

// SelectedProposal returns the currently selected proposal, or nil if none.
func (l *ProposalList) SelectedProposal() *domain.Proposal {
	if len(l.proposals) == 0 || l.selected < 0 || l.selected >= len(l.proposals) {
		return nil
	}
	return &l.proposals[l.selected]
}

// MoveUp moves selection up.
func (l *ProposalList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ProposalList) MoveDown() {
	if l.selected < len(l.proposals)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ProposalList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of proposals.
func (l *ProposalList) Count() int {
	return len(l.proposals)
}

// IsEmpty returns whether the list is empty.
func (l *ProposalList) IsEmpty() bool {
	return len(l.proposals) == 0
}
