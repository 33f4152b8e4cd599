// Package proposals provides the masked proposal queue view for the TUI.
package proposals

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// mode tracks whether the view is browsing or picking a rejection reason.
type mode int

const (
	modeBrowse mode = iota
	modeReject
)

// View is the masked proposal queue view. Proposals render without any
// identifying detail; disclosure is the only path to a candidate ref.
type View struct {
	styles            *styles.Styles
	proposalService   driving.ProposalService
	disclosureService driving.DisclosureService

	list      *list.ProposalList
	mode      mode
	reasons   []domain.RejectionReason
	reasonIdx int

	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new proposals view.
func NewView(
	s *styles.Styles,
	proposalService driving.ProposalService,
	disclosureService driving.DisclosureService,
) *View {
	return &View{
		styles:            s,
		proposalService:   proposalService,
		disclosureService: disclosureService,
		list:              list.NewProposalList(s),
		reasons:           domain.RejectionReasons(),
	}
}

// Init initialises the view and loads the pending queue.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.mode = modeBrowse
	return v.loadProposals()
}

// loadProposals returns a command that loads pending proposals.
func (v *View) loadProposals() tea.Cmd {
	return func() tea.Msg {
		if v.proposalService == nil {
			return messages.ProposalsLoaded{Err: fmt.Errorf("proposal service not available")}
		}
		pending, err := v.proposalService.ListPending(context.Background())
		return messages.ProposalsLoaded{Proposals: pending, Err: err}
	}
}

// disclose returns a command that discloses a proposal into intake.
func (v *View) disclose(proposalID string) tea.Cmd {
	return func() tea.Msg {
		if v.disclosureService == nil {
			return messages.ProposalDisclosed{
				ProposalID: proposalID,
				Err:        fmt.Errorf("disclosure service not available"),
			}
		}
		item, err := v.disclosureService.Disclose(context.Background(), proposalID,
			domain.Placement{Stage: domain.StageCandidateIntake})
		return messages.ProposalDisclosed{ProposalID: proposalID, Item: item, Err: err}
	}
}

// reject returns a command that rejects a proposal.
func (v *View) reject(proposalID string, reason domain.RejectionReason) tea.Cmd {
	return func() tea.Msg {
		err := v.proposalService.Reject(context.Background(), proposalID, reason)
		return messages.ProposalRejected{ID: proposalID, Err: err}
	}
}

// Update handles messages for the proposals view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.list.SetDimensions(msg.Width, msg.Height-6)
		return v, nil

	case tea.KeyMsg:
		if v.mode == modeReject {
			return v.handleRejectKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ProposalsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.list.SetProposals(msg.Proposals)
			v.err = nil
		}
		return v, nil

	case messages.ProposalDisclosed:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadProposals()

	case messages.ProposalRejected:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadProposals()
	}

	return v, nil
}

// handleKeyMsg handles key presses in browse mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd

	case "d":
		if proposal := v.list.SelectedProposal(); proposal != nil {
			return v, v.disclose(proposal.ID)
		}

	case "x":
		if v.list.SelectedProposal() != nil {
			v.mode = modeReject
			v.reasonIdx = 0
		}

	case "r":
		v.loading = true
		return v, v.loadProposals()
	}

	return v, nil
}

// handleRejectKey handles key presses in the rejection reason picker.
func (v *View) handleRejectKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = modeBrowse

	case "up", "k":
		if v.reasonIdx > 0 {
			v.reasonIdx--
		}

	case "down", "j":
		if v.reasonIdx < len(v.reasons)-1 {
			v.reasonIdx++
		}

	case "enter":
		v.mode = modeBrowse
		if proposal := v.list.SelectedProposal(); proposal != nil {
			return v, v.reject(proposal.ID, v.reasons[v.reasonIdx])
		}
	}

	return v, nil
}

// View renders the proposals view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Proposals"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading proposals..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if v.mode == modeReject {
		b.WriteString(v.renderReasonPicker())
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderHelp())

	return b.String()
}

// renderReasonPicker renders the rejection reason selection.
func (v *View) renderReasonPicker() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Reject with reason:"))
	b.WriteString("\n")

	for i, reason := range v.reasons {
		indicator := "  "
		style := v.styles.Normal
		if i == v.reasonIdx {
			indicator = "> "
			style = v.styles.Selected
		}
		b.WriteString(indicator + style.Render(string(reason)))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("[enter] confirm  [esc] cancel"))
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.mode == modeReject {
		return v.styles.Help.Render("[j/k] reason  [enter] confirm  [esc] cancel")
	}
	return v.styles.Help.Render("[d] disclose  [x] reject  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
}

// Proposals returns the current pending proposals.
func (v *View) Proposals() []domain.Proposal {
	return v.list.Proposals()
}

// SelectedIndex returns the currently selected proposal index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Rejecting returns whether the rejection reason picker is active.
func (v *View) Rejecting() bool {
	return v.mode == modeReject
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
