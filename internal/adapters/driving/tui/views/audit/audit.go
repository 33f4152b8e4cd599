// Package audit provides the audit log view for the TUI.
package audit

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// loadLimit caps how many entries one load fetches.
const loadLimit = 200

// View is the audit log view. Entries render oldest first.
type View struct {
	styles      *styles.Styles
	auditReader driving.AuditReader

	entries []domain.AuditEntry
	offset  int

	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new audit view.
func NewView(s *styles.Styles, auditReader driving.AuditReader) *View {
	return &View{
		styles:      s,
		auditReader: auditReader,
	}
}

// Init initialises the view and loads the log.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadEntries()
}

// loadEntries returns a command that loads audit entries.
func (v *View) loadEntries() tea.Cmd {
	return func() tea.Msg {
		if v.auditReader == nil {
			return messages.AuditLoaded{Err: fmt.Errorf("audit log not configured")}
		}
		entries, err := v.auditReader.List(context.Background(), 0, loadLimit)
		return messages.AuditLoaded{Entries: entries, Err: err}
	}
}

// Update handles messages for the audit view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AuditLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.entries = msg.Entries
			v.err = nil
			if v.offset >= len(v.entries) {
				v.offset = 0
			}
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.offset > 0 {
			v.offset--
		}
	case "down", "j":
		if v.offset < len(v.entries)-1 {
			v.offset++
		}
	case "g":
		v.offset = 0
	case "G":
		if len(v.entries) > 0 {
			v.offset = len(v.entries) - 1
		}
	case "r":
		v.loading = true
		return v, v.loadEntries()
	}

	return v, nil
}

// View renders the audit log.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Audit Log"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading audit log..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.entries) == 0 {
		b.WriteString(v.styles.Muted.Render("No audit entries yet."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.height - 6
	if visible < 1 {
		visible = 1
	}
	end := v.offset + visible
	if end > len(v.entries) {
		end = len(v.entries)
	}

	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderEntry(&v.entries[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderEntry formats a single audit entry line.
func (v *View) renderEntry(entry *domain.AuditEntry) string {
	timestamp := v.styles.Muted.Render(entry.RecordedAt.Format("2006-01-02 15:04:05"))

	var detail string
	switch entry.Kind {
	case domain.AuditStageTransition:
		detail = fmt.Sprintf("moved %s: %s -> %s",
			entry.Payload.ItemID, entry.Payload.FromStage, entry.Payload.ToStage)
	case domain.AuditRejection:
		detail = fmt.Sprintf("rejected %s (%s)", entry.Payload.ProposalID, entry.Payload.Reason)
	default:
		detail = string(entry.Kind)
	}

	seq := v.styles.Subtitle.Render(fmt.Sprintf("#%-4d", entry.Seq))
	return fmt.Sprintf("%s %s  %s", seq, timestamp, v.styles.Normal.Render(detail))
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[j/k] scroll  [g/G] top/bottom  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Entries returns the loaded audit entries.
func (v *View) Entries() []domain.AuditEntry {
	return v.entries
}

// Offset returns the current scroll offset.
func (v *View) Offset() int {
	return v.offset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
