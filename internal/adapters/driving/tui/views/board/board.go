// Package board provides the pipeline board view component for the TUI.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// columnWidth is the rendered width of one stage column.
const columnWidth = 28

// View is the pipeline board view. Stages render as columns; items
// move between and within columns via keybindings.
type View struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	boardService driving.BoardService

	columns  []driving.StageColumn
	stageIdx int
	itemIdx  int

	candidateInput *input.CandidateInput
	statusBar      *status.Bar
	adding         bool

	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new board view.
func NewView(s *styles.Styles, boardService driving.BoardService) *View {
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetState(status.StateBoard)

	return &View{
		styles:         s,
		keymap:         km,
		boardService:   boardService,
		candidateInput: input.NewCandidateInput(s),
		statusBar:      bar,
	}
}

// Init initialises the view and loads the board.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadBoard()
}

// loadBoard returns a command that loads the board from the service.
func (v *View) loadBoard() tea.Cmd {
	return func() tea.Msg {
		if v.boardService == nil {
			return messages.BoardLoaded{Err: fmt.Errorf("board service not available")}
		}
		columns, err := v.boardService.Board(context.Background())
		return messages.BoardLoaded{Columns: columns, Err: err}
	}
}

// addItem returns a command that adds a candidate to the selected stage.
func (v *View) addItem(candidateRef string, stage domain.Stage) tea.Cmd {
	return func() tea.Msg {
		id, err := v.boardService.AddItem(context.Background(),
			domain.PipelineItem{CandidateRef: candidateRef}, stage, "")
		return messages.ItemAdded{ID: id, Err: err}
	}
}

// moveItem returns a command that relocates an item.
func (v *View) moveItem(item *domain.PipelineItem, target domain.Stage, beforeItemID string) tea.Cmd {
	return func() tea.Msg {
		moved, err := v.boardService.MoveItem(context.Background(),
			item.ID, target, beforeItemID, item.Version)
		return messages.ItemMoved{Item: moved, Err: err}
	}
}

// Update handles messages for the board view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.statusBar.SetWidth(msg.Width)
		v.candidateInput.SetWidth(msg.Width)
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			return v.handleAddingKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.BoardLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.columns = msg.Columns
		v.err = nil
		v.statusBar.SetState(status.StateBoard)
		v.statusBar.SetItemCount(v.itemCount())
		v.clampSelection()
		return v, nil

	case messages.ItemAdded:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(msg.Err.Error())
			return v, nil
		}
		return v, v.loadBoard()

	case messages.ItemMoved:
		if msg.Err != nil {
			// A stale version means someone else edited the board;
			// refresh rather than surface the conflict.
			if errors.Is(msg.Err, domain.ErrVersionMismatch) {
				v.statusBar.SetMessage("board changed, reloading")
				return v, v.loadBoard()
			}
			v.err = msg.Err
			v.statusBar.SetState(status.StateError)
			v.statusBar.SetMessage(msg.Err.Error())
			return v, nil
		}
		return v, v.loadBoard()
	}

	return v, nil
}

// handleAddingKey handles keys while the candidate input is focused.
func (v *View) handleAddingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.adding = false
		v.candidateInput.Blur()
		v.candidateInput.Reset()
		return v, nil

	case tea.KeyEnter:
		candidateRef := strings.TrimSpace(v.candidateInput.Value())
		v.adding = false
		v.candidateInput.Blur()
		v.candidateInput.Reset()
		if candidateRef == "" || len(v.columns) == 0 {
			return v, nil
		}
		return v, v.addItem(candidateRef, v.columns[v.stageIdx].Stage.ID)

	default:
		var cmd tea.Cmd
		v.candidateInput, cmd = v.candidateInput.Update(msg)
		return v, cmd
	}
}

// handleKeyMsg handles key presses in browse mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Left):
		if v.stageIdx > 0 {
			v.stageIdx--
			v.clampSelection()
		}

	case keymap.Matches(keyStr, v.keymap.Right):
		if v.stageIdx < len(v.columns)-1 {
			v.stageIdx++
			v.clampSelection()
		}

	case keymap.Matches(keyStr, v.keymap.Up):
		if v.itemIdx > 0 {
			v.itemIdx--
		}

	case keymap.Matches(keyStr, v.keymap.Down):
		if v.itemIdx < len(v.currentItems())-1 {
			v.itemIdx++
		}

	case keymap.Matches(keyStr, v.keymap.Add):
		v.adding = true
		return v, v.candidateInput.Focus()

	case keymap.Matches(keyStr, v.keymap.Promote):
		return v.moveSelectedToStage(v.stageIdx + 1)

	case keymap.Matches(keyStr, v.keymap.Demote):
		return v.moveSelectedToStage(v.stageIdx - 1)

	case keyStr == "K":
		return v.reorderSelected(-1)

	case keyStr == "J":
		return v.reorderSelected(1)

	case keymap.Matches(keyStr, v.keymap.Reload):
		v.loading = true
		return v, v.loadBoard()
	}

	return v, nil
}

// moveSelectedToStage moves the selected item to the column at the
// given index, appending at its end.
func (v *View) moveSelectedToStage(targetIdx int) (*View, tea.Cmd) {
	item := v.SelectedItem()
	if item == nil || targetIdx < 0 || targetIdx >= len(v.columns) {
		return v, nil
	}
	return v, v.moveItem(item, v.columns[targetIdx].Stage.ID, "")
}

// reorderSelected moves the selected item up (-1) or down (+1) within
// its stage by re-inserting it before the appropriate sibling.
func (v *View) reorderSelected(direction int) (*View, tea.Cmd) {
	items := v.currentItems()
	item := v.SelectedItem()
	if item == nil {
		return v, nil
	}

	stage := v.columns[v.stageIdx].Stage.ID
	switch direction {
	case -1:
		if v.itemIdx == 0 {
			return v, nil
		}
		return v, v.moveItem(item, stage, items[v.itemIdx-1].ID)
	case 1:
		if v.itemIdx >= len(items)-1 {
			return v, nil
		}
		// Land after the next sibling: insert before the one past it,
		// or append when the next sibling is last.
		beforeID := ""
		if v.itemIdx+2 < len(items) {
			beforeID = items[v.itemIdx+2].ID
		}
		return v, v.moveItem(item, stage, beforeID)
	}
	return v, nil
}

// View renders the board.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Board"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading board..."))
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if len(v.columns) == 0 {
		b.WriteString(v.styles.Muted.Render("No stages configured."))
		return b.String()
	}

	cols := make([]string, len(v.columns))
	for i := range v.columns {
		cols[i] = v.renderColumn(i, &v.columns[i])
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	if v.adding {
		b.WriteString("\n")
		b.WriteString(v.candidateInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderColumn renders a single stage column.
func (v *View) renderColumn(index int, column *driving.StageColumn) string {
	var b strings.Builder

	header := fmt.Sprintf("%s (%d)", column.Stage.Name, len(column.Items))
	if index == v.stageIdx {
		b.WriteString(v.styles.Subtitle.Render(header))
	} else {
		b.WriteString(v.styles.Muted.Render(header))
	}
	b.WriteString("\n")

	for j := range column.Items {
		b.WriteString(v.renderItem(index, j, &column.Items[j]))
		b.WriteString("\n")
	}

	style := v.styles.Border.Width(columnWidth)
	if index == v.stageIdx {
		style = style.BorderForeground(v.styles.Theme().Primary)
	}
	return style.Render(b.String())
}

// renderItem renders a single pipeline item line.
func (v *View) renderItem(stageIdx, itemIdx int, item *domain.PipelineItem) string {
	indicator := "  "
	selected := stageIdx == v.stageIdx && itemIdx == v.itemIdx
	if selected {
		indicator = "> "
	}

	label := item.CandidateRef
	if label == "" {
		label = item.ID
	}
	maxLen := columnWidth - 6
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	if selected {
		return v.styles.Selected.Render(indicator + label)
	}
	return v.styles.Normal.Render(indicator + label)
}

// currentItems returns the items of the selected column.
func (v *View) currentItems() []domain.PipelineItem {
	if v.stageIdx < 0 || v.stageIdx >= len(v.columns) {
		return nil
	}
	return v.columns[v.stageIdx].Items
}

// clampSelection keeps the item cursor inside the selected column.
func (v *View) clampSelection() {
	if v.stageIdx >= len(v.columns) {
		v.stageIdx = 0
	}
	items := v.currentItems()
	if v.itemIdx >= len(items) {
		v.itemIdx = len(items) - 1
	}
	if v.itemIdx < 0 {
		v.itemIdx = 0
	}
}

// itemCount counts all items on the board.
func (v *View) itemCount() int {
	count := 0
	for i := range v.columns {
		count += len(v.columns[i].Items)
	}
	return count
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusBar.SetWidth(width)
}

// Columns returns the loaded board columns.
func (v *View) Columns() []driving.StageColumn {
	return v.columns
}

// SelectedStage returns the index of the selected stage column.
func (v *View) SelectedStage() int {
	return v.stageIdx
}

// SelectedItem returns the currently selected item, or nil if none.
func (v *View) SelectedItem() *domain.PipelineItem {
	items := v.currentItems()
	if len(items) == 0 || v.itemIdx < 0 || v.itemIdx >= len(items) {
		return nil
	}
	return &items[v.itemIdx]
}

// Adding returns whether the candidate input is active.
func (v *View) Adding() bool {
	return v.adding
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
