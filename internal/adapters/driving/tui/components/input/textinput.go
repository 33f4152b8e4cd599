// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
)

// CandidateInput wraps a bubbles textinput for entering candidate references.
type CandidateInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewCandidateInput creates a new candidate input component.
func NewCandidateInput(s *styles.Styles) *CandidateInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Enter candidate reference..."
	ti.CharLimit = 128
	ti.Width = 40

	return &CandidateInput{
		textinput: ti,
		styles:    s,
		width:     40,
	}
}

// Init initialises the candidate input.
func (c *CandidateInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *CandidateInput) Update(msg tea.Msg) (*CandidateInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the candidate input.
func (c *CandidateInput) View() string {
	label := c.styles.Title.Render("Candidate: ")
	field := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (c *CandidateInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *CandidateInput) SetValue(value string) {
	c.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (c *CandidateInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *CandidateInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *CandidateInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *CandidateInput) SetWidth(width int) {
	c.width = width
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *CandidateInput) Width() int {
	return c.width
}

// Reset clears the input.
func (c *CandidateInput) Reset() {
	c.textinput.Reset()
}
