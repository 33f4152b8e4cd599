package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/tui/styles"
)

func TestBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_ErrorState(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
	bar.SetState(StateError)
	bar.SetMessage("store unavailable")

	assert.Contains(t, bar.View(), "Error: store unavailable")
}

func TestBar_BoardStateShowsItemCount(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
	bar.SetState(StateBoard)
	bar.SetItemCount(7)
	bar.SetWidth(120)

	rendered := bar.View()
	assert.Contains(t, rendered, "7 items")
	assert.Contains(t, rendered, "prev stage")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetItemCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ItemCount())
}
