package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	assert.Contains(t, km.Quit.Keys(), "q")
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
	assert.Contains(t, km.Left.Keys(), "h")
	assert.Contains(t, km.Promote.Keys(), "L")
	assert.Contains(t, km.Disclose.Keys(), "d")
	assert.Contains(t, km.Reject.Keys(), "x")
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.False(t, Matches("z", km.Quit))
}

func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.NotEmpty(t, km.BoardHelp())
	assert.NotEmpty(t, km.ProposalsHelp())
	assert.NotEmpty(t, km.FullHelp())
}
