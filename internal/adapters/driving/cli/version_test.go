package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	oldVersion := version
	SetVersion("1.2.3")
	defer SetVersion(oldVersion)

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "hira version 1.2.3")
}
