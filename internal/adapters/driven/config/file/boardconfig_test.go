package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

func TestBoardConfigSource_Load_SeedsDefault(t *testing.T) {
	tmpDir := t.TempDir()
	source, err := NewBoardConfigSource(tmpDir)
	require.NoError(t, err)

	cfg, err := source.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBoardConfig(), cfg)

	// The default board was written out for the user to edit.
	_, err = os.Stat(filepath.Join(tmpDir, "board.toml"))
	assert.NoError(t, err)
}

func TestBoardConfigSource_Load_ExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `allow_any = false

[[stages]]
id = "screening"
name = "Screening"
rank = 1
transitions_to = ["onsite"]

[[stages]]
id = "onsite"
name = "Onsite"
rank = 2
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "board.toml"), []byte(content), 0600))

	source, err := NewBoardConfigSource(tmpDir)
	require.NoError(t, err)

	cfg, err := source.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, cfg.AllowAny)
	require.Len(t, cfg.Stages, 2)
	assert.Equal(t, domain.Stage("screening"), cfg.Stages[0].ID)
	assert.Equal(t, []domain.Stage{"onsite"}, cfg.Stages[0].TransitionsTo)
	assert.Equal(t, 2, cfg.Stages[1].Rank)
}

func TestBoardConfigSource_Load_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "board.toml"), []byte("not [valid toml"), 0600))

	source, err := NewBoardConfigSource(tmpDir)
	require.NoError(t, err)

	_, err = source.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestBoardConfigSource_Watch(t *testing.T) {
	tmpDir := t.TempDir()
	source, err := NewBoardConfigSource(tmpDir)
	require.NoError(t, err)

	// Seed the file so the write below is an update.
	_, err = source.Load(context.Background())
	require.NoError(t, err)

	changes := make(chan domain.BoardConfig, 1)
	stop, err := source.Watch(context.Background(), func(cfg domain.BoardConfig) {
		select {
		case changes <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	content := `allow_any = true

[[stages]]
id = "single"
name = "Single"
rank = 1
`
	require.NoError(t, os.WriteFile(source.Path(), []byte(content), 0600))

	select {
	case cfg := <-changes:
		require.Len(t, cfg.Stages, 1)
		assert.Equal(t, domain.Stage("single"), cfg.Stages[0].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestBoardConfigSource_Watch_StopIsIdempotent(t *testing.T) {
	source, err := NewBoardConfigSource(t.TempDir())
	require.NoError(t, err)

	stop, err := source.Watch(context.Background(), func(domain.BoardConfig) {})
	require.NoError(t, err)

	stop()
	stop()
}
