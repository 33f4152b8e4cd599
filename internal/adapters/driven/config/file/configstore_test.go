package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Path(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".hira", "config.toml"), store.Path())

	_ = os.Remove(store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newConfigStore(t)
	require.NoError(t, store.Set("directory.url", "https://directory.example.com"))
	require.NoError(t, store.Set("directory.timeout_seconds", 30))
	require.NoError(t, store.Set("board.compact", true))
	require.NoError(t, store.Set("board.hidden_stages", []string{"hired"}))

	assert.Equal(t, "https://directory.example.com", store.GetString("directory.url"))
	assert.Equal(t, 30, store.GetInt("directory.timeout_seconds"))
	assert.True(t, store.GetBool("board.compact"))
	assert.Equal(t, []string{"hired"}, store.GetStringSlice("board.hidden_stages"))

	// Missing keys yield zero values.
	assert.Empty(t, store.GetString("directory.token"))
	assert.Zero(t, store.GetInt("directory.token"))
	assert.False(t, store.GetBool("directory.token"))
	assert.Nil(t, store.GetStringSlice("directory.token"))

	// So do type mismatches.
	assert.Empty(t, store.GetString("directory.timeout_seconds"))
	assert.Zero(t, store.GetInt("directory.url"))
	assert.False(t, store.GetBool("directory.url"))
	assert.Nil(t, store.GetStringSlice("directory.url"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := newConfigStore(t)

	val, ok := store.Get("directory.token")

	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Set_Overwrites(t *testing.T) {
	store := newConfigStore(t)

	require.NoError(t, store.Set("directory.token", "old-token"))
	require.NoError(t, store.Set("directory.token", "rotated-token"))

	assert.Equal(t, "rotated-token", store.GetString("directory.token"))
}

func TestConfigStore_SetPersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("directory.url", "https://directory.example.com"))
	require.NoError(t, store.Set("directory.timeout_seconds", 30))
	require.NoError(t, store.Set("board.compact", true))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://directory.example.com", reopened.GetString("directory.url"))
	assert.Equal(t, 30, reopened.GetInt("directory.timeout_seconds"))
	assert.True(t, reopened.GetBool("board.compact"))
}

func TestConfigStore_LoadFlattensTables(t *testing.T) {
	tmpDir := t.TempDir()

	// Hand-edited configs use TOML tables; the store reads them through
	// the same dotted keys the CLI writes.
	content := []byte("[directory]\nurl = \"https://directory.example.com\"\ntoken = \"secret\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://directory.example.com", store.GetString("directory.url"))
	assert.Equal(t, "secret", store.GetString("directory.token"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newConfigStore(t)

	require.NoError(t, store.Set("directory.token", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_MissingFileStartsEmpty(t *testing.T) {
	store := newConfigStore(t)

	val, ok := store.Get("directory.url")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNewConfigStore_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# empty\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("directory.url")
	assert.False(t, ok)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Load_CorruptedAfterOpen(t *testing.T) {
	store := newConfigStore(t)
	require.NoError(t, store.Set("directory.url", "https://directory.example.com"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Save_WriteError(t *testing.T) {
	store := newConfigStore(t)
	require.NoError(t, store.Set("directory.url", "https://directory.example.com"))

	// Replace the file with a directory so the next write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("directory.token", "secret"))
}

func TestConfigStore_GetInt_Int64(t *testing.T) {
	store := newConfigStore(t)

	// TOML integers unmarshal as int64.
	store.mu.Lock()
	store.data["directory.timeout_seconds"] = int64(45)
	store.mu.Unlock()

	assert.Equal(t, 45, store.GetInt("directory.timeout_seconds"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := newConfigStore(t)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			key := "worker." + string(rune('a'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
