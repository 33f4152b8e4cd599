package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hira-cli/internal/logger"
)

// Ensure BoardConfigSource implements the interface.
var _ driven.BoardConfigSource = (*BoardConfigSource)(nil)

// BoardConfigSource is a file-based implementation of
// driven.BoardConfigSource using TOML. The board definition lives in
// board.toml within the hira config directory; a missing file is seeded
// with the default board on first load.
type BoardConfigSource struct {
	mu       sync.Mutex
	filePath string
}

// NewBoardConfigSource creates a TOML-based board config source.
// If configDir is empty, defaults to ~/.hira/board.toml.
func NewBoardConfigSource(configDir string) (*BoardConfigSource, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".hira")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &BoardConfigSource{
		filePath: filepath.Join(configDir, "board.toml"),
	}, nil
}

// Load returns the current board configuration. A missing file is
// written out with the default board so users have something to edit.
func (s *BoardConfigSource) Load(_ context.Context) (domain.BoardConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := domain.DefaultBoardConfig()
			return cfg, s.seed(cfg)
		}
		return domain.BoardConfig{}, fmt.Errorf("%w: reading %s: %v", domain.ErrConfiguration, s.filePath, err)
	}

	var cfg domain.BoardConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return domain.BoardConfig{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfiguration, s.filePath, err)
	}
	return cfg, nil
}

// Watch reloads the board configuration whenever board.toml changes and
// hands the result to onChange. A change that fails to parse is logged
// and skipped, so the running registry is never replaced with garbage.
func (s *BoardConfigSource) Watch(ctx context.Context, onChange func(domain.BoardConfig)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory: editors often replace the file on save,
	// which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.filePath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := s.Load(ctx)
				if err != nil {
					logger.Warn("board config: reload skipped: %v", err)
					continue
				}
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("board config: watch error: %v", err)
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}
	return stop, nil
}

// Path returns the board configuration file path.
func (s *BoardConfigSource) Path() string {
	return s.filePath
}

// seed writes the default board definition (caller must hold lock).
func (s *BoardConfigSource) seed(cfg domain.BoardConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling default board: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing default board: %w", err)
	}
	return nil
}
