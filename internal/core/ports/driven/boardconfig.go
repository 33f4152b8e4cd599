package driven

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// BoardConfigSource loads the board configuration and optionally
// notifies on changes so the stage registry can be rebuilt at runtime.
type BoardConfigSource interface {
	// Load returns the current board configuration.
	Load(ctx context.Context) (domain.BoardConfig, error)

	// Watch invokes onChange with the new configuration whenever the
	// underlying source changes. It returns a stop function. Sources
	// that cannot watch return domain.ErrNotImplemented.
	Watch(ctx context.Context, onChange func(domain.BoardConfig)) (stop func(), err error)
}
