package driven

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// IdentityResolver resolves the real candidate identity behind a masked
// profile. It is an external collaborator; resolution may be slow and
// must respect context cancellation.
type IdentityResolver interface {
	// Resolve returns the candidate reference for a masked profile.
	// Failures are reported as (or wrap) domain.ErrIdentityResolution.
	Resolve(ctx context.Context, profile domain.MaskedProfile) (string, error)
}
