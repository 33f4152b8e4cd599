package driving

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// AuditReader exposes the audit log as a restartable sequence for
// analytics collaborators. Reads never consume entries.
type AuditReader interface {
	// List returns up to limit entries with Seq greater than afterSeq.
	List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error)
}
