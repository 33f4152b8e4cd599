package driven

import (
	"context"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// AuditStore persists the append-only audit log.
type AuditStore interface {
	// Append adds an entry and returns its assigned sequence number.
	// Sequence numbers are strictly increasing in append order.
	Append(ctx context.Context, entry domain.AuditEntry) (int64, error)

	// List returns up to limit entries with Seq greater than afterSeq,
	// in sequence order. Reads are non-destructive; callers resume by
	// passing the last Seq they consumed.
	List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error)
}
