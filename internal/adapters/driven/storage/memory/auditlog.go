package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
)

// Ensure AuditLog implements the interface.
var _ driven.AuditStore = (*AuditLog)(nil)

// AuditLog is an in-memory implementation of driven.AuditStore.
// Entries are held in append order and never mutated.
type AuditLog struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
	nextSeq int64
}

// NewAuditLog creates a new in-memory audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{nextSeq: 1}
}

// Append adds an entry and returns its assigned sequence number.
func (l *AuditLog) Append(_ context.Context, entry domain.AuditEntry) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Seq = l.nextSeq
	l.nextSeq++
	l.entries = append(l.entries, entry)
	return entry.Seq, nil
}

// List returns up to limit entries with Seq greater than afterSeq.
// A non-positive limit returns all remaining entries.
func (l *AuditLog) List(_ context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []domain.AuditEntry //nolint:prealloc // matching window unknown
	for _, entry := range l.entries {
		if entry.Seq <= afterSeq {
			continue
		}
		result = append(result, entry)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
