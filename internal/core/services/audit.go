package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hira-cli/internal/logger"
)

// Ensure AuditRecorder implements the read interface.
var _ driving.AuditReader = (*AuditRecorder)(nil)

// defaultRetryInterval is how often queued entries are retried.
const defaultRetryInterval = 5 * time.Second

// AuditRecorder appends entries to the audit log without ever failing
// the primary operation. When the store is unavailable the entry is
// queued and retried by a background loop, so business state never
// blocks on observability.
type AuditRecorder struct {
	store         driven.AuditStore
	retryInterval time.Duration

	mu      sync.Mutex
	queued  []domain.AuditEntry
	running bool
	stopCh  chan struct{}
}

// NewAuditRecorder creates an audit recorder over the given store.
func NewAuditRecorder(store driven.AuditStore) *AuditRecorder {
	return &AuditRecorder{
		store:         store,
		retryInterval: defaultRetryInterval,
	}
}

// Record appends an audit entry. It never returns an error: a failed
// append is queued for the retry loop and logged.
func (r *AuditRecorder) Record(ctx context.Context, kind domain.AuditKind, payload domain.AuditPayload) {
	entry := domain.AuditEntry{
		Kind:       kind,
		Payload:    payload,
		RecordedAt: time.Now().UTC(),
	}

	if r.store == nil {
		logger.Warn("audit: no store configured, dropping %s entry", kind)
		return
	}

	if _, err := r.store.Append(ctx, entry); err != nil {
		logger.Warn("audit: appending %s entry: %v (queued for retry)", kind, err)
		r.mu.Lock()
		r.queued = append(r.queued, entry)
		r.mu.Unlock()
	}
}

// List exposes the log as a restartable sequence for analytics.
func (r *AuditRecorder) List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error) {
	if r.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return r.store.List(ctx, afterSeq, limit)
}

// Start runs the retry loop. It blocks until Stop is called or the
// context is cancelled.
func (r *AuditRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Stop shuts down the retry loop and attempts a final flush.
func (r *AuditRecorder) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	r.Flush(context.Background())
}

// Flush retries all queued entries once, re-queueing any that still
// fail. Safe to call concurrently with Record.
func (r *AuditRecorder) Flush(ctx context.Context) {
	if r.store == nil {
		return
	}

	r.mu.Lock()
	pending := r.queued
	r.queued = nil
	r.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	var failed []domain.AuditEntry
	for _, entry := range pending {
		if _, err := r.store.Append(ctx, entry); err != nil {
			failed = append(failed, entry)
		}
	}

	if len(failed) > 0 {
		logger.Warn("audit: %d entries still unflushed", len(failed))
		r.mu.Lock()
		r.queued = append(failed, r.queued...)
		r.mu.Unlock()
	}
}

// QueuedEntries returns the number of entries awaiting retry.
func (r *AuditRecorder) QueuedEntries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queued)
}
