package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

// Ensure ProposalService implements the interface.
var _ driving.ProposalService = (*ProposalService)(nil)

// ProposalService manages the masked referral queue: intake, the
// accept/reject lifecycle, and the rejection record archive.
type ProposalService struct {
	store driven.ProposalStore
	audit *AuditRecorder
}

// NewProposalService creates a proposal service. The audit recorder
// may be nil, in which case rejections are not audited.
func NewProposalService(store driven.ProposalStore, audit *AuditRecorder) *ProposalService {
	return &ProposalService{
		store: store,
		audit: audit,
	}
}

// Submit enqueues a proposal. Status is forced to pending regardless
// of what the caller supplied; an empty ID is filled with a fresh UUID.
func (s *ProposalService) Submit(ctx context.Context, proposal domain.Proposal) (string, error) {
	if s.store == nil {
		return "", domain.ErrNotImplemented
	}

	if proposal.ID == "" {
		proposal.ID = uuid.New().String()
	}
	proposal.Status = domain.ProposalPending
	proposal.ResolvedAt = time.Time{}
	proposal.DisclosedItemID = ""
	if proposal.ReceivedAt.IsZero() {
		proposal.ReceivedAt = time.Now().UTC()
	}

	if err := s.store.Insert(ctx, proposal); err != nil {
		return "", err
	}
	return proposal.ID, nil
}

// Get retrieves a proposal by ID.
func (s *ProposalService) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}

// Accept resolves a pending proposal to accepted and mints the opaque
// disclosure capability token. Fails with domain.ErrInvalidState when
// the proposal has already left pending.
func (s *ProposalService) Accept(ctx context.Context, id string) (*domain.AcceptedProposal, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	resolved, err := s.store.Resolve(ctx, id, domain.ProposalAccepted, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &domain.AcceptedProposal{
		Proposal:        *resolved,
		DisclosureToken: uuid.New().String(),
	}, nil
}

// Reject resolves a pending proposal to rejected and appends a
// rejection record. The reason must be one of the enumerated set.
func (s *ProposalService) Reject(ctx context.Context, id string, reason domain.RejectionReason) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if !reason.Valid() {
		return fmt.Errorf("%w: unknown rejection reason %q", domain.ErrInvalidInput, reason)
	}

	now := time.Now().UTC()
	if _, err := s.store.Resolve(ctx, id, domain.ProposalRejected, now); err != nil {
		return err
	}

	record := domain.RejectionRecord{
		ProposalID: id,
		Reason:     reason,
		RecordedAt: now,
	}
	if err := s.store.AddRejection(ctx, record); err != nil {
		return fmt.Errorf("recording rejection: %w", err)
	}

	if s.audit != nil {
		s.audit.Record(ctx, domain.AuditRejection, domain.AuditPayload{
			ProposalID: id,
			Reason:     reason,
		})
	}

	return nil
}

// ListPending returns pending proposals, earliest received first.
func (s *ProposalService) ListPending(ctx context.Context) ([]domain.Proposal, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListPending(ctx)
}

// MarkDisclosed links an accepted proposal to its minted pipeline
// item. An empty itemID clears the link (disclosure undo).
func (s *ProposalService) MarkDisclosed(ctx context.Context, id, itemID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.MarkDisclosed(ctx, id, itemID)
}
