package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hira-cli/internal/logger"
)

// Ensure DisclosureService implements the interface.
var _ driving.DisclosureService = (*DisclosureService)(nil)

// DisclosureService is the bridge between the proposal queue and the
// pipeline board. It accepts a proposal, resolves the candidate's real
// identity, and mints the pipeline item — as one logical transaction.
type DisclosureService struct {
	proposals driving.ProposalService
	board     driving.BoardService
	remover   driving.ItemRemover
	resolver  driven.IdentityResolver

	// mu serializes disclosures so the accept/resolve/place sequence
	// appears atomic to observers.
	mu sync.Mutex
}

// NewDisclosureService creates a disclosure service. The remover is
// the board service again, as the narrow compensating-action surface.
func NewDisclosureService(
	proposals driving.ProposalService,
	board driving.BoardService,
	remover driving.ItemRemover,
	resolver driven.IdentityResolver,
) *DisclosureService {
	return &DisclosureService{
		proposals: proposals,
		board:     board,
		remover:   remover,
		resolver:  resolver,
	}
}

// Disclose converts a proposal into a pipeline item.
//
// A proposal that was accepted earlier but never produced an item
// (identity resolution failed, or the process was cancelled between
// acceptance and placement) is resumed rather than refused: recruiter
// intent was already confirmed, so it must never regress to pending.
func (s *DisclosureService) Disclose(ctx context.Context, proposalID string, placement domain.Placement) (*domain.PipelineItem, error) {
	if s.proposals == nil || s.board == nil {
		return nil, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prop domain.Proposal
	accepted, err := s.proposals.Accept(ctx, proposalID)
	switch {
	case err == nil:
		prop = accepted.Proposal
	case errors.Is(err, domain.ErrInvalidState):
		resumed, resumeErr := s.resumable(ctx, proposalID)
		if resumeErr != nil {
			return nil, err
		}
		prop = *resumed
	default:
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		// Cancelled before identity resolution: the proposal stays
		// accepted-but-undisclosed and can be resumed later.
		return nil, err
	}

	candidateRef, err := s.resolveIdentity(ctx, prop.Profile)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item := domain.PipelineItem{
		ID:              uuid.New().String(),
		CandidateRef:    candidateRef,
		JobRef:          prop.JobRef,
		OrganizationRef: prop.OrganizationRef,
		Annotations: map[string]any{
			domain.AnnotationAgentMemo: domain.AgentMemo{
				Note:   prop.Profile.Note,
				Source: prop.SourceRef,
			},
		},
	}

	itemID, err := s.board.AddItem(ctx, item, placement.Stage, placement.BeforeItemID)
	if errors.Is(err, domain.ErrDuplicateID) {
		item.ID = uuid.New().String()
		itemID, err = s.board.AddItem(ctx, item, placement.Stage, placement.BeforeItemID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: placing pipeline item: %v", domain.ErrDisclosureFailed, err)
	}

	if err := s.proposals.MarkDisclosed(ctx, prop.ID, itemID); err != nil {
		// The item exists and disclosure succeeded; only the resume
		// bookkeeping is stale. Surface it in the verbose log.
		logger.Warn("disclosure: linking proposal %s to item %s: %v", prop.ID, itemID, err)
	}

	return s.board.GetItem(ctx, itemID)
}

// Undo removes the pipeline item minted for a disclosed proposal and
// clears the disclosure link. The proposal stays accepted; disclosure
// can run again with a new placement.
func (s *DisclosureService) Undo(ctx context.Context, proposalID string) error {
	if s.proposals == nil || s.remover == nil {
		return domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prop, err := s.proposals.Get(ctx, proposalID)
	if err != nil {
		return err
	}
	if prop.DisclosedItemID == "" {
		return fmt.Errorf("%w: proposal %s has no disclosed item", domain.ErrInvalidState, proposalID)
	}

	if err := s.remover.RemoveItem(ctx, prop.DisclosedItemID); err != nil {
		return err
	}
	return s.proposals.MarkDisclosed(ctx, proposalID, "")
}

// resumable returns the proposal if it is accepted with no disclosed
// item yet; any other state is not resumable.
func (s *DisclosureService) resumable(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	prop, err := s.proposals.Get(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if prop.Status != domain.ProposalAccepted || prop.DisclosedItemID != "" {
		return nil, fmt.Errorf("%w: proposal %s is %s", domain.ErrInvalidState, proposalID, prop.Status)
	}
	return prop, nil
}

func (s *DisclosureService) resolveIdentity(ctx context.Context, profile domain.MaskedProfile) (string, error) {
	if s.resolver == nil {
		return "", fmt.Errorf("%w: no identity resolver configured", domain.ErrIdentityResolution)
	}

	ref, err := s.resolver.Resolve(ctx, profile)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if errors.Is(err, domain.ErrIdentityResolution) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrIdentityResolution, err)
	}
	if ref == "" {
		return "", fmt.Errorf("%w: resolver returned empty candidate ref", domain.ErrIdentityResolution)
	}
	return ref, nil
}
