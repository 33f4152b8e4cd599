package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
)

// Ensure ProposalStore implements the interface.
var _ driven.ProposalStore = (*ProposalStore)(nil)

// ProposalStore is an in-memory implementation of driven.ProposalStore.
type ProposalStore struct {
	mu         sync.RWMutex
	proposals  map[string]domain.Proposal
	rejections []domain.RejectionRecord
}

// NewProposalStore creates a new in-memory proposal store.
func NewProposalStore() *ProposalStore {
	return &ProposalStore{
		proposals: make(map[string]domain.Proposal),
	}
}

// Insert adds a new proposal.
func (s *ProposalStore) Insert(_ context.Context, proposal domain.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.proposals[proposal.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, proposal.ID)
	}
	s.proposals[proposal.ID] = proposal
	return nil
}

// Get retrieves a proposal by ID.
func (s *ProposalStore) Get(_ context.Context, id string) (*domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	proposal, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%w: proposal %s", domain.ErrNotFound, id)
	}
	return &proposal, nil
}

// ListPending returns pending proposals, earliest received first.
func (s *ProposalStore) ListPending(_ context.Context) ([]domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Proposal //nolint:prealloc // pending count unknown
	for _, proposal := range s.proposals {
		if proposal.Status == domain.ProposalPending {
			result = append(result, proposal)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReceivedAt.Before(result[j].ReceivedAt)
	})
	return result, nil
}

// Resolve moves a proposal out of pending in one atomic step.
func (s *ProposalStore) Resolve(_ context.Context, id string, status domain.ProposalStatus, resolvedAt time.Time) (*domain.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%w: proposal %s", domain.ErrNotFound, id)
	}
	if proposal.Status != domain.ProposalPending {
		return nil, fmt.Errorf("%w: proposal %s is already %s", domain.ErrInvalidState, id, proposal.Status)
	}

	proposal.Status = status
	proposal.ResolvedAt = resolvedAt
	s.proposals[id] = proposal
	return &proposal, nil
}

// MarkDisclosed links an accepted proposal to its pipeline item. Only
// accepted proposals carry the link; anything else is rejected here so
// a pending or rejected proposal can never claim an item.
func (s *ProposalStore) MarkDisclosed(_ context.Context, id, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[id]
	if !ok {
		return fmt.Errorf("%w: proposal %s", domain.ErrNotFound, id)
	}
	if proposal.Status != domain.ProposalAccepted {
		return fmt.Errorf("%w: proposal %s is %s, not accepted", domain.ErrInvalidState, id, proposal.Status)
	}
	proposal.DisclosedItemID = itemID
	s.proposals[id] = proposal
	return nil
}

// AddRejection appends a rejection record.
func (s *ProposalStore) AddRejection(_ context.Context, record domain.RejectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = append(s.rejections, record)
	return nil
}

// ListRejections returns all rejection records in append order.
func (s *ProposalStore) ListRejections(_ context.Context) ([]domain.RejectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RejectionRecord, len(s.rejections))
	copy(result, s.rejections)
	return result, nil
}
