package domain

import "time"

// AuditKind classifies an audit log entry.
type AuditKind string

const (
	// AuditStageTransition records a pipeline item changing stage or
	// position.
	AuditStageTransition AuditKind = "stage_transition"
	// AuditRejection records a proposal rejection with its reason.
	AuditRejection AuditKind = "rejection"
)

// AuditPayload carries the entry details. Fields not relevant to the
// entry's kind are left zero.
type AuditPayload struct {
	// ItemID is the pipeline item that moved (stage transitions).
	ItemID string `json:"item_id,omitempty"`

	// ProposalID is the rejected proposal (rejections).
	ProposalID string `json:"proposal_id,omitempty"`

	// FromStage is the stage the item left.
	FromStage Stage `json:"from_stage,omitempty"`

	// ToStage is the stage the item entered.
	ToStage Stage `json:"to_stage,omitempty"`

	// Reason is the rejection reason.
	Reason RejectionReason `json:"reason,omitempty"`
}

// AuditEntry is one record of the append-only audit log. Entries are
// never mutated or reordered; external analytics read them as a
// restartable sequence keyed by Seq.
type AuditEntry struct {
	// Seq is the store-assigned sequence number. Strictly increasing
	// in append order; readers resume from the last Seq they saw.
	Seq int64

	// Kind classifies the entry.
	Kind AuditKind

	// Payload holds the entry details.
	Payload AuditPayload

	// RecordedAt is when the entry was appended.
	RecordedAt time.Time
}
