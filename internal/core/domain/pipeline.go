package domain

import "time"

// AnnotationAgentMemo is the annotations key under which disclosure
// seeds the referring agent's memo.
const AnnotationAgentMemo = "agent_memo"

// AgentMemo is the note a referring agent attached to a proposal,
// carried onto the pipeline item at disclosure.
type AgentMemo struct {
	// Note is the agent's free-text note about the candidate.
	Note string `json:"note"`

	// Source identifies the referring agent or system.
	Source string `json:"source"`
}

// PipelineItem represents a candidate under active consideration.
type PipelineItem struct {
	// ID is the unique, immutable identifier.
	ID string

	// CandidateRef references the candidate's real identity.
	// Populated only after disclosure for items minted from proposals.
	CandidateRef string

	// JobRef references the job the candidate is considered for.
	JobRef string

	// OrganizationRef references the hiring organization.
	OrganizationRef string

	// Stage is the current board column. An item belongs to exactly
	// one stage at any instant.
	Stage Stage

	// Position is the rank within the stage's ordered list. Positions
	// are kept dense and gap-free; only relative order matters.
	Position int

	// Version is a monotonic counter incremented on every mutation.
	// It is the optimistic-concurrency guard for MoveItem.
	Version int64

	// LastUpdatedAt is when the item last changed.
	LastUpdatedAt time.Time

	// Annotations holds opaque attached data (interview score, agent
	// memo). The core never interprets the contents.
	Annotations map[string]any
}

// Placement names where a newly disclosed item lands on the board.
type Placement struct {
	// Stage is the target column.
	Stage Stage

	// BeforeItemID inserts the item immediately before this sibling.
	// Empty appends at the end of the stage.
	BeforeItemID string
}
