package domain

import "time"

// ProposalStatus is the lifecycle state of a proposal.
type ProposalStatus string

const (
	// ProposalPending awaits a recruiter decision.
	ProposalPending ProposalStatus = "pending"
	// ProposalAccepted was approved for disclosure. Terminal.
	ProposalAccepted ProposalStatus = "accepted"
	// ProposalRejected was declined with a reason. Terminal.
	ProposalRejected ProposalStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalRejected
}

// MaskedProfile describes a candidate with identity withheld.
// None of its fields are unique identifiers.
type MaskedProfile struct {
	// AgeBracket is a coarse range such as "30-34".
	AgeBracket string `json:"age_bracket"`

	// ExperienceSummary sketches the candidate's background.
	ExperienceSummary string `json:"experience_summary"`

	// Skills lists claimed skills.
	Skills []string `json:"skills"`

	// Note is the referring agent's free-text note.
	Note string `json:"note"`
}

// Proposal is a masked third-party referral awaiting recruiter decision.
type Proposal struct {
	// ID is the unique identifier.
	ID string

	// SourceRef identifies the referring agent or system.
	SourceRef string

	// JobRef references the job the candidate is proposed for.
	JobRef string

	// OrganizationRef references the hiring organization.
	OrganizationRef string

	// Profile is the masked candidate description.
	Profile MaskedProfile

	// Expectation is the candidate's compensation band or similar.
	Expectation string

	// Status is pending until accepted or rejected, then terminal.
	Status ProposalStatus

	// ReceivedAt is when the proposal entered the queue.
	ReceivedAt time.Time

	// ResolvedAt is when the proposal left pending.
	ResolvedAt time.Time

	// DisclosedItemID links to the pipeline item minted by disclosure.
	// Empty for an accepted proposal whose disclosure has not completed.
	DisclosedItemID string
}

// AcceptedProposal is the read view returned by Accept: the full masked
// profile plus an opaque capability token for the disclosure bridge.
type AcceptedProposal struct {
	Proposal Proposal

	// DisclosureToken is an opaque capability minted at acceptance.
	DisclosureToken string
}

// RejectionReason is a fixed enumerated reason for declining a proposal.
type RejectionReason string

const (
	ReasonSkillMismatch    RejectionReason = "skill_mismatch"
	ReasonExperienceLevel  RejectionReason = "experience_level"
	ReasonCompensationBand RejectionReason = "compensation_band"
	ReasonLocation         RejectionReason = "location"
	ReasonPositionFilled   RejectionReason = "position_filled"
	ReasonOther            RejectionReason = "other"
)

// RejectionReasons returns the full enumerated reason set.
func RejectionReasons() []RejectionReason {
	return []RejectionReason{
		ReasonSkillMismatch,
		ReasonExperienceLevel,
		ReasonCompensationBand,
		ReasonLocation,
		ReasonPositionFilled,
		ReasonOther,
	}
}

// Valid reports whether the reason is one of the enumerated set.
func (r RejectionReason) Valid() bool {
	for _, known := range RejectionReasons() {
		if r == known {
			return true
		}
	}
	return false
}

// RejectionRecord is the append-only record written when a proposal
// is rejected.
type RejectionRecord struct {
	// ProposalID identifies the rejected proposal.
	ProposalID string

	// Reason is the enumerated rejection reason.
	Reason RejectionReason

	// RecordedAt is when the rejection was recorded.
	RecordedAt time.Time
}
