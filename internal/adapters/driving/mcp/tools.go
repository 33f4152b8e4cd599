package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// ItemOutput is the wire representation of a pipeline item.
type ItemOutput struct {
	ID           string `json:"id"`
	CandidateRef string `json:"candidate_ref,omitempty"`
	JobRef       string `json:"job_ref,omitempty"`
	Stage        string `json:"stage"`
	Position     int    `json:"position"`
	Version      int64  `json:"version"`
	Memo         string `json:"memo,omitempty"`
}

// ListBoardInput is the input schema for the list_board tool.
type ListBoardInput struct {
	Stage string `json:"stage,omitempty" jsonschema:"limit the listing to one stage"`
}

// ListBoardOutput is the output schema for the list_board tool.
type ListBoardOutput struct {
	Stages []StageOutput `json:"stages"`
}

// StageOutput is one board column.
type StageOutput struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Items []ItemOutput `json:"items"`
}

// MoveItemInput is the input schema for the move_item tool.
type MoveItemInput struct {
	ItemID       string `json:"item_id" jsonschema:"the pipeline item to move"`
	Stage        string `json:"stage" jsonschema:"the target stage"`
	BeforeItemID string `json:"before_item_id,omitempty" jsonschema:"insert before this item; omit to append"`
}

// MoveItemOutput is the output schema for the move_item tool.
type MoveItemOutput struct {
	Item ItemOutput `json:"item"`
}

// SubmitProposalInput is the input schema for the submit_proposal tool.
type SubmitProposalInput struct {
	SourceRef         string   `json:"source_ref" jsonschema:"the referring agent or system"`
	JobRef            string   `json:"job_ref,omitempty" jsonschema:"the job the candidate is proposed for"`
	AgeBracket        string   `json:"age_bracket,omitempty" jsonschema:"coarse age bracket such as 30-34"`
	ExperienceSummary string   `json:"experience_summary,omitempty" jsonschema:"sketch of the candidate's background"`
	Skills            []string `json:"skills,omitempty" jsonschema:"claimed skills"`
	Note              string   `json:"note,omitempty" jsonschema:"free-text note about the candidate"`
	Expectation       string   `json:"expectation,omitempty" jsonschema:"compensation expectation"`
}

// SubmitProposalOutput is the output schema for the submit_proposal tool.
type SubmitProposalOutput struct {
	ProposalID string `json:"proposal_id"`
}

// ListProposalsOutput is the output schema for the list_proposals tool.
type ListProposalsOutput struct {
	Proposals []ProposalOutput `json:"proposals"`
	Count     int              `json:"count"`
}

// ProposalOutput is the wire representation of a masked proposal.
type ProposalOutput struct {
	ID                string   `json:"id"`
	SourceRef         string   `json:"source_ref"`
	JobRef            string   `json:"job_ref,omitempty"`
	AgeBracket        string   `json:"age_bracket,omitempty"`
	ExperienceSummary string   `json:"experience_summary,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	Note              string   `json:"note,omitempty"`
	Expectation       string   `json:"expectation,omitempty"`
	ReceivedAt        string   `json:"received_at"`
}

// RejectProposalInput is the input schema for the reject_proposal tool.
type RejectProposalInput struct {
	ProposalID string `json:"proposal_id" jsonschema:"the proposal to reject"`
	Reason     string `json:"reason" jsonschema:"one of: skill_mismatch, experience_level, compensation_band, location, position_filled, other"`
}

// RejectProposalOutput is the output schema for the reject_proposal tool.
type RejectProposalOutput struct {
	ProposalID string `json:"proposal_id"`
	Reason     string `json:"reason"`
}

// DiscloseProposalInput is the input schema for the disclose_proposal tool.
type DiscloseProposalInput struct {
	ProposalID   string `json:"proposal_id" jsonschema:"the proposal to disclose"`
	Stage        string `json:"stage" jsonschema:"the stage to place the revealed candidate in"`
	BeforeItemID string `json:"before_item_id,omitempty" jsonschema:"insert before this item; omit to append"`
}

// DiscloseProposalOutput is the output schema for the disclose_proposal tool.
type DiscloseProposalOutput struct {
	Item ItemOutput `json:"item"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_board",
		Description: "List the pipeline board: stages in order with their items",
	}, s.handleListBoard)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "move_item",
		Description: "Move a pipeline item to a stage, or reorder it within its stage",
	}, s.handleMoveItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_proposal",
		Description: "Submit a masked candidate referral to the blind-review queue",
	}, s.handleSubmitProposal)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_proposals",
		Description: "List pending masked proposals, oldest first",
	}, s.handleListProposals)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reject_proposal",
		Description: "Reject a pending proposal with an enumerated reason",
	}, s.handleRejectProposal)

	if s.ports.Disclosure != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "disclose_proposal",
			Description: "Accept a proposal, reveal the candidate's identity, and place them on the board",
		}, s.handleDiscloseProposal)
	}
}

func itemOutput(item *domain.PipelineItem) ItemOutput {
	out := ItemOutput{
		ID:           item.ID,
		CandidateRef: item.CandidateRef,
		JobRef:       item.JobRef,
		Stage:        string(item.Stage),
		Position:     item.Position,
		Version:      item.Version,
	}
	if raw, ok := item.Annotations[domain.AnnotationAgentMemo]; ok {
		switch memo := raw.(type) {
		case domain.AgentMemo:
			out.Memo = memo.Note
		case map[string]any:
			out.Memo, _ = memo["note"].(string)
		}
	}
	return out
}

// handleListBoard handles the list_board tool invocation.
func (s *Server) handleListBoard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListBoardInput,
) (*mcp.CallToolResult, ListBoardOutput, error) {
	if input.Stage != "" {
		items, err := s.ports.Board.ListByStage(ctx, domain.Stage(input.Stage))
		if err != nil {
			return nil, ListBoardOutput{}, err
		}
		col := StageOutput{ID: input.Stage, Name: input.Stage, Items: make([]ItemOutput, len(items))}
		for i := range items {
			col.Items[i] = itemOutput(&items[i])
		}
		return nil, ListBoardOutput{Stages: []StageOutput{col}}, nil
	}

	columns, err := s.ports.Board.Board(ctx)
	if err != nil {
		return nil, ListBoardOutput{}, err
	}

	output := ListBoardOutput{Stages: make([]StageOutput, len(columns))}
	for i, column := range columns {
		col := StageOutput{
			ID:    string(column.Stage.ID),
			Name:  column.Stage.Name,
			Items: make([]ItemOutput, len(column.Items)),
		}
		for j := range column.Items {
			col.Items[j] = itemOutput(&column.Items[j])
		}
		output.Stages[i] = col
	}
	return nil, output, nil
}

// handleMoveItem handles the move_item tool invocation. The current
// version is read first, so a concurrent move surfaces as a version
// mismatch the assistant can retry.
func (s *Server) handleMoveItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MoveItemInput,
) (*mcp.CallToolResult, MoveItemOutput, error) {
	item, err := s.ports.Board.GetItem(ctx, input.ItemID)
	if err != nil {
		return nil, MoveItemOutput{}, err
	}

	moved, err := s.ports.Board.MoveItem(ctx, input.ItemID, domain.Stage(input.Stage), input.BeforeItemID, item.Version)
	if err != nil {
		return nil, MoveItemOutput{}, err
	}

	return nil, MoveItemOutput{Item: itemOutput(moved)}, nil
}

// handleSubmitProposal handles the submit_proposal tool invocation.
func (s *Server) handleSubmitProposal(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitProposalInput,
) (*mcp.CallToolResult, SubmitProposalOutput, error) {
	if input.SourceRef == "" {
		return nil, SubmitProposalOutput{}, fmt.Errorf("%w: source_ref is required", domain.ErrInvalidInput)
	}

	id, err := s.ports.Proposals.Submit(ctx, domain.Proposal{
		SourceRef: input.SourceRef,
		JobRef:    input.JobRef,
		Profile: domain.MaskedProfile{
			AgeBracket:        input.AgeBracket,
			ExperienceSummary: input.ExperienceSummary,
			Skills:            input.Skills,
			Note:              input.Note,
		},
		Expectation: input.Expectation,
	})
	if err != nil {
		return nil, SubmitProposalOutput{}, err
	}

	return nil, SubmitProposalOutput{ProposalID: id}, nil
}

// handleListProposals handles the list_proposals tool invocation.
func (s *Server) handleListProposals(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListProposalsOutput, error) {
	pending, err := s.ports.Proposals.ListPending(ctx)
	if err != nil {
		return nil, ListProposalsOutput{}, err
	}

	output := ListProposalsOutput{
		Proposals: make([]ProposalOutput, len(pending)),
		Count:     len(pending),
	}
	for i := range pending {
		p := &pending[i]
		output.Proposals[i] = ProposalOutput{
			ID:                p.ID,
			SourceRef:         p.SourceRef,
			JobRef:            p.JobRef,
			AgeBracket:        p.Profile.AgeBracket,
			ExperienceSummary: p.Profile.ExperienceSummary,
			Skills:            p.Profile.Skills,
			Note:              p.Profile.Note,
			Expectation:       p.Expectation,
			ReceivedAt:        p.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return nil, output, nil
}

// handleRejectProposal handles the reject_proposal tool invocation.
func (s *Server) handleRejectProposal(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RejectProposalInput,
) (*mcp.CallToolResult, RejectProposalOutput, error) {
	reason := domain.RejectionReason(input.Reason)
	if err := s.ports.Proposals.Reject(ctx, input.ProposalID, reason); err != nil {
		return nil, RejectProposalOutput{}, err
	}
	return nil, RejectProposalOutput{ProposalID: input.ProposalID, Reason: input.Reason}, nil
}

// handleDiscloseProposal handles the disclose_proposal tool invocation.
func (s *Server) handleDiscloseProposal(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiscloseProposalInput,
) (*mcp.CallToolResult, DiscloseProposalOutput, error) {
	if s.ports.Disclosure == nil {
		return nil, DiscloseProposalOutput{}, errors.New("disclosure service not configured")
	}

	item, err := s.ports.Disclosure.Disclose(ctx, input.ProposalID, domain.Placement{
		Stage:        domain.Stage(input.Stage),
		BeforeItemID: input.BeforeItemID,
	})
	if err != nil {
		return nil, DiscloseProposalOutput{}, err
	}

	return nil, DiscloseProposalOutput{Item: itemOutput(item)}, nil
}
