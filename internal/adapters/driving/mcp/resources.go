package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Hira resources.
	uriScheme = "hira://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the stage catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stages",
		Name:        "stages",
		Description: "The board's stages in display order",
		MIMEType:    "application/json",
	}, s.handleStagesResource)

	// Static resource for the audit log.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "audit",
		Name:        "audit",
		Description: "The append-only audit log of stage transitions and rejections",
		MIMEType:    "application/json",
	}, s.handleAuditResource)

	// Template for stage items.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "stages/{stageId}/items",
		Name:        "stage-items",
		Description: "Pipeline items in a specific stage, in board order",
		MIMEType:    "application/json",
	}, s.handleStageItemsResource)
}

// handleStagesResource returns the stage catalog.
func (s *Server) handleStagesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type stageInfo struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		Rank          int      `json:"rank"`
		TransitionsTo []string `json:"transitions_to,omitempty"`
	}

	stages := s.ports.Board.Stages()
	infos := make([]stageInfo, len(stages))
	for i, def := range stages {
		targets := make([]string, len(def.TransitionsTo))
		for j, target := range def.TransitionsTo {
			targets[j] = string(target)
		}
		infos[i] = stageInfo{
			ID:            string(def.ID),
			Name:          def.Name,
			Rank:          def.Rank,
			TransitionsTo: targets,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleAuditResource returns recent audit entries.
func (s *Server) handleAuditResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Audit == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.Audit.List(ctx, 0, 200)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}

	type entryInfo struct {
		Seq        int64  `json:"seq"`
		Kind       string `json:"kind"`
		ItemID     string `json:"item_id,omitempty"`
		ProposalID string `json:"proposal_id,omitempty"`
		FromStage  string `json:"from_stage,omitempty"`
		ToStage    string `json:"to_stage,omitempty"`
		Reason     string `json:"reason,omitempty"`
		RecordedAt string `json:"recorded_at"`
	}

	infos := make([]entryInfo, len(entries))
	for i, entry := range entries {
		infos[i] = entryInfo{
			Seq:        entry.Seq,
			Kind:       string(entry.Kind),
			ItemID:     entry.Payload.ItemID,
			ProposalID: entry.Payload.ProposalID,
			FromStage:  string(entry.Payload.FromStage),
			ToStage:    string(entry.Payload.ToStage),
			Reason:     string(entry.Payload.Reason),
			RecordedAt: entry.RecordedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling audit entries: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleStageItemsResource returns the items of a specific stage.
func (s *Server) handleStageItemsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract stageId from URI: hira://stages/{stageId}/items
	stageID := extractStageID(req.Params.URI)
	if stageID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	items, err := s.ports.Board.ListByStage(ctx, domain.Stage(stageID))
	if err != nil {
		return nil, fmt.Errorf("listing stage items: %w", err)
	}

	infos := make([]ItemOutput, len(items))
	for i := range items {
		infos[i] = itemOutput(&items[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling items: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractStageID extracts the stage ID from a URI like hira://stages/{stageId}/items.
func extractStageID(uri string) string {
	const prefix = uriScheme + "stages/"
	const suffix = "/items"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
