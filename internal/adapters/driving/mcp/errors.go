// Package mcp provides an MCP (Model Context Protocol) server adapter for Hira.
// It enables AI assistants like Claude to work the pipeline board and the
// blind-review proposal queue.
package mcp

import "errors"

// ErrMissingBoardService is returned when the board service is not provided.
var ErrMissingBoardService = errors.New("mcp: board service is required")

// ErrMissingProposalService is returned when the proposal service is not provided.
var ErrMissingProposalService = errors.New("mcp: proposal service is required")
