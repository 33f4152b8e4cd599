// Package domain contains the core business entities for Hira.
// It has no dependencies on other internal packages and defines
// the pipeline, proposal, and audit types along with the sentinel
// errors shared across the core.
package domain
