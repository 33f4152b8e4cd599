// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PipelineStore: Durable, ordered storage for pipeline items
//   - ProposalStore: Proposal queue and archive persistence
//   - AuditStore: Append-only audit log persistence
//
// # Optional Interfaces
//
//   - IdentityResolver: Resolves masked profiles to candidate identities
//   - BoardConfigSource: Loads and watches the board configuration
package driven
