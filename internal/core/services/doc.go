// Package services implements the core business logic behind the
// driving ports: the stage registry, the pipeline board, the proposal
// queue, the disclosure bridge, and the audit recorder.
//
// Services depend only on domain types and driven ports; adapters wire
// in concrete stores and collaborators.
package services
