// Package cli implements the command-line interface for hira.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hira-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hira-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Services injected by the composition root in cmd/hira.
var (
	boardService      driving.BoardService
	proposalService   driving.ProposalService
	disclosureService driving.DisclosureService
	auditReader       driving.AuditReader
	configStore       driven.ConfigStore
)

// rootCmd is the base command for the hira CLI.
var rootCmd = &cobra.Command{
	Use:   "hira",
	Short: "Recruiting pipeline board with a blind-review referral queue",
	Long: `Hira manages a recruiting pipeline board from the terminal.

Candidates move through configurable stages (intake, outreach, interview,
offer, hired) while masked third-party referrals wait in a blind-review
queue. Accepting a referral and disclosing the candidate's identity mints
a regular pipeline item; every stage transition and rejection lands in an
append-only audit log.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the CLI commands need.
type Services struct {
	Board       driving.BoardService
	Proposals   driving.ProposalService
	Disclosure  driving.DisclosureService
	Audit       driving.AuditReader
	ConfigStore driven.ConfigStore
}

// SetServices injects the service implementations used by the commands.
func SetServices(s Services) {
	boardService = s.Board
	proposalService = s.Proposals
	disclosureService = s.Disclosure
	auditReader = s.Audit
	configStore = s.ConfigStore
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context. Long
// running commands (tui, mcp serve) stop when it is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
