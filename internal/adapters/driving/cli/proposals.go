package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

var (
	proposalsListJSON     bool
	proposalSubmitSource  string
	proposalSubmitJob     string
	proposalSubmitOrg     string
	proposalSubmitAge     string
	proposalSubmitSummary string
	proposalSubmitSkills  string
	proposalSubmitNote    string
	proposalSubmitExpect  string
	proposalRejectReason  string
	discloseStage         string
	discloseBefore        string
)

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "Manage the blind-review referral queue",
	Long: `Review masked third-party referrals.

Proposals arrive with the candidate's identity withheld. Accept or reject
each one on the masked profile alone; disclosure reveals the identity and
places the candidate on the board.`,
}

var proposalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending proposals, oldest first",
	RunE:  runProposalsList,
}

var proposalsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a masked proposal to the queue",
	Long: `Submit a masked referral on behalf of an agent.

Only masked profile fields are accepted; there is no way to attach the
candidate's identity at submission time.

Example:
  hira proposals submit --source agent-7 --job backend-eng \
    --age-bracket 30-34 --skills go,sql --note "strong referral"`,
	RunE: runProposalsSubmit,
}

var proposalsAcceptCmd = &cobra.Command{
	Use:   "accept [proposal-id]",
	Short: "Accept a pending proposal",
	Args:  cobra.ExactArgs(1),
	RunE:  runProposalsAccept,
}

var proposalsRejectCmd = &cobra.Command{
	Use:   "reject [proposal-id]",
	Short: "Reject a pending proposal with a reason",
	Args:  cobra.ExactArgs(1),
	RunE:  runProposalsReject,
}

var proposalsDiscloseCmd = &cobra.Command{
	Use:   "disclose [proposal-id]",
	Short: "Accept a proposal, reveal the candidate, and place them on the board",
	Long: `Disclose a proposal: accept it (or resume an earlier acceptance whose
disclosure never finished), resolve the candidate's real identity through
the directory, and mint a pipeline item in the target stage.`,
	Args: cobra.ExactArgs(1),
	RunE: runProposalsDisclose,
}

var proposalsUndoCmd = &cobra.Command{
	Use:   "undo [proposal-id]",
	Short: "Remove the pipeline item a disclosure minted",
	Args:  cobra.ExactArgs(1),
	RunE:  runProposalsUndo,
}

func init() {
	proposalsListCmd.Flags().BoolVar(&proposalsListJSON, "json", false, "output proposals as JSON")

	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitSource, "source", "", "referring agent or system")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitJob, "job", "", "job reference")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitOrg, "org", "", "organization reference")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitAge, "age-bracket", "", "coarse age bracket (e.g. 30-34)")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitSummary, "summary", "", "experience summary")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitSkills, "skills", "", "claimed skills (comma-separated)")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitNote, "note", "", "agent's free-text note")
	proposalsSubmitCmd.Flags().StringVar(&proposalSubmitExpect, "expectation", "", "compensation expectation")

	proposalsRejectCmd.Flags().StringVar(&proposalRejectReason, "reason", "",
		"rejection reason ("+reasonList()+")")

	proposalsDiscloseCmd.Flags().StringVar(&discloseStage, "stage", string(domain.StageCandidateIntake), "target stage")
	proposalsDiscloseCmd.Flags().StringVar(&discloseBefore, "before", "", "insert before this item ID")

	proposalsCmd.AddCommand(proposalsListCmd)
	proposalsCmd.AddCommand(proposalsSubmitCmd)
	proposalsCmd.AddCommand(proposalsAcceptCmd)
	proposalsCmd.AddCommand(proposalsRejectCmd)
	proposalsCmd.AddCommand(proposalsDiscloseCmd)
	proposalsCmd.AddCommand(proposalsUndoCmd)
	rootCmd.AddCommand(proposalsCmd)
}

func reasonList() string {
	reasons := domain.RejectionReasons()
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}

func runProposalsList(cmd *cobra.Command, _ []string) error {
	if proposalService == nil {
		return errors.New("proposal service not configured")
	}

	pending, err := proposalService.ListPending(context.Background())
	if err != nil {
		return fmt.Errorf("listing proposals: %w", err)
	}

	if proposalsListJSON {
		return outputJSON(cmd, pending)
	}

	if len(pending) == 0 {
		cmd.Println("No pending proposals.")
		return nil
	}

	cmd.Printf("Pending proposals (%d):\n\n", len(pending))
	for i := range pending {
		p := &pending[i]
		cmd.Printf("  %s\n", p.ID)
		cmd.Printf("    Source: %s\n", p.SourceRef)
		if p.JobRef != "" {
			cmd.Printf("    Job: %s\n", p.JobRef)
		}
		if p.Profile.AgeBracket != "" {
			cmd.Printf("    Age: %s\n", p.Profile.AgeBracket)
		}
		if p.Profile.ExperienceSummary != "" {
			cmd.Printf("    Experience: %s\n", p.Profile.ExperienceSummary)
		}
		if len(p.Profile.Skills) > 0 {
			cmd.Printf("    Skills: %s\n", strings.Join(p.Profile.Skills, ", "))
		}
		if p.Expectation != "" {
			cmd.Printf("    Expectation: %s\n", p.Expectation)
		}
		if p.Profile.Note != "" {
			cmd.Printf("    Note: %s\n", p.Profile.Note)
		}
		cmd.Println()
	}
	return nil
}

func runProposalsSubmit(cmd *cobra.Command, _ []string) error {
	if proposalService == nil {
		return errors.New("proposal service not configured")
	}

	var skills []string
	if proposalSubmitSkills != "" {
		skills = strings.Split(proposalSubmitSkills, ",")
		for i := range skills {
			skills[i] = strings.TrimSpace(skills[i])
		}
	}

	id, err := proposalService.Submit(context.Background(), domain.Proposal{
		SourceRef:       proposalSubmitSource,
		JobRef:          proposalSubmitJob,
		OrganizationRef: proposalSubmitOrg,
		Profile: domain.MaskedProfile{
			AgeBracket:        proposalSubmitAge,
			ExperienceSummary: proposalSubmitSummary,
			Skills:            skills,
			Note:              proposalSubmitNote,
		},
		Expectation: proposalSubmitExpect,
	})
	if err != nil {
		return fmt.Errorf("submitting proposal: %w", err)
	}

	cmd.Printf("Submitted proposal: %s\n", id)
	return nil
}

func runProposalsAccept(cmd *cobra.Command, args []string) error {
	if proposalService == nil {
		return errors.New("proposal service not configured")
	}

	accepted, err := proposalService.Accept(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("accepting proposal: %w", err)
	}

	cmd.Printf("Accepted proposal: %s\n", accepted.Proposal.ID)
	cmd.Printf("Disclosure token: %s\n", accepted.DisclosureToken)
	cmd.Println("Run 'hira proposals disclose' to reveal the candidate and place them on the board.")
	return nil
}

func runProposalsReject(cmd *cobra.Command, args []string) error {
	if proposalService == nil {
		return errors.New("proposal service not configured")
	}
	if proposalRejectReason == "" {
		return fmt.Errorf("--reason is required (one of: %s)", reasonList())
	}

	reason := domain.RejectionReason(proposalRejectReason)
	if err := proposalService.Reject(context.Background(), args[0], reason); err != nil {
		return fmt.Errorf("rejecting proposal: %w", err)
	}

	cmd.Printf("Rejected proposal %s (%s)\n", args[0], reason)
	return nil
}

func runProposalsDisclose(cmd *cobra.Command, args []string) error {
	if disclosureService == nil {
		return errors.New("disclosure service not configured")
	}

	item, err := disclosureService.Disclose(cmd.Context(), args[0], domain.Placement{
		Stage:        domain.Stage(discloseStage),
		BeforeItemID: discloseBefore,
	})
	if err != nil {
		return fmt.Errorf("disclosing proposal: %w", err)
	}

	cmd.Printf("Disclosed %s into %s: %s\n", item.CandidateRef, item.Stage, item.ID)
	return nil
}

func runProposalsUndo(cmd *cobra.Command, args []string) error {
	if disclosureService == nil {
		return errors.New("disclosure service not configured")
	}

	if err := disclosureService.Undo(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("undoing disclosure: %w", err)
	}

	cmd.Printf("Removed disclosed item for proposal %s\n", args[0])
	return nil
}
