package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

var (
	auditAfterSeq int64
	auditLimit    int
	auditJSON     bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit log",
	Long: `Show the append-only audit log of stage transitions and rejections.

Entries carry a monotonic sequence number; use --after to continue from
where a previous read left off.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().Int64Var(&auditAfterSeq, "after", 0, "only entries after this sequence number")
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 50, "maximum number of entries (0 = all)")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	if auditReader == nil {
		return errors.New("audit reader not configured")
	}

	entries, err := auditReader.List(context.Background(), auditAfterSeq, auditLimit)
	if err != nil {
		return fmt.Errorf("listing audit entries: %w", err)
	}

	if auditJSON {
		return outputJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No audit entries.")
		return nil
	}

	for _, entry := range entries {
		cmd.Printf("[%d] %s  %s\n", entry.Seq, entry.RecordedAt.Format(time.RFC3339), formatAuditEntry(entry))
	}
	return nil
}

func formatAuditEntry(entry domain.AuditEntry) string {
	switch entry.Kind {
	case domain.AuditStageTransition:
		return fmt.Sprintf("moved %s: %s -> %s",
			entry.Payload.ItemID, entry.Payload.FromStage, entry.Payload.ToStage)
	case domain.AuditRejection:
		return fmt.Sprintf("rejected %s (%s)", entry.Payload.ProposalID, entry.Payload.Reason)
	default:
		return string(entry.Kind)
	}
}
