package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
)

var (
	boardListJSON   bool
	boardListStage  string
	boardAddJob     string
	boardAddOrg     string
	boardAddBefore  string
	boardMoveBefore string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage the pipeline board",
	Long: `View and modify the recruiting pipeline board.

The board is a set of ordered stages (columns). Each pipeline item tracks
one candidate for one job and sits at exactly one position in exactly one
stage.`,
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the board, stage by stage",
	RunE:  runBoardList,
}

var boardAddCmd = &cobra.Command{
	Use:   "add [candidate-ref] [stage]",
	Short: "Add a candidate to a stage",
	Long: `Add a pipeline item for a candidate directly to a stage.

The item is appended at the bottom of the stage unless --before names an
item already in that stage.`,
	Args: cobra.ExactArgs(2),
	RunE: runBoardAdd,
}

var boardMoveCmd = &cobra.Command{
	Use:   "move [item-id] [stage]",
	Short: "Move an item to a stage",
	Long: `Move a pipeline item to a stage, or reorder it within its current one.

The item is appended at the bottom of the target stage unless --before
names an item already there. If someone else moved the item while you were
looking at the board, the move is retried once against the fresh state.`,
	Args: cobra.ExactArgs(2),
	RunE: runBoardMove,
}

func init() {
	boardListCmd.Flags().BoolVar(&boardListJSON, "json", false, "output the board as JSON")
	boardListCmd.Flags().StringVar(&boardListStage, "stage", "", "show a single stage")
	boardAddCmd.Flags().StringVar(&boardAddJob, "job", "", "job reference")
	boardAddCmd.Flags().StringVar(&boardAddOrg, "org", "", "organization reference")
	boardAddCmd.Flags().StringVar(&boardAddBefore, "before", "", "insert before this item ID")
	boardMoveCmd.Flags().StringVar(&boardMoveBefore, "before", "", "insert before this item ID")

	boardCmd.AddCommand(boardListCmd)
	boardCmd.AddCommand(boardAddCmd)
	boardCmd.AddCommand(boardMoveCmd)
	rootCmd.AddCommand(boardCmd)
}

func runBoardList(cmd *cobra.Command, _ []string) error {
	if boardService == nil {
		return errors.New("board service not configured")
	}

	ctx := context.Background()

	if boardListStage != "" {
		items, err := boardService.ListByStage(ctx, domain.Stage(boardListStage))
		if err != nil {
			return fmt.Errorf("listing stage: %w", err)
		}
		if boardListJSON {
			return outputJSON(cmd, items)
		}
		outputStage(cmd, domain.StageDefinition{ID: domain.Stage(boardListStage), Name: boardListStage}, items)
		return nil
	}

	columns, err := boardService.Board(ctx)
	if err != nil {
		return fmt.Errorf("listing board: %w", err)
	}

	if boardListJSON {
		return outputJSON(cmd, columns)
	}

	for _, col := range columns {
		outputStage(cmd, col.Stage, col.Items)
	}
	return nil
}

func runBoardAdd(cmd *cobra.Command, args []string) error {
	if boardService == nil {
		return errors.New("board service not configured")
	}

	candidateRef, stage := args[0], domain.Stage(args[1])

	item := domain.PipelineItem{
		CandidateRef:    candidateRef,
		JobRef:          boardAddJob,
		OrganizationRef: boardAddOrg,
	}

	id, err := boardService.AddItem(context.Background(), item, stage, boardAddBefore)
	if err != nil {
		return fmt.Errorf("adding item: %w", err)
	}

	cmd.Printf("Added %s to %s: %s\n", candidateRef, stage, id)
	return nil
}

func runBoardMove(cmd *cobra.Command, args []string) error {
	if boardService == nil {
		return errors.New("board service not configured")
	}

	id, stage := args[0], domain.Stage(args[1])
	ctx := context.Background()

	item, err := moveWithRetry(ctx, boardService, id, stage, boardMoveBefore)
	if err != nil {
		return fmt.Errorf("moving item: %w", err)
	}

	cmd.Printf("Moved %s to %s (position %d)\n", item.ID, item.Stage, item.Position)
	return nil
}

// moveWithRetry re-reads and retries once when the item's version
// changed under us between the read and the move.
func moveWithRetry(ctx context.Context, board driving.BoardService, id string, stage domain.Stage, before string) (*domain.PipelineItem, error) {
	for attempt := 0; ; attempt++ {
		current, err := board.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}

		moved, err := board.MoveItem(ctx, id, stage, before, current.Version)
		if err == nil {
			return moved, nil
		}
		if !errors.Is(err, domain.ErrVersionMismatch) || attempt >= 1 {
			return nil, err
		}
	}
}

func outputStage(cmd *cobra.Command, stage domain.StageDefinition, items []domain.PipelineItem) {
	name := stage.Name
	if name == "" {
		name = string(stage.ID)
	}
	cmd.Printf("%s (%d)\n", name, len(items))
	for _, item := range items {
		line := fmt.Sprintf("  [%d] %s", item.Position, item.CandidateRef)
		if item.JobRef != "" {
			line += " / " + item.JobRef
		}
		line += "  " + item.ID
		if memo := agentMemoNote(item); memo != "" {
			line += "\n      memo: " + memo
		}
		cmd.Println(line)
	}
	cmd.Println()
}

// agentMemoNote extracts the referral memo note, tolerating both the
// typed form and the map form JSON round-trips produce.
func agentMemoNote(item domain.PipelineItem) string {
	raw, ok := item.Annotations[domain.AnnotationAgentMemo]
	if !ok {
		return ""
	}
	switch memo := raw.(type) {
	case domain.AgentMemo:
		return memo.Note
	case map[string]any:
		note, _ := memo["note"].(string)
		return note
	default:
		return ""
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(strings.TrimRight(string(data), "\n"))
	return nil
}
