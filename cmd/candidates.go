package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/filtering"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List, inspect and delete interviewed candidates",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates with optional search, status filter and sort order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		listCandidates(cmd.Context(), cmd)
	},
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a candidate with the full interview record as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showCandidate(cmd.Context(), args[0])
	},
}

var candidatesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one candidate, or every candidate with --all",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteCandidates(cmd.Context(), cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.AddCommand(candidatesListCmd, candidatesShowCmd, candidatesDeleteCmd)

	candidatesListCmd.Flags().StringP("search", "s", "", "match a substring of name or email")
	candidatesListCmd.Flags().String("status", filtering.StatusAll, "pending, in-progress, completed or all")
	candidatesListCmd.Flags().String("sort", filtering.SortScore, "score, name or date")

	candidatesDeleteCmd.Flags().Bool("all", false, "delete every candidate")
	candidatesDeleteCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation")
}

func listCandidates(ctx context.Context, cmd *cobra.Command) {
	if ctx == nil {
		ctx = context.Background()
	}
	e := setup(ctx)
	defer e.Close()

	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	sortBy, _ := cmd.Flags().GetString("sort")

	list, err := filtering.Run(ctx,
		&filtering.Config{Search: search, Status: status, Sort: sortBy},
		filtering.Deps{Logger: e.logger},
		filtering.Default(),
		e.candidates.List(),
	)
	if err != nil {
		e.logger.Fatal("filtering candidates", zap.Error(err))
	}

	if len(list) == 0 {
		e.logger.Info("no candidates found")
		return
	}

	current, _ := e.candidates.Current()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tEMAIL\tSTATUS\tSCORE\tLEVEL\tCREATED")
	for _, c := range list {
		marker := ""
		if c.ID == current.ID {
			marker = "*"
		}
		score := "-"
		if c.Score != nil {
			score = fmt.Sprintf("%.1f", *c.Score)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			marker, c.ID, c.Name, c.Email, c.Status, score, c.PerformanceLevel, c.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func showCandidate(ctx context.Context, id string) {
	if ctx == nil {
		ctx = context.Background()
	}
	e := setup(ctx)
	defer e.Close()

	c, err := e.candidates.Get(id)
	if err != nil {
		e.logger.Fatal("getting candidate", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		e.logger.Fatal("encoding candidate", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

func deleteCandidates(ctx context.Context, cmd *cobra.Command, args []string) {
	if ctx == nil {
		ctx = context.Background()
	}
	e := setup(ctx)
	defer e.Close()

	all, _ := cmd.Flags().GetBool("all")
	autoApprove, _ := cmd.Flags().GetBool("auto-aprove")

	switch {
	case all && len(args) == 0:
		if !autoApprove {
			ok, err := confirm(fmt.Sprintf("Delete all %d candidates?", len(e.candidates.List())))
			if err != nil || !ok {
				exitOnPrompt(e.logger, err)
				return
			}
		}
		n, err := e.candidates.DeleteAll(ctx)
		if err != nil {
			e.logger.Fatal("deleting candidates", zap.Error(err))
		}
		e.logger.Info("deleted candidates", zap.Int("count", n))
	case !all && len(args) == 1:
		if err := e.candidates.Delete(ctx, args[0]); err != nil {
			e.logger.Fatal("deleting candidate", zap.Error(err))
		}
		e.logger.Info("deleted candidate", zap.String("id", args[0]))
	default:
		e.logger.Fatal("pass a candidate id or --all, not both")
	}
}
