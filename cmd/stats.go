package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/progress"
	"github.com/abhisek/robosim/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		cat := sess.sim.Catalog()
		sum := progress.Summarize(cat, sess.sim.Tracking())

		fmt.Println("Progress")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-24s  %d/%d (%.0f%%)\n", "Objectives", sum.CompletedObjectives, sum.TotalObjectives, sum.Percent())
		fmt.Printf("%-24s  %d/%d\n", "Challenges", sum.CompletedChallenges, len(sum.Challenges))
		fmt.Printf("%-24s  %d\n", "Theory topics read", sum.TheoryViewed)
		fmt.Printf("%-24s  %d (%d points)\n", "Hints revealed", sum.HintsUnlocked, sum.HintPointsSpent)

		fmt.Println()
		fmt.Println("By Category")
		fmt.Println(strings.Repeat("─", 48))
		for _, c := range challenge.AllCategories() {
			done, all := 0, 0
			for _, row := range sum.Challenges {
				if row.Category == c {
					done += row.ObjectivesDone
					all += row.ObjectivesAll
				}
			}
			if all == 0 {
				continue
			}
			fmt.Printf("%-24s  %d/%d\n", c.DisplayName(), done, all)
		}

		counts, err := sess.store.EventRepo().Counts(cmd.Context())
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		runs, err := sess.store.EventRepo().QueryScriptRuns(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query script runs: %w", err)
		}
		ok := 0
		for _, r := range runs {
			if r.Success {
				ok++
			}
		}

		fmt.Println()
		fmt.Println("Activity")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-24s  %d\n", "Commands given", counts["command_events"])
		fmt.Printf("%-24s  %d (%d succeeded)\n", "Scripts run", len(runs), ok)
		fmt.Printf("%-24s  %d\n", "Completions logged", counts["completion_events"])
		return nil
	},
}
