package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent commands and script runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		opts := store.QueryOpts{Limit: limit}
		commands, err := s.EventRepo().QueryCommands(ctx, opts)
		if err != nil {
			return fmt.Errorf("query commands: %w", err)
		}
		runs, err := s.EventRepo().QueryScriptRuns(ctx, opts)
		if err != nil {
			return fmt.Errorf("query script runs: %w", err)
		}

		type entry struct {
			seq    int64
			at     time.Time
			kind   string
			input  string
			detail string
			ok     bool
		}
		var entries []entry
		for _, c := range commands {
			detail := c.Action
			if !c.Success {
				detail = c.Result
			}
			entries = append(entries, entry{c.Sequence, c.Timestamp, c.Source, c.Input, detail, c.Success})
		}
		for _, r := range runs {
			detail := fmt.Sprintf("%dms", r.DurationMs)
			if !r.Success {
				detail = r.ErrorMessage
			}
			entries = append(entries, entry{r.Sequence, r.Timestamp, "script", r.Source, detail, r.Success})
		}
		if len(entries) == 0 {
			fmt.Println("Nothing recorded yet.")
			return nil
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		fmt.Printf("%-14s  %-7s  %-30s  %-2s  %s\n", "When", "Via", "Input", "OK", "Detail")
		rule(90)
		for _, e := range entries {
			fmt.Printf("%-14s  %-7s  %-30s  %-2s  %s\n",
				e.at.Local().Format("01-02 15:04:05"),
				e.kind,
				truncate(e.input, 30),
				mark(e.ok),
				truncate(e.detail, 40),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
}
