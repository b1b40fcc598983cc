package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/progress"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List challenges and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		cat := sess.sim.Catalog()
		sum := progress.Summarize(cat, sess.sim.Tracking())
		active := sess.sim.ActiveChallenge()

		fmt.Printf("%-14s  %-28s  %-12s  %-13s  %-11s  %s\n",
			"ID", "Title", "Difficulty", "Robot", "Status", "Objectives")
		fmt.Println(strings.Repeat("─", 96))
		for _, c := range sum.Challenges {
			ch := cat.Lookup(c.ID)
			id := c.ID
			if id == active {
				id += " *"
			}
			fmt.Printf("%-14s  %-28s  %-12s  %-13s  %-11s  %d/%d\n",
				id,
				truncate(c.Title, 28),
				ch.Difficulty,
				ch.RobotType.DisplayName(),
				statusLabel(c.Status),
				c.ObjectivesDone, c.ObjectivesAll,
			)
		}
		if active != "" {
			fmt.Println("\n* active challenge")
		}
		return nil
	},
}

func statusLabel(s challenge.Status) string {
	switch s {
	case challenge.StatusCompleted:
		return "completed"
	case challenge.StatusInProgress:
		return "in progress"
	case challenge.StatusUnlocked:
		return "unlocked"
	default:
		return "locked"
	}
}
