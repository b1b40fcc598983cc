package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sayCmd = &cobra.Command{
	Use:   "say <command>",
	Short: "Give the robot a plain-English command",
	Example: `  robosim say "move forward 2 meters then turn left"
  robosim say --robot drone "take off"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer sess.Close()
		stop := sess.printCompletions()
		defer stop()

		lines, err := sess.commands.Handle(cmd.Context(), strings.Join(args, " "))
		for _, l := range lines {
			fmt.Println(l)
		}
		return err
	},
}
