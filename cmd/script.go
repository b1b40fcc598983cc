package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file.lua>",
	Short: "Run a Lua script against the simulated robot",
	Long: `Run a Lua script against the simulated robot and report any objectives
it completes. The robot API lives in the global "robot" table, for example
robot.move{direction = "forward", speed = 0.5, duration = 2000}.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}

		sess, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer sess.Close()
		stop := sess.printCompletions()
		defer stop()

		ctx, cancel := context.WithTimeout(cmd.Context(), sess.cfg.ScriptTimeout)
		defer cancel()

		res := sess.scripts.Run(ctx, string(src))
		if err := sess.recorder.RecordScriptRun(context.WithoutCancel(ctx), string(src), res); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		fmt.Print(res.Output)
		if !res.OK() {
			return fmt.Errorf("script failed: %w", res.Err)
		}
		st := sess.sim.Robot()
		fmt.Printf("✓ Finished in %s. %s at (%.2f, %.2f, %.2f), battery %.0f%%\n",
			res.Duration.Round(time.Millisecond), st.Type.DisplayName(),
			st.Position.X, st.Position.Y, st.Position.Z, st.Battery)
		return nil
	},
}
