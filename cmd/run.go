package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/app"
	"github.com/abhisek/robosim/internal/screens/challenges"
)

// runApp opens a session and launches the TUI. With --challenge the
// challenge detail opens on top of the list.
func runApp(cmd *cobra.Command) error {
	sess, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	env := sess.env()
	opts := app.Options{Env: env}
	if id := sess.cfg.Challenge; id != "" {
		opts.Initial = challenges.NewDetail(env, id)
	}
	return app.Run(opts)
}
