package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/config"
	"github.com/abhisek/robosim/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "robosim",
	Short: "Robotics challenges in your terminal",
	Long:  "RoboSim: drive simulated robots with plain English or Lua and work through hands-on robotics challenges.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ROBOSIM_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Challenge catalog file (overrides ROBOSIM_CATALOG env var)")
	rootCmd.PersistentFlags().String("robot", "", robotFlagUsage())
	rootCmd.PersistentFlags().String("challenge", "", "Challenge to activate at start")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ROBOSIM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the configured database for commands that only read or
// clear it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
