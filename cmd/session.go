package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/robosim/internal/command"
	"github.com/abhisek/robosim/internal/config"
	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/llm"
	"github.com/abhisek/robosim/internal/progress"
	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/script"
	"github.com/abhisek/robosim/internal/sim"
	"github.com/abhisek/robosim/internal/store"
)

var (
	_ script.Robot  = (*sim.Simulator)(nil)
	_ command.Robot = (*sim.Simulator)(nil)
)

// session is one simulator run wired to the store.
type session struct {
	cfg      config.Config
	store    *store.Store
	sim      *sim.Simulator
	recorder *progress.Recorder
	commands *command.Service
	scripts  *script.Runner
}

// loadConfig reads ROBOSIM_* settings and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("robot") {
		cfg.Robot, _ = flags.GetString("robot")
	}
	if flags.Changed("challenge") {
		cfg.Challenge, _ = flags.GetString("challenge")
	}
	if flags.Changed("catalog") {
		cfg.Catalog, _ = flags.GetString("catalog")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openSession builds a simulator, restores saved progress into it and starts
// recording. withLLM enables the free-text translator when a provider is
// configured.
func openSession(cmd *cobra.Command, withLLM bool) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := sim.New(cfg.SimOptions(cat))
	if _, err := progress.Restore(ctx, s, st.SnapshotRepo()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	// Explicit choices win over the restored snapshot.
	_, robotFromEnv := os.LookupEnv(config.EnvPrefix + "ROBOT")
	if cmd.Flags().Changed("robot") || robotFromEnv {
		s.SelectRobot(cfg.RobotType())
	}
	if cfg.Challenge != "" {
		if cat.Lookup(cfg.Challenge) == nil {
			s.Close()
			st.Close()
			return nil, fmt.Errorf("unknown challenge %q", cfg.Challenge)
		}
		s.SetActiveChallenge(cfg.Challenge)
	}

	sessionID := uuid.NewString()
	eventRepo := st.EventRepo()
	rec := progress.NewRecorder(s, eventRepo, st.SnapshotRepo(), sessionID)
	rec.Start()

	var translator *command.Translator
	if withLLM {
		provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Only built-in command phrasing will be understood.")
		} else {
			translator = command.NewTranslator(provider, command.DefaultTranslatorConfig())
		}
	}

	return &session{
		cfg:      cfg,
		store:    st,
		sim:      s,
		recorder: rec,
		commands: command.NewService(s, translator, eventRepo, sessionID),
		scripts:  script.NewRunner(s),
	}, nil
}

func (s *session) env() *screen.Env {
	return &screen.Env{
		Sim:           s.sim,
		Commands:      s.commands,
		Scripts:       s.scripts,
		Recorder:      s.recorder,
		ScriptTimeout: s.cfg.ScriptTimeout,
	}
}

// Close stops recording and releases the store.
func (s *session) Close() {
	s.recorder.Stop()
	s.sim.Close()
	s.store.Close()
}

// printCompletions echoes completion events to stdout until the returned
// func is called.
func (s *session) printCompletions() (stop func()) {
	cat := s.sim.Catalog()
	return s.sim.Bus().Subscribe(func(e events.Event) {
		switch ev := e.(type) {
		case events.ObjectiveCompleted:
			desc := ev.ObjectiveID
			if ch := cat.Lookup(ev.ChallengeID); ch != nil {
				for _, obj := range ch.Objectives {
					if obj.ID == ev.ObjectiveID {
						desc = obj.Description
					}
				}
			}
			fmt.Printf("★ Objective complete: %s\n", desc)
		case events.ChallengeCompleted:
			title := ev.ChallengeID
			if ch := cat.Lookup(ev.ChallengeID); ch != nil {
				title = ch.Title
			}
			fmt.Printf("★ Challenge complete: %s\n", title)
		}
	})
}

func robotFlagUsage() string {
	names := make([]string, 0, len(robot.AllTypes()))
	for _, t := range robot.AllTypes() {
		names = append(names, string(t))
	}
	return "Robot type: " + strings.Join(names, ", ")
}
