// Package console implements the robot console: a command line that drives
// the simulated robot with plain English or Lua scripts, next to a live
// telemetry panel.
package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/ui/components"
	"github.com/abhisek/robosim/internal/ui/layout"
)

// telemetryInterval is how often the panel redraws while a command runs.
const telemetryInterval = 100 * time.Millisecond

// maxLogLines bounds the scrollback.
const maxLogLines = 500

var suggestions = []string{
	"move forward 2 meters",
	"move backward 1 meter",
	"turn left 90 degrees",
	"turn right 90 degrees",
	"turn around",
	"read the distance sensor",
	"scan with camera",
	"grab the object",
	"release",
	"take off",
	"land",
	"stop",
	"/run ",
	"/stop",
	"/reset",
	"/clear",
	"/help",
}

type lineKind int

const (
	kindInput lineKind = iota
	kindOK
	kindFail
	kindInfo
	kindEvent
)

type logLine struct {
	kind lineKind
	text string
}

// Screen is the robot console.
type Screen struct {
	env   *screen.Env
	input components.CommandInput
	log   []logLine
	view  viewport.Model

	running bool
	cancel  context.CancelFunc
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)

// New returns a console bound to env.
func New(env *screen.Env) *Screen {
	s := &Screen{
		env:   env,
		input: components.NewCommandInput("move forward 2 meters", 60, suggestions),
		view:  viewport.New(),
	}
	s.add(kindInfo, fmt.Sprintf("Connected to %s. Type a command, or /help.", env.Sim.Robot().Type.DisplayName()))
	return s
}

func (s *Screen) Init() tea.Cmd { return s.input.Init() }
func (s *Screen) Title() string { return "Console" }

// Capturing holds Esc while there is text on the line.
func (s *Screen) Capturing() bool { return s.input.Value() != "" }

// Running reports whether a command or script is executing.
func (s *Screen) Running() bool { return s.running }

// Lines returns the scrollback text, oldest first.
func (s *Screen) Lines() []string {
	out := make([]string, len(s.log))
	for i, l := range s.log {
		out[i] = l.text
	}
	return out
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Run"},
		{Key: "↑↓", Description: "History"},
		{Key: "Tab", Description: "Complete"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) add(kind lineKind, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		s.log = append(s.log, logLine{kind: kind, text: line})
	}
	if n := len(s.log); n > maxLogLines {
		s.log = s.log[n-maxLogLines:]
	}
}

func (s *Screen) addResult(line string) {
	kind := kindInfo
	switch {
	case strings.HasPrefix(line, "✓"):
		kind = kindOK
	case strings.HasPrefix(line, "✗"):
		kind = kindFail
	}
	s.add(kind, line)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.CompletionMsg:
		s.addCompletion(msg.Event)
		return s, nil

	case commandDoneMsg:
		s.finish()
		for _, line := range msg.Lines {
			s.addResult(line)
		}
		if msg.Err != nil {
			s.add(kindFail, "✗ "+msg.Err.Error())
		}
		return s, nil

	case scriptDoneMsg:
		s.finish()
		if out := msg.Result.Output; out != "" {
			s.add(kindInfo, out)
		}
		if msg.Result.OK() {
			s.add(kindOK, fmt.Sprintf("✓ %s finished in %s", msg.Name, msg.Result.Duration.Round(time.Millisecond)))
		} else {
			s.add(kindFail, fmt.Sprintf("✗ %s: %v", msg.Name, msg.Result.Err))
		}
		return s, nil

	case telemetryTickMsg:
		if s.running {
			return s, tickTelemetry()
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "esc":
			s.input.Model.Reset()
			return s, nil
		case "pgup":
			s.view.PageUp()
			return s, nil
		case "pgdown":
			s.view.PageDown()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) addCompletion(e events.Event) {
	cat := s.env.Sim.Catalog()
	switch ev := e.(type) {
	case events.ObjectiveCompleted:
		text := ev.ObjectiveID
		if ch := cat.Lookup(ev.ChallengeID); ch != nil {
			for _, obj := range ch.Objectives {
				if obj.ID == ev.ObjectiveID {
					text = obj.Description
				}
			}
		}
		s.add(kindEvent, "★ Objective complete: "+text)
	case events.ChallengeCompleted:
		text := ev.ChallengeID
		if ch := cat.Lookup(ev.ChallengeID); ch != nil {
			text = ch.Title
		}
		s.add(kindEvent, "★ Challenge complete: "+text)
	}
}

func (s *Screen) submit() tea.Cmd {
	text := s.input.Submit()
	if text == "" {
		return nil
	}
	s.add(kindInput, "› "+text)

	if strings.HasPrefix(text, "/") {
		return s.slash(text)
	}
	if s.running {
		s.add(kindFail, "✗ The robot is busy. Use /stop to interrupt it.")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.start(cancel)
	svc := s.env.Commands
	run := func() tea.Msg {
		defer cancel()
		lines, err := svc.Handle(ctx, text)
		return commandDoneMsg{Lines: lines, Err: err}
	}
	return tea.Batch(run, tickTelemetry())
}

func (s *Screen) slash(text string) tea.Cmd {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/stop":
		if s.cancel != nil {
			s.cancel()
		}
		s.env.Sim.Stop()
		s.add(kindOK, "✓ Robot stopped")
	case "/clear":
		s.log = nil
	case "/reset":
		if s.running {
			s.add(kindFail, "✗ Stop the robot before resetting it.")
			return nil
		}
		s.env.Sim.SelectRobot(s.env.Sim.Robot().Type)
		s.add(kindOK, "✓ Robot reset to the start position")
	case "/run":
		return s.runScript(arg)
	case "/help":
		s.add(kindInfo, strings.Join([]string{
			"Commands are plain English, for example:",
			"  move forward 2 meters then turn left",
			"  read the distance sensor",
			"Console commands:",
			"  /run <file.lua>  run a Lua script",
			"  /stop            stop the robot",
			"  /reset           put the robot back at the start",
			"  /clear           clear this log",
		}, "\n"))
	default:
		s.add(kindFail, "✗ Unknown console command "+name+". Try /help.")
	}
	return nil
}

func (s *Screen) runScript(path string) tea.Cmd {
	if path == "" {
		s.add(kindFail, "✗ Usage: /run <file.lua>")
		return nil
	}
	if s.running {
		s.add(kindFail, "✗ The robot is busy. Use /stop to interrupt it.")
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		s.add(kindFail, fmt.Sprintf("✗ read script: %v", err))
		return nil
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.env.ScriptTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.env.ScriptTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.start(cancel)

	name := filepath.Base(path)
	runner := s.env.Scripts
	rec := s.env.Recorder
	run := func() tea.Msg {
		defer cancel()
		res := runner.Run(ctx, string(src))
		if rec != nil {
			if err := rec.RecordScriptRun(context.WithoutCancel(ctx), string(src), res); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}
		return scriptDoneMsg{Name: name, Result: res}
	}
	s.add(kindInfo, "Running "+name+"…")
	return tea.Batch(run, tickTelemetry())
}

func (s *Screen) start(cancel context.CancelFunc) {
	s.running = true
	s.cancel = cancel
}

func (s *Screen) finish() {
	s.running = false
	s.cancel = nil
}

func tickTelemetry() tea.Cmd {
	return tea.Tick(telemetryInterval, func(t time.Time) tea.Msg {
		return telemetryTickMsg(t)
	})
}
