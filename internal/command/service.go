package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/robosim/internal/store"
)

// Journal records handled commands. store.EventRepo implements it.
type Journal interface {
	AppendCommand(ctx context.Context, data store.CommandEventData) error
}

// Source labels where a plan came from.
const (
	SourceParser = "parser"
	SourceLLM    = "llm"
)

// Service is the entry point for free-text commands: parse, fall back to the
// translator, execute, and journal the outcome.
type Service struct {
	executor   *Executor
	translator *Translator
	journal    Journal
	sessionID  string
}

// NewService wires a Service. translator and journal may be nil.
func NewService(r Robot, translator *Translator, journal Journal, sessionID string) *Service {
	return &Service{
		executor:   NewExecutor(r),
		translator: translator,
		journal:    journal,
		sessionID:  sessionID,
	}
}

// Busy reports whether a command is executing.
func (s *Service) Busy() bool { return s.executor.Busy() }

// Plan resolves text into commands without running them. It reports which
// source produced the plan.
func (s *Service) Plan(ctx context.Context, text string) ([]Command, string, error) {
	if cmds, ok := ParseAll(text); ok {
		return cmds, SourceParser, nil
	}
	if !s.translator.Enabled() {
		return nil, SourceParser, ErrUnknownCommand
	}
	cmds, err := s.translator.Translate(ctx, text, s.executor.robot.Robot().Type)
	return cmds, SourceLLM, err
}

// Handle plans and executes text, returning the status lines to show the
// learner.
func (s *Service) Handle(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrUnknownCommand
	}
	if s.executor.Busy() {
		return nil, ErrBusy
	}

	cmds, source, err := s.Plan(ctx, text)
	if err != nil {
		s.record(ctx, text, source, "", err.Error(), false)
		if errors.Is(err, ErrUnknownCommand) {
			return nil, fmt.Errorf("%w: try something like \"move forward 2 meters\" or \"turn left 90 degrees\"", err)
		}
		return nil, err
	}

	lines, err := s.executor.Execute(ctx, cmds)
	result := strings.Join(lines, "\n")
	if err != nil {
		result = strings.TrimSpace(result + "\n" + err.Error())
	}
	s.record(ctx, text, source, Describe(cmds), result, err == nil)
	return lines, err
}

func (s *Service) record(ctx context.Context, input, source, action, result string, ok bool) {
	if s.journal == nil {
		return
	}
	err := s.journal.AppendCommand(context.WithoutCancel(ctx), store.CommandEventData{
		SessionID: s.sessionID,
		Input:     input,
		Source:    source,
		Action:    action,
		Result:    result,
		Success:   ok,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log command event: %v\n", err)
	}
}
