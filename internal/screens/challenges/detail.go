package challenges

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/router"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/screens/console"
	"github.com/abhisek/robosim/internal/screens/theory"
	"github.com/abhisek/robosim/internal/ui/components"
	"github.com/abhisek/robosim/internal/ui/layout"
	"github.com/abhisek/robosim/internal/ui/theme"
)

// DetailScreen shows one challenge: its objectives, hints and entry points
// into theory and the console.
type DetailScreen struct {
	env    *screen.Env
	ch     *challenge.Challenge
	notice string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail returns the detail screen for challenge id.
func NewDetail(env *screen.Env, id string) *DetailScreen {
	return &DetailScreen{env: env, ch: env.Sim.Catalog().Lookup(id)}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }
func (d *DetailScreen) Title() string { return d.ch.Title }

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "t", Description: "Theory"},
		{Key: "h", Description: "Reveal hint"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DetailScreen) locked() bool {
	return !d.env.Sim.Catalog().IsUnlocked(d.ch.ID, d.env.Sim.Tracking())
}

// activate makes this challenge the one under evaluation, switching to its
// robot when a different one is selected.
func (d *DetailScreen) activate() {
	s := d.env.Sim
	if s.Robot().Type != d.ch.RobotType {
		s.SelectRobot(d.ch.RobotType)
	}
	if s.ActiveChallenge() != d.ch.ID {
		s.SetActiveChallenge(d.ch.ID)
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.CompletionMsg:
		if ev, ok := msg.Event.(events.ChallengeCompleted); ok && ev.ChallengeID == d.ch.ID {
			d.notice = "Challenge complete!"
		}
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "s":
			if d.locked() {
				d.notice = "Finish the prerequisites first."
				return d, nil
			}
			d.activate()
			return d, tea.Batch(d.env.SaveProgress(), pushConsole(d.env))

		case "t":
			if d.locked() {
				d.notice = "Finish the prerequisites first."
				return d, nil
			}
			d.activate()
			th := theory.New(d.env, d.ch)
			return d, func() tea.Msg { return router.PushScreenMsg{Screen: th} }

		case "h":
			return d, d.revealHint()
		}
	}
	return d, nil
}

// revealHint unlocks the next hidden hint in catalog order.
func (d *DetailScreen) revealHint() tea.Cmd {
	for _, h := range d.ch.Hints {
		if d.env.Sim.IsHintUnlocked(d.ch.ID, h.ID) {
			continue
		}
		cost, ok := d.env.Sim.UnlockHint(d.ch.ID, h.ID)
		if !ok {
			return nil
		}
		if cost > 0 {
			d.notice = fmt.Sprintf("Hint revealed for %d points.", cost)
		} else {
			d.notice = "Hint revealed."
		}
		return d.env.SaveProgress()
	}
	d.notice = "No more hints."
	return nil
}

func pushConsole(env *screen.Env) tea.Cmd {
	c := console.New(env)
	return func() tea.Msg { return router.PushScreenMsg{Screen: c} }
}

func (d *DetailScreen) View(width, height int) string {
	ch := d.ch
	cat := d.env.Sim.Catalog()
	tr := d.env.Sim.Tracking()
	contentWidth := min(width-6, 76)

	var b strings.Builder
	status := cat.StatusOf(ch.ID, tr)
	b.WriteString(theme.Title.Render(fmt.Sprintf("  %s  %s", StatusIcon(status), ch.Title)))
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("  %s · %s · ~%d min · %s",
		ch.Category.DisplayName(), ch.Difficulty, ch.EstimatedMins, ch.RobotType.DisplayName())))
	b.WriteString("\n\n")

	if ch.Description != "" {
		b.WriteString(lipgloss.NewStyle().Width(contentWidth).PaddingLeft(2).Foreground(theme.Text).Render(ch.Description))
		b.WriteString("\n\n")
	}

	if len(ch.Prerequisites) > 0 && d.locked() {
		b.WriteString(theme.Section.Render("  Requires"))
		b.WriteString("\n")
		for _, pre := range ch.Prerequisites {
			name := pre
			if p := cat.Lookup(pre); p != nil {
				name = p.Title
			}
			icon, style := "○", theme.Dim
			if tr.IsChallengeCompleted(pre) {
				icon, style = "●", theme.Done
			}
			b.WriteString(style.Render(fmt.Sprintf("  %s %s", icon, name)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	done, total := cat.ObjectiveProgress(ch.ID, tr)
	b.WriteString(theme.Section.Render("  Objectives") + "  " + components.NewProgressBar(done, total, 24).View())
	b.WriteString("\n")
	for _, obj := range ch.Objectives {
		if tr.IsObjectiveCompleted(obj.ID) {
			b.WriteString(theme.Done.Render("  ✓ " + obj.Description))
		} else {
			b.WriteString(theme.Body.Render("  ○ " + obj.Description))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(ch.Hints) > 0 {
		b.WriteString(theme.Section.Render("  Hints"))
		b.WriteString("\n")
		for i, h := range ch.Hints {
			if d.env.Sim.IsHintUnlocked(ch.ID, h.ID) {
				b.WriteString(lipgloss.NewStyle().Width(contentWidth).PaddingLeft(2).Foreground(theme.Text).
					Render(fmt.Sprintf("%d. %s", i+1, h.Text)))
			} else {
				cost := "free"
				if h.UnlockCost > 0 {
					cost = fmt.Sprintf("%d pts", h.UnlockCost)
				}
				b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d. hidden (%s)", i+1, cost)))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if ch.StartingCode.NaturalLanguage != "" {
		b.WriteString(theme.Section.Render("  Try"))
		b.WriteString("\n")
		b.WriteString(theme.Code.PaddingLeft(2).Render(strings.TrimSpace(ch.StartingCode.NaturalLanguage)))
		b.WriteString("\n\n")
	}

	if d.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("  " + d.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "\n"+b.String())
}
