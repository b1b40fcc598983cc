package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/progress"
	"github.com/abhisek/robosim/internal/router"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/screens/challenges"
	"github.com/abhisek/robosim/internal/ui/layout"
)

// noticeDuration is how long a completion toast stays in the footer.
const noticeDuration = 4 * time.Second

// Options holds the dependencies the TUI is built from.
type Options struct {
	Env *screen.Env
	// Initial, when set, is pushed above the challenge list at start.
	Initial screen.Screen
}

type noticeExpiredMsg struct{ id int }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int

	notice   string
	noticeID int
	initial  screen.Screen
}

// newAppModel creates a new AppModel rooted at the challenge list.
func newAppModel(opts Options) AppModel {
	return AppModel{
		env:     opts.Env,
		router:  router.New(challenges.NewList(opts.Env)),
		initial: opts.Initial,
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.initial != nil {
		s := m.initial
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case screen.CompletionMsg:
		var cmd tea.Cmd
		m, cmd = m.showNotice(m.describe(msg.Event))
		return m, tea.Batch(cmd, m.router.Update(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.Capturing() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) showNotice(text string) (AppModel, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}

func (m AppModel) describe(e events.Event) string {
	cat := m.env.Sim.Catalog()
	switch ev := e.(type) {
	case events.ObjectiveCompleted:
		if ch := cat.Lookup(ev.ChallengeID); ch != nil {
			for _, obj := range ch.Objectives {
				if obj.ID == ev.ObjectiveID {
					return "★ " + obj.Description
				}
			}
		}
		return "★ Objective complete"
	case events.ChallengeCompleted:
		if ch := cat.Lookup(ev.ChallengeID); ch != nil {
			return "★ " + ch.Title + " complete!"
		}
		return "★ Challenge complete!"
	}
	return ""
}

// status is the right side of the header: robot and overall progress.
func (m AppModel) status() string {
	snap := m.env.Sim.Snapshot()
	sum := progress.Summarize(m.env.Sim.Catalog(), snap.Tracking)
	return fmt.Sprintf("%s · %d/%d objectives  ", snap.Robot.Type.DisplayName(), sum.CompletedObjectives, sum.TotalObjectives)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if frame := m.render(); frame != "" {
		v.SetContent(frame)
	}
	return v
}

// render draws the whole frame, or "" before the first size message.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok {
			footerHints = p.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(footerHints, m.notice, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program. Completion events published on the
// simulator's bus are forwarded into the program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	unsub := opts.Env.Sim.Bus().Subscribe(func(e events.Event) {
		go p.Send(screen.CompletionMsg{Event: e})
	})
	defer unsub()

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
