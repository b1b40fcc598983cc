// Package robots implements the robot selection screen.
package robots

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/router"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/ui/components"
	"github.com/abhisek/robosim/internal/ui/layout"
	"github.com/abhisek/robosim/internal/ui/theme"
)

var descriptions = map[robot.Type]string{
	robot.TypeMobile:   "wheeled base, drives and turns",
	robot.TypeArm:      "five joints and a gripper",
	robot.TypeDrone:    "flies, hovers and lands",
	robot.TypeSpider:   "legged walker",
	robot.TypeTank:     "tracked, slow and steady",
	robot.TypeExplorer: "rough-terrain rover",
}

// Screen lists the robot types. Selecting one replaces the simulated robot.
type Screen struct {
	env  *screen.Env
	menu components.Menu
}

var _ screen.Screen = (*Screen)(nil)

// New builds the picker with the cursor on the current robot.
func New(env *screen.Env) *Screen {
	s := &Screen{env: env}
	current := env.Sim.Robot().Type
	items := make([]components.MenuItem, 0, len(robot.AllTypes()))
	sel := 0
	for i, t := range robot.AllTypes() {
		detail := descriptions[t]
		if t == current {
			detail += " (current)"
			sel = i
		}
		items = append(items, components.MenuItem{
			Label:  t.DisplayName(),
			Detail: detail,
			Action: func() tea.Cmd { return s.choose(t) },
		})
	}
	s.menu = components.NewMenu(items)
	s.menu.Select(sel)
	return s
}

func (s *Screen) choose(t robot.Type) tea.Cmd {
	s.env.Sim.SelectRobot(t)
	return tea.Sequence(s.env.SaveProgress(), func() tea.Msg { return router.PopScreenMsg{} })
}

func (s *Screen) Init() tea.Cmd { return nil }
func (s *Screen) Title() string { return "Robots" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("  Choose a robot"))
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("  Switching robots restarts the current attempt."))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "\n"+b.String())
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}
