// Package challenges holds the challenge list and challenge detail screens.
package challenges

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/router"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/screens/robots"
	"github.com/abhisek/robosim/internal/ui/layout"
	"github.com/abhisek/robosim/internal/ui/theme"
)

type row struct {
	header   bool
	category challenge.Category
	id       string
}

// ListScreen shows every challenge grouped by category.
type ListScreen struct {
	env          *screen.Env
	rows         []row
	cursor       int
	scrollOffset int
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)

// NewList builds the list from env's catalog. Empty categories are skipped.
func NewList(env *screen.Env) *ListScreen {
	cat := env.Sim.Catalog()
	s := &ListScreen{env: env}
	for _, c := range challenge.AllCategories() {
		chs := cat.ByCategory(c)
		if len(chs) == 0 {
			continue
		}
		s.rows = append(s.rows, row{header: true, category: c})
		for _, ch := range chs {
			s.rows = append(s.rows, row{category: c, id: ch.ID})
		}
	}
	s.cursor = -1
	s.moveCursor(1)
	return s
}

func (s *ListScreen) Init() tea.Cmd { return nil }
func (s *ListScreen) Title() string { return "Challenges" }

func (s *ListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "r", Description: "Robot"},
		{Key: "c", Description: "Console"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "enter":
		if id := s.SelectedID(); id != "" {
			detail := NewDetail(s.env, id)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
		}
	case "r":
		picker := robots.New(s.env)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: picker} }
	case "c":
		return s, pushConsole(s.env)
	}
	return s, nil
}

// SelectedID returns the challenge under the cursor.
func (s *ListScreen) SelectedID() string {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return ""
	}
	return s.rows[s.cursor].id
}

func (s *ListScreen) moveCursor(delta int) {
	for next := s.cursor + delta; next >= 0 && next < len(s.rows); next += delta {
		if !s.rows[next].header {
			s.cursor = next
			return
		}
	}
}

func (s *ListScreen) adjustScroll(height int) {
	if height <= 0 || s.cursor < 0 {
		return
	}
	top := s.cursor
	if top > 0 && s.rows[top-1].header {
		top--
	}
	if top < s.scrollOffset {
		s.scrollOffset = top
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *ListScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return theme.Dim.Render("\n  The catalog is empty.")
	}
	s.adjustScroll(height)

	cat := s.env.Sim.Catalog()
	tr := s.env.Sim.Tracking()
	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < height; i++ {
		r := s.rows[i]
		if r.header {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Secondary).
				Bold(true).
				PaddingLeft(2).
				Render(strings.ToUpper(r.category.DisplayName())))
			continue
		}
		lines = append(lines, s.renderRow(cat, tr, r.id, i == s.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (s *ListScreen) renderRow(cat *challenge.Catalog, p challenge.Progress, id string, selected bool, width int) string {
	ch := cat.Lookup(id)
	status := cat.StatusOf(id, p)
	done, total := cat.ObjectiveProgress(id, p)

	nameWidth := max(width-40, 12)
	name := ch.Title
	if len(name) > nameWidth {
		name = name[:nameWidth-1] + "…"
	}

	cursor := "  "
	style := statusStyle(status)
	if selected {
		cursor = "▸ "
		style = theme.Selected
	}
	return fmt.Sprintf("  %s%s %s  %s  %s",
		cursor,
		StatusIcon(status),
		style.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		theme.Dim.Render(fmt.Sprintf("%-12s", ch.Difficulty)),
		style.Render(fmt.Sprintf("%d/%d", done, total)),
	)
}

// StatusIcon returns the glyph shown next to a challenge.
func StatusIcon(st challenge.Status) string {
	switch st {
	case challenge.StatusCompleted:
		return theme.Done.Render("✓")
	case challenge.StatusInProgress:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("◐")
	case challenge.StatusUnlocked:
		return theme.Body.Render("○")
	default:
		return theme.Locked.Render("🔒")
	}
}

func statusStyle(st challenge.Status) lipgloss.Style {
	switch st {
	case challenge.StatusCompleted:
		return theme.Done
	case challenge.StatusLocked:
		return theme.Locked
	default:
		return theme.Body
	}
}
