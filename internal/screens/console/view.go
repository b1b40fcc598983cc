package console

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/ui/components"
	"github.com/abhisek/robosim/internal/ui/layout"
	"github.com/abhisek/robosim/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	inputLine := "  " + s.input.View()
	status := ""
	if s.running {
		status = lipgloss.NewStyle().Foreground(theme.Accent).Render("  ● running")
	}

	logWidth := width - 2
	var side string
	if !layout.IsCompactWidth(width) {
		logWidth = width - layout.TelemetryWidth - 3
		side = s.telemetry(layout.TelemetryWidth)
	}

	logHeight := max(height-lipgloss.Height(inputLine)-2, 3)
	if side == "" {
		compact := s.compactTelemetry()
		logHeight = max(logHeight-lipgloss.Height(compact), 3)
		s.layoutLog(logWidth, logHeight)
		return lipgloss.JoinVertical(lipgloss.Left,
			compact,
			s.view.View(),
			status,
			inputLine,
		)
	}

	s.layoutLog(logWidth, logHeight)
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingLeft(2).Width(logWidth+2).Render(s.view.View()),
		" ",
		side,
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, status, inputLine)
}

func (s *Screen) layoutLog(width, height int) {
	atBottom := s.view.AtBottom()
	s.view.SetWidth(width)
	s.view.SetHeight(height)
	lines := make([]string, len(s.log))
	for i, l := range s.log {
		lines[i] = styleFor(l.kind).Render(l.text)
	}
	s.view.SetContentLines(lines)
	if atBottom {
		s.view.GotoBottom()
	}
}

func styleFor(k lineKind) lipgloss.Style {
	switch k {
	case kindInput:
		return theme.Code
	case kindOK:
		return theme.Done
	case kindFail:
		return theme.Failed
	case kindEvent:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	default:
		return theme.Body
	}
}

func (s *Screen) telemetryRows(st robot.State) []components.KV {
	gripper := "open"
	if st.Grabbing {
		gripper = "holding"
	}
	motion := "idle"
	if st.Moving {
		motion = "moving"
	}
	rows := []components.KV{
		{Key: "Robot", Value: st.Type.DisplayName()},
		{Key: "Position", Value: fmt.Sprintf("%.2f, %.2f, %.2f", st.Position.X, st.Position.Y, st.Position.Z)},
		{Key: "Heading", Value: fmt.Sprintf("%.0f°", robot.Degrees(st.Rotation.Y))},
		{Key: "Battery", Value: fmt.Sprintf("%.0f%%", st.Battery)},
		{Key: "Gripper", Value: gripper},
		{Key: "State", Value: motion},
	}
	if st.Type == robot.TypeArm {
		for _, j := range robot.ArmJoints() {
			rows = append(rows, components.KV{Key: string(j), Value: fmt.Sprintf("%.2f", st.Joints[j])})
		}
	}
	return rows
}

func (s *Screen) telemetry(width int) string {
	snap := s.env.Sim.Snapshot()
	var b strings.Builder
	b.WriteString(components.KVList(s.telemetryRows(snap.Robot)))
	if n := len(snap.Robot.Errors); n > 0 {
		b.WriteString(theme.Failed.Render(snap.Robot.Errors[n-1]))
		b.WriteByte('\n')
	}

	if ch := s.env.Sim.Catalog().Lookup(snap.ActiveChallenge); ch != nil {
		b.WriteByte('\n')
		b.WriteString(theme.Section.Render(ch.Title))
		b.WriteByte('\n')
		for _, obj := range ch.Objectives {
			desc := obj.Description
			if r := []rune(desc); len(r) > width-6 {
				desc = string(r[:max(width-7, 1)]) + "…"
			}
			if snap.Tracking.IsObjectiveCompleted(obj.ID) {
				b.WriteString(theme.Done.Render("✓ " + desc))
			} else {
				b.WriteString(theme.Body.Render("○ " + desc))
			}
			b.WriteByte('\n')
		}
	}
	return components.Panel("Telemetry", b.String(), width)
}

func (s *Screen) compactTelemetry() string {
	st := s.env.Sim.Robot()
	return theme.Dim.Render(fmt.Sprintf("  %s  pos %.1f,%.1f,%.1f  hdg %.0f°  bat %.0f%%",
		st.Type.DisplayName(), st.Position.X, st.Position.Y, st.Position.Z,
		robot.Degrees(st.Rotation.Y), st.Battery))
}
