// Package theory implements the study screen: paged theory sections
// followed by the challenge quiz.
package theory

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/ui/components"
	"github.com/abhisek/robosim/internal/ui/layout"
	"github.com/abhisek/robosim/internal/ui/theme"
)

type phase int

const (
	phaseReading phase = iota
	phaseQuiz
	phaseScore
)

// Screen pages through a challenge's theory sections, then runs its quiz.
type Screen struct {
	env *screen.Env
	ch  *challenge.Challenge

	phase   phase
	section int

	question int
	choice   components.MultiChoice
	answers  []string
}

var _ screen.Screen = (*Screen)(nil)

// New returns the theory screen for ch.
func New(env *screen.Env, ch *challenge.Challenge) *Screen {
	return &Screen{env: env, ch: ch}
}

// Init records the topic as viewed, which may complete theory objectives.
func (s *Screen) Init() tea.Cmd {
	if s.ch.Theory.Topic == "" {
		return nil
	}
	s.env.Sim.MarkTheoryViewed(s.ch.Theory.Topic)
	return s.env.SaveProgress()
}

func (s *Screen) Title() string { return "Theory: " + s.ch.Title }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuiz:
		if s.choice.Submitted {
			return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Back"}}
		}
		return []layout.KeyHint{{Key: "A-D", Description: "Answer"}, {Key: "Esc", Description: "Back"}}
	case phaseScore:
		return []layout.KeyHint{{Key: "r", Description: "Retry quiz"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

// Score returns correct answers so far and the quiz length.
func (s *Screen) Score() (int, int) {
	return challenge.QuizScore(s.ch.Theory.Quiz, s.answers), len(s.ch.Theory.Quiz)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch s.phase {
	case phaseReading:
		s.updateReading(kmsg.String())
	case phaseQuiz:
		s.updateQuiz(kmsg)
	case phaseScore:
		if kmsg.String() == "r" {
			s.startQuiz()
		}
	}
	return s, nil
}

func (s *Screen) updateReading(key string) {
	switch key {
	case "left", "h":
		if s.section > 0 {
			s.section--
		}
	case "right", "l", "enter", "space":
		if s.section < len(s.ch.Theory.Sections)-1 {
			s.section++
		} else if len(s.ch.Theory.Quiz) > 0 {
			s.startQuiz()
		}
	}
}

func (s *Screen) startQuiz() {
	s.phase = phaseQuiz
	s.question = 0
	s.answers = s.answers[:0]
	s.loadQuestion()
}

func (s *Screen) loadQuestion() {
	q := s.ch.Theory.Quiz[s.question]
	s.choice = components.NewMultiChoice(q.Question, q.Options, q.CorrectAnswer)
}

func (s *Screen) updateQuiz(kmsg tea.KeyMsg) {
	if !s.choice.Submitted {
		s.choice, _ = s.choice.Update(kmsg)
		if s.choice.Submitted {
			s.answers = append(s.answers, s.choice.Chosen())
		}
		return
	}
	switch kmsg.String() {
	case "enter", "right", "space":
		if s.question < len(s.ch.Theory.Quiz)-1 {
			s.question++
			s.loadQuestion()
		} else {
			s.phase = phaseScore
		}
	}
}

func (s *Screen) View(width, height int) string {
	contentWidth := min(width-6, 76)
	var body string
	switch s.phase {
	case phaseQuiz:
		body = s.viewQuiz(contentWidth)
	case phaseScore:
		body = s.viewScore()
	default:
		body = s.viewSection(contentWidth)
	}
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		lipgloss.NewStyle().PaddingLeft(2).PaddingTop(1).Render(body))
}

func (s *Screen) viewSection(width int) string {
	sections := s.ch.Theory.Sections
	if len(sections) == 0 {
		return theme.Dim.Render("No theory material for this challenge.")
	}
	sec := sections[s.section]

	var b strings.Builder
	b.WriteString(theme.Title.Render(sec.Title))
	b.WriteString("  ")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%d/%d", s.section+1, len(sections))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(sec.Content))
	b.WriteString("\n")

	for _, ex := range sec.Examples {
		b.WriteString("\n")
		b.WriteString(theme.Section.Render(ex.Title))
		b.WriteString("\n")
		b.WriteString(theme.Card.Width(width).Render(theme.Code.Render(strings.TrimRight(ex.Code, "\n"))))
		b.WriteString("\n")
		if ex.Explanation != "" {
			b.WriteString(theme.Hint.Width(width).Render(ex.Explanation))
			b.WriteString("\n")
		}
	}

	if s.section == len(sections)-1 && len(s.ch.Theory.Quiz) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render("Press → to take the quiz."))
	}
	return b.String()
}

func (s *Screen) viewQuiz(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz"))
	b.WriteString("  ")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("question %d of %d", s.question+1, len(s.ch.Theory.Quiz))))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.choice.Submitted {
		b.WriteString("\n")
		if s.choice.IsCorrect() {
			b.WriteString(theme.Done.Bold(true).Render("Correct!"))
		} else {
			b.WriteString(theme.Failed.Render("Not quite."))
		}
		b.WriteString("\n")
		if exp := s.ch.Theory.Quiz[s.question].Explanation; exp != "" {
			b.WriteString(theme.Hint.Width(width).Render(exp))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *Screen) viewScore() string {
	score, total := s.Score()
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete"))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar(score, total, 30).View())
	b.WriteString("  ")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d of %d correct", score, total)))
	b.WriteString("\n")
	return b.String()
}
