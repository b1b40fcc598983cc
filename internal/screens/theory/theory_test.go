package theory

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/robosim/internal/screen"
	"github.com/abhisek/robosim/internal/sim"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T, id string) (*Screen, *sim.Simulator) {
	t.Helper()
	s := sim.New(sim.Options{
		Logger:       log.New(io.Discard, "", 0),
		TickInterval: time.Millisecond,
	})
	t.Cleanup(s.Close)
	s.SetActiveChallenge(id)
	return New(&screen.Env{Sim: s}, s.Catalog().Lookup(id)), s
}

func TestTheoryScreen_InitMarksViewed(t *testing.T) {
	scr, s := testScreen(t, "intro-1")

	cmd := scr.Init()
	if !s.Tracking().ViewedTheory["movement_basics"] {
		t.Error("topic should be marked viewed")
	}
	if !s.Tracking().IsObjectiveCompleted("obj1") {
		t.Error("theory objective should complete on open")
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if _, ok := cmd().(screen.ProgressChangedMsg); !ok {
		t.Error("save should report ProgressChangedMsg")
	}
}

func TestTheoryScreen_Paging(t *testing.T) {
	scr, _ := testScreen(t, "intro-1")

	if !strings.Contains(scr.View(100, 40), "Understanding Robot Movement") {
		t.Error("first section should be shown")
	}
	scr.Update(specialKey(tea.KeyLeft))
	if scr.section != 0 {
		t.Errorf("section = %d, want 0", scr.section)
	}
	scr.Update(specialKey(tea.KeyRight))
	if scr.section != 1 {
		t.Errorf("section = %d, want 1", scr.section)
	}
	if !strings.Contains(scr.View(100, 40), "Basic Movement Commands") {
		t.Error("second section should be shown")
	}
	scr.Update(keyPress('h'))
	if scr.section != 0 {
		t.Errorf("section = %d after h, want 0", scr.section)
	}
}

func TestTheoryScreen_Quiz(t *testing.T) {
	scr, _ := testScreen(t, "intro-1")

	scr.Update(specialKey(tea.KeyRight))
	scr.Update(specialKey(tea.KeyRight))
	if scr.phase != phaseQuiz {
		t.Fatalf("phase = %d, want quiz", scr.phase)
	}

	// "speed" is option B.
	scr.Update(keyPress('b'))
	if !scr.choice.IsCorrect() {
		t.Error("b should be correct")
	}
	if !strings.Contains(scr.View(100, 40), "Correct!") {
		t.Error("feedback should be shown")
	}
	scr.Update(specialKey(tea.KeyEnter))

	// "Seconds" is wrong; the answer is Milliseconds.
	scr.Update(keyPress('a'))
	if scr.choice.IsCorrect() {
		t.Error("a should be wrong")
	}
	scr.Update(specialKey(tea.KeyEnter))

	if scr.phase != phaseScore {
		t.Fatalf("phase = %d, want score", scr.phase)
	}
	if got, total := scr.Score(); got != 1 || total != 2 {
		t.Errorf("score = %d/%d, want 1/2", got, total)
	}
	if !strings.Contains(scr.View(100, 40), "1 of 2 correct") {
		t.Error("score should be shown")
	}

	scr.Update(keyPress('r'))
	if scr.phase != phaseQuiz || scr.question != 0 {
		t.Error("r should restart the quiz")
	}
	if got, _ := scr.Score(); got != 0 {
		t.Errorf("score after retry = %d", got)
	}
}
