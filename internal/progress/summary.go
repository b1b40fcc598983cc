package progress

import (
	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/sim"
)

// ChallengeSummary is one row of the progress report.
type ChallengeSummary struct {
	ID             string
	Title          string
	Category       challenge.Category
	Status         challenge.Status
	ObjectivesDone int
	ObjectivesAll  int
}

// Summary aggregates a learner's progress over a catalog.
type Summary struct {
	Challenges          []ChallengeSummary
	CompletedChallenges int
	CompletedObjectives int
	TotalObjectives     int
	TheoryViewed        int
	HintsUnlocked       int
	HintPointsSpent     int
}

// Percent returns completed objectives as a percentage of all objectives.
func (s Summary) Percent() float64 {
	if s.TotalObjectives == 0 {
		return 0
	}
	return float64(s.CompletedObjectives) / float64(s.TotalObjectives) * 100
}

// Summarize builds a Summary of t against cat.
func Summarize(cat *challenge.Catalog, t sim.Tracking) Summary {
	var sum Summary
	for _, ch := range cat.All() {
		done, all := cat.ObjectiveProgress(ch.ID, t)
		status := cat.StatusOf(ch.ID, t)
		sum.Challenges = append(sum.Challenges, ChallengeSummary{
			ID:             ch.ID,
			Title:          ch.Title,
			Category:       ch.Category,
			Status:         status,
			ObjectivesDone: done,
			ObjectivesAll:  all,
		})
		if status == challenge.StatusCompleted {
			sum.CompletedChallenges++
		}
		sum.CompletedObjectives += done
		sum.TotalObjectives += all

		for _, h := range ch.Hints {
			if t.HintUnlocked(ch.ID, h.ID) {
				sum.HintsUnlocked++
				sum.HintPointsSpent += h.UnlockCost
			}
		}
	}
	for _, ok := range t.ViewedTheory {
		if ok {
			sum.TheoryViewed++
		}
	}
	return sum
}
