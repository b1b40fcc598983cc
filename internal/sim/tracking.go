package sim

import (
	"maps"
	"slices"
)

// Tracking accumulates robot behaviour used to evaluate objective criteria.
//
// Scalar metrics belong to the current attempt and are reset when the robot
// is re-selected or a different challenge is started. The completion sets
// only grow, except through ResetProgress.
type Tracking struct {
	TotalDistance       float64
	MaxForwardDistance  float64
	MaxBackwardDistance float64
	TotalRotationAngle  float64
	SensorReads         int

	MovedForward  bool
	MovedBackward bool
	MovedLeft     bool
	MovedRight    bool
	RotatedLeft   bool
	RotatedRight  bool
	Grabbed       bool
	Released      bool
	Hovered       bool
	Landed        bool

	CompletedObjectives map[string]bool
	CompletedChallenges map[string]bool
	ViewedTheory        map[string]bool
	// UnlockedHints is keyed by hintKey(challengeID, hintID).
	UnlockedHints map[string]bool
}

func newTracking() Tracking {
	return Tracking{
		CompletedObjectives: make(map[string]bool),
		CompletedChallenges: make(map[string]bool),
		ViewedTheory:        make(map[string]bool),
		UnlockedHints:       make(map[string]bool),
	}
}

// resetAttempt clears every per-attempt metric and keeps the sets.
func (t *Tracking) resetAttempt() {
	*t = Tracking{
		CompletedObjectives: t.CompletedObjectives,
		CompletedChallenges: t.CompletedChallenges,
		ViewedTheory:        t.ViewedTheory,
		UnlockedHints:       t.UnlockedHints,
	}
}

// Clone returns a deep copy of t.
func (t Tracking) Clone() Tracking {
	c := t
	c.CompletedObjectives = maps.Clone(t.CompletedObjectives)
	c.CompletedChallenges = maps.Clone(t.CompletedChallenges)
	c.ViewedTheory = maps.Clone(t.ViewedTheory)
	c.UnlockedHints = maps.Clone(t.UnlockedHints)
	return c
}

func (t Tracking) IsChallengeCompleted(id string) bool { return t.CompletedChallenges[id] }
func (t Tracking) IsObjectiveCompleted(id string) bool { return t.CompletedObjectives[id] }

// HintUnlocked reports whether hint hintID of challenge challengeID is revealed.
func (t Tracking) HintUnlocked(challengeID, hintID string) bool {
	return t.UnlockedHints[hintKey(challengeID, hintID)]
}

// Sets is the persistent portion of Tracking.
type Sets struct {
	CompletedObjectives []string `json:"completed_objectives"`
	CompletedChallenges []string `json:"completed_challenges"`
	ViewedTheory        []string `json:"viewed_theory"`
	UnlockedHints       []string `json:"unlocked_hints"`
}

// Sets returns the completion sets of t as sorted slices.
func (t Tracking) Sets() Sets {
	return Sets{
		CompletedObjectives: sortedKeys(t.CompletedObjectives),
		CompletedChallenges: sortedKeys(t.CompletedChallenges),
		ViewedTheory:        sortedKeys(t.ViewedTheory),
		UnlockedHints:       sortedKeys(t.UnlockedHints),
	}
}

func hintKey(challengeID, hintID string) string {
	return challengeID + "/" + hintID
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, ok := range m {
		if ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func addAll(dst map[string]bool, ids []string) {
	for _, id := range ids {
		dst[id] = true
	}
}
