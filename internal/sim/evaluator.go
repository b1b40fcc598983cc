package sim

import (
	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/events"
)

// CheckAndCompleteObjectives evaluates the active challenge and publishes an
// event for each newly completed objective, followed by a single challenge
// completion event once every objective is done. Repeated calls without a
// state change publish nothing.
func (s *Simulator) CheckAndCompleteObjectives() {
	s.mu.Lock()
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

func (s *Simulator) evaluateLocked() []events.Event {
	if s.active == "" {
		return nil
	}
	ch := s.catalog.Lookup(s.active)
	if ch == nil {
		return nil
	}

	var evs []events.Event
	at := s.now()
	for _, obj := range ch.Objectives {
		if s.tracking.CompletedObjectives[obj.ID] {
			continue
		}
		if !s.satisfiedLocked(obj.Criteria) {
			continue
		}
		s.tracking.CompletedObjectives[obj.ID] = true
		evs = append(evs, events.ObjectiveCompleted{ObjectiveID: obj.ID, ChallengeID: ch.ID, At: at})
	}

	if s.tracking.CompletedChallenges[ch.ID] {
		return evs
	}
	for _, obj := range ch.Objectives {
		if !s.tracking.CompletedObjectives[obj.ID] {
			return evs
		}
	}
	s.tracking.CompletedChallenges[ch.ID] = true
	return append(evs, events.ChallengeCompleted{ChallengeID: ch.ID, At: at})
}

func (s *Simulator) satisfiedLocked(c challenge.Criteria) bool {
	switch c.Type {
	case challenge.CriteriaTheory:
		return s.tracking.ViewedTheory[c.Theory]
	case challenge.CriteriaDistanceForward:
		return s.tracking.MaxForwardDistance >= c.Threshold
	case challenge.CriteriaRotationAngle:
		return s.tracking.TotalRotationAngle >= c.Threshold
	case challenge.CriteriaSensorRead:
		return s.tracking.SensorReads > 0
	case challenge.CriteriaPositionReached:
		if c.Target == nil {
			return false
		}
		return s.state.Position.PlanarDistance(c.Target.X, c.Target.Z) <= c.Target.Tolerance
	case challenge.CriteriaGrabbedObject:
		return s.state.Grabbing
	default:
		return false
	}
}

// SetActiveChallenge makes id the challenge under evaluation. Switching from
// one challenge to another starts a new attempt, clearing per-attempt
// metrics. An empty id clears the active challenge. Unknown IDs are ignored.
func (s *Simulator) SetActiveChallenge(id string) {
	if id != "" && s.catalog.Lookup(id) == nil {
		s.logger.Printf("set challenge: unknown challenge %q ignored", id)
		return
	}

	s.mu.Lock()
	if s.active != "" && s.active != id {
		s.tracking.resetAttempt()
	}
	s.active = id
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// MarkTheoryViewed records that theory topic was read, then evaluates.
func (s *Simulator) MarkTheoryViewed(topic string) {
	s.mu.Lock()
	s.tracking.ViewedTheory[topic] = true
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// UnlockHint reveals a challenge hint and returns the points charged.
// Unlocking an already revealed hint is free. ok is false for unknown hints.
func (s *Simulator) UnlockHint(challengeID, hintID string) (cost int, ok bool) {
	ch := s.catalog.Lookup(challengeID)
	if ch == nil {
		return 0, false
	}
	h, ok := ch.HintByID(hintID)
	if !ok {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := hintKey(challengeID, hintID)
	if s.tracking.UnlockedHints[key] {
		return 0, true
	}
	s.tracking.UnlockedHints[key] = true
	return h.UnlockCost, true
}

// IsHintUnlocked reports whether a hint has been revealed.
func (s *Simulator) IsHintUnlocked(challengeID, hintID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking.UnlockedHints[hintKey(challengeID, hintID)]
}

// HintPointsSpent sums the cost of every revealed hint.
func (s *Simulator) HintPointsSpent() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, ch := range s.catalog.All() {
		for _, h := range ch.Hints {
			if s.tracking.UnlockedHints[hintKey(ch.ID, h.ID)] {
				total += h.UnlockCost
			}
		}
	}
	return total
}

// RestoreSets merges persisted completion sets into tracking. Used at start
// before any motion; it never publishes events.
func (s *Simulator) RestoreSets(sets Sets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addAll(s.tracking.CompletedObjectives, sets.CompletedObjectives)
	addAll(s.tracking.CompletedChallenges, sets.CompletedChallenges)
	addAll(s.tracking.ViewedTheory, sets.ViewedTheory)
	addAll(s.tracking.UnlockedHints, sets.UnlockedHints)
}
