package challenge

import (
	"fmt"
	"strings"

	"github.com/abhisek/robosim/internal/robot"
)

// validateChallenges performs all structural checks on a challenge set.
// Returns a combined error describing every problem found.
func validateChallenges(challenges []Challenge) error {
	var errs []string

	idSet := make(map[string]bool, len(challenges))
	objectiveOwner := make(map[string]string)

	for _, ch := range challenges {
		if ch.ID == "" {
			errs = append(errs, "challenge with empty ID")
		}
		if idSet[ch.ID] {
			errs = append(errs, fmt.Sprintf("duplicate challenge ID: %q", ch.ID))
		}
		idSet[ch.ID] = true

		if _, ok := robot.ParseType(string(ch.RobotType)); !ok {
			errs = append(errs, fmt.Sprintf("challenge %q has unknown robot type %q", ch.ID, ch.RobotType))
		}
		if len(ch.Objectives) == 0 {
			errs = append(errs, fmt.Sprintf("challenge %q has no objectives", ch.ID))
		}

		for _, obj := range ch.Objectives {
			if owner, dup := objectiveOwner[obj.ID]; dup {
				errs = append(errs, fmt.Sprintf("objective %q in %q already defined by %q", obj.ID, ch.ID, owner))
			}
			objectiveOwner[obj.ID] = ch.ID
			errs = append(errs, validateCriteria(ch.ID, obj)...)
		}

		hintSet := make(map[string]bool, len(ch.Hints))
		for _, h := range ch.Hints {
			if hintSet[h.ID] {
				errs = append(errs, fmt.Sprintf("challenge %q has duplicate hint %q", ch.ID, h.ID))
			}
			hintSet[h.ID] = true
			if h.UnlockCost < 0 {
				errs = append(errs, fmt.Sprintf("hint %q in %q has negative cost %d", h.ID, ch.ID, h.UnlockCost))
			}
		}
	}

	for _, ch := range challenges {
		for _, pre := range ch.Prerequisites {
			if !idSet[pre] {
				errs = append(errs, fmt.Sprintf("challenge %q references nonexistent prerequisite %q", ch.ID, pre))
			}
		}
	}

	// Cycle check (Kahn)
	inDegree := make(map[string]int, len(challenges))
	adj := make(map[string][]string)
	for _, ch := range challenges {
		inDegree[ch.ID] = len(ch.Prerequisites)
		for _, pre := range ch.Prerequisites {
			adj[pre] = append(adj[pre], ch.ID)
		}
	}
	var queue []string
	for _, ch := range challenges {
		if inDegree[ch.ID] == 0 {
			queue = append(queue, ch.ID)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range adj[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if visited < len(challenges) {
		var cyc []string
		for _, ch := range challenges {
			if inDegree[ch.ID] > 0 {
				cyc = append(cyc, ch.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving challenges: %s", strings.Join(cyc, ", ")))
	}

	hasRoot := false
	for _, ch := range challenges {
		if len(ch.Prerequisites) == 0 {
			hasRoot = true
			break
		}
	}
	if !hasRoot {
		errs = append(errs, "no root challenges found (at least one challenge must have no prerequisites)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("challenge catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateCriteria(challengeID string, obj Objective) []string {
	prefix := fmt.Sprintf("challenge %q objective %q", challengeID, obj.ID)
	c := obj.Criteria

	if !c.Type.Known() {
		return []string{fmt.Sprintf("%s: unknown criteria type %q", prefix, c.Type)}
	}

	switch c.Type {
	case CriteriaTheory:
		if c.Theory == "" {
			return []string{fmt.Sprintf("%s: theory criteria needs a topic", prefix)}
		}
	case CriteriaDistanceForward, CriteriaRotationAngle:
		if c.Threshold <= 0 {
			return []string{fmt.Sprintf("%s: threshold must be > 0, got %f", prefix, c.Threshold)}
		}
	case CriteriaPositionReached:
		if c.Target == nil {
			return []string{fmt.Sprintf("%s: position criteria needs a target", prefix)}
		}
		if c.Target.Tolerance <= 0 {
			return []string{fmt.Sprintf("%s: tolerance must be > 0, got %f", prefix, c.Target.Tolerance)}
		}
	}
	return nil
}
