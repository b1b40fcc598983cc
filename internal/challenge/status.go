package challenge

// Status is the derived state of a challenge for a learner.
type Status int

const (
	StatusLocked Status = iota
	StatusUnlocked
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusLocked:
		return "locked"
	case StatusUnlocked:
		return "unlocked"
	case StatusInProgress:
		return "in progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Progress answers completion queries. It is satisfied by the simulator's
// tracking record.
type Progress interface {
	IsChallengeCompleted(id string) bool
	IsObjectiveCompleted(id string) bool
}

// IsUnlocked reports whether every prerequisite of challenge id is completed.
// Challenges without prerequisites are always unlocked; unknown IDs never are.
func (c *Catalog) IsUnlocked(id string, p Progress) bool {
	ch := c.Lookup(id)
	if ch == nil {
		return false
	}
	for _, pre := range ch.Prerequisites {
		if !p.IsChallengeCompleted(pre) {
			return false
		}
	}
	return true
}

// StatusOf derives the status of challenge id from p.
func (c *Catalog) StatusOf(id string, p Progress) Status {
	ch := c.Lookup(id)
	switch {
	case ch == nil:
		return StatusLocked
	case p.IsChallengeCompleted(id):
		return StatusCompleted
	case !c.IsUnlocked(id, p):
		return StatusLocked
	}
	for _, obj := range ch.Objectives {
		if p.IsObjectiveCompleted(obj.ID) {
			return StatusInProgress
		}
	}
	return StatusUnlocked
}

// ObjectiveProgress returns how many of challenge id's objectives are done.
func (c *Catalog) ObjectiveProgress(id string, p Progress) (done, total int) {
	ch := c.Lookup(id)
	if ch == nil {
		return 0, 0
	}
	for _, obj := range ch.Objectives {
		if p.IsObjectiveCompleted(obj.ID) {
			done++
		}
	}
	return done, len(ch.Objectives)
}
