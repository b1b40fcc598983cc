package challenge

import "github.com/abhisek/robosim/internal/robot"

// Category groups challenges by application domain.
type Category string

const (
	CategoryIntro         Category = "intro"
	CategoryWarehouse     Category = "warehouse"
	CategorySurgery       Category = "surgery"
	CategorySearchRescue  Category = "search_rescue"
	CategoryManufacturing Category = "manufacturing"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryIntro,
		CategoryWarehouse,
		CategorySurgery,
		CategorySearchRescue,
		CategoryManufacturing,
	}
}

// DisplayName returns a human-readable name for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryIntro:
		return "Introduction"
	case CategoryWarehouse:
		return "Warehouse"
	case CategorySurgery:
		return "Surgery"
	case CategorySearchRescue:
		return "Search & Rescue"
	case CategoryManufacturing:
		return "Manufacturing"
	default:
		return string(c)
	}
}

// Difficulty is the advertised difficulty of a challenge.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// CriteriaType is the kind of measurement an objective checks.
type CriteriaType string

const (
	CriteriaTheory          CriteriaType = "theory"
	CriteriaDistanceForward CriteriaType = "distance_forward"
	CriteriaRotationAngle   CriteriaType = "rotation_angle"
	CriteriaSensorRead      CriteriaType = "sensor_read"
	CriteriaPositionReached CriteriaType = "position_reached"
	CriteriaGrabbedObject   CriteriaType = "grabbed_object"
)

// Known reports whether t is a criteria type the evaluator understands.
func (t CriteriaType) Known() bool {
	switch t {
	case CriteriaTheory, CriteriaDistanceForward, CriteriaRotationAngle,
		CriteriaSensorRead, CriteriaPositionReached, CriteriaGrabbedObject:
		return true
	}
	return false
}

// Target is a ground-plane goal with a tolerance radius.
type Target struct {
	X         float64 `json:"x"`
	Z         float64 `json:"z"`
	Tolerance float64 `json:"tolerance"`
}

// Criteria describes when an objective is satisfied. Only the field matching
// Type is meaningful.
type Criteria struct {
	Type      CriteriaType `json:"type"`
	Theory    string       `json:"theory,omitempty"`
	Threshold float64      `json:"threshold,omitempty"`
	Target    *Target      `json:"target,omitempty"`
}

// Objective is a single completable goal within a challenge.
type Objective struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Criteria    Criteria `json:"criteria"`
	Hints       []string `json:"hints,omitempty"`
	Theory      string   `json:"theory,omitempty"`
}

// Hint is a challenge-level tip that costs points to reveal.
type Hint struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	UnlockCost int    `json:"unlock_cost"`
}

// Example is a worked code example inside a theory section.
type Example struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Section is one page of theory material.
type Section struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Examples []Example `json:"examples,omitempty"`
}

// QuizQuestion is a multiple-choice question with one correct option.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Theory is the study material attached to a challenge. Topic is the ID
// recorded in the viewed-theory set when the material is opened.
type Theory struct {
	Topic    string         `json:"topic"`
	Sections []Section      `json:"sections"`
	Quiz     []QuizQuestion `json:"quiz,omitempty"`
}

// StartingCode seeds each editor when a challenge is opened.
type StartingCode struct {
	NaturalLanguage string `json:"natural_language"`
	Lua             string `json:"lua"`
}

// Challenge is an immutable catalog entry.
type Challenge struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Category      Category     `json:"category"`
	Difficulty    Difficulty   `json:"difficulty"`
	EstimatedMins int          `json:"estimated_mins"`
	RobotType     robot.Type   `json:"robot_type"`
	EnvironmentID string       `json:"environment_id"`
	Objectives    []Objective  `json:"objectives"`
	Prerequisites []string     `json:"prerequisites,omitempty"`
	Hints         []Hint       `json:"hints,omitempty"`
	Theory        Theory       `json:"theory"`
	StartingCode  StartingCode `json:"starting_code"`
}

// ObjectiveIDs returns the IDs of c's objectives in order.
func (c *Challenge) ObjectiveIDs() []string {
	ids := make([]string, len(c.Objectives))
	for i, o := range c.Objectives {
		ids[i] = o.ID
	}
	return ids
}

// HintByID returns the hint with the given ID.
func (c *Challenge) HintByID(id string) (Hint, bool) {
	for _, h := range c.Hints {
		if h.ID == id {
			return h, true
		}
	}
	return Hint{}, false
}
