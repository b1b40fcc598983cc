package challenge

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/robosim/internal/robot"
)

type fakeProgress struct {
	challenges map[string]bool
	objectives map[string]bool
}

func (p fakeProgress) IsChallengeCompleted(id string) bool { return p.challenges[id] }
func (p fakeProgress) IsObjectiveCompleted(id string) bool { return p.objectives[id] }

func obj(id string, c Criteria) Objective {
	return Objective{ID: id, Description: id, Criteria: c}
}

func simple(id string, prereqs ...string) Challenge {
	return Challenge{
		ID:            id,
		Title:         id,
		Category:      CategoryIntro,
		Difficulty:    DifficultyBeginner,
		RobotType:     robot.TypeMobile,
		Prerequisites: prereqs,
		Objectives:    []Objective{obj(id+"-o", Criteria{Type: CriteriaSensorRead})},
	}
}

func TestDefault_SeedCatalogValid(t *testing.T) {
	c := Default()
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 8, c.ObjectiveCount())

	ch, err := c.Get("intro-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"obj1", "obj2", "obj3"}, ch.ObjectiveIDs())
	assert.Equal(t, 5.0, ch.Objectives[1].Criteria.Threshold)
	assert.InDelta(t, math.Pi/2, ch.Objectives[2].Criteria.Threshold, 1e-9)

	assert.Equal(t, []string{"intro-2"}, c.Next("intro-1"))
	assert.Equal(t, []string{"warehouse-1"}, c.Next("intro-2"))
}

func TestGet_NotFound(t *testing.T) {
	_, err := Default().Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestValidate_DetectsCycle(t *testing.T) {
	_, err := NewCatalog([]Challenge{simple("root"), simple("a", "b"), simple("b", "a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidate_DetectsDanglingPrereq(t *testing.T) {
	_, err := NewCatalog([]Challenge{simple("a"), simple("b", "ghost")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidate_DetectsDuplicateIDs(t *testing.T) {
	_, err := NewCatalog([]Challenge{simple("a"), simple("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate challenge ID")
}

func TestValidate_RequiresRoot(t *testing.T) {
	_, err := NewCatalog([]Challenge{simple("a", "b"), simple("b", "a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no root")
}

func TestValidate_Criteria(t *testing.T) {
	tests := []struct {
		name string
		crit Criteria
		want string
	}{
		{"unknown type", Criteria{Type: "teleport"}, "unknown criteria type"},
		{"zero threshold", Criteria{Type: CriteriaDistanceForward}, "threshold must be > 0"},
		{"missing theory topic", Criteria{Type: CriteriaTheory}, "needs a topic"},
		{"missing target", Criteria{Type: CriteriaPositionReached}, "needs a target"},
		{"zero tolerance", Criteria{Type: CriteriaPositionReached, Target: &Target{X: 1}}, "tolerance must be > 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := simple("a")
			ch.Objectives = []Objective{obj("o", tt.crit)}
			_, err := NewCatalog([]Challenge{ch})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ObjectiveIDsUniqueAcrossCatalog(t *testing.T) {
	a, b := simple("a"), simple("b")
	b.Objectives[0].ID = a.Objectives[0].ID
	_, err := NewCatalog([]Challenge{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestStatusOf(t *testing.T) {
	c := Default()
	p := fakeProgress{challenges: map[string]bool{}, objectives: map[string]bool{}}

	assert.Equal(t, StatusUnlocked, c.StatusOf("intro-1", p))
	assert.Equal(t, StatusLocked, c.StatusOf("intro-2", p))
	assert.Equal(t, StatusLocked, c.StatusOf("missing", p))

	p.objectives["obj1"] = true
	assert.Equal(t, StatusInProgress, c.StatusOf("intro-1", p))

	p.challenges["intro-1"] = true
	assert.Equal(t, StatusCompleted, c.StatusOf("intro-1", p))
	assert.Equal(t, StatusUnlocked, c.StatusOf("intro-2", p))
	assert.False(t, c.IsUnlocked("warehouse-1", p))

	done, total := c.ObjectiveProgress("intro-1", p)
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
}

func TestCheckQuizAnswer(t *testing.T) {
	q := QuizQuestion{CorrectAnswer: "Milliseconds"}
	assert.True(t, CheckQuizAnswer(q, "  milliseconds "))
	assert.False(t, CheckQuizAnswer(q, "seconds"))

	ch, err := Default().Get("intro-1")
	require.NoError(t, err)
	assert.Equal(t, 1, QuizScore(ch.Theory.Quiz, []string{"SPEED"}))
	assert.Equal(t, 2, QuizScore(ch.Theory.Quiz, []string{"speed", "Milliseconds"}))
}

func TestLoad_ExportedDefaultCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, Default()))

	c, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), c.All())
}

func TestLoad_RejectsBadDocuments(t *testing.T) {
	const challenge = `{"id":"a","title":"A","category":"intro","difficulty":"beginner","robot_type":"mobile",
		"objectives":[{"id":"o","description":"d","criteria":{"type":"sensor_read"}}]}`

	tests := []struct {
		name string
		doc  string
		is   error
		want string
	}{
		{name: "not json", doc: "{", want: "invalid JSON"},
		{name: "unknown criteria", doc: `{"version":"v1.0.0","challenges":[{"id":"a","title":"A","category":"intro","difficulty":"beginner","robot_type":"mobile","objectives":[{"id":"o","description":"d","criteria":{"type":"fly"}}]}]}`, want: "schema validation failed"},
		{name: "unknown robot", doc: `{"version":"v1.0.0","challenges":[{"id":"a","title":"A","category":"intro","difficulty":"beginner","robot_type":"boat","objectives":[{"id":"o","description":"d","criteria":{"type":"sensor_read"}}]}]}`, want: "schema validation failed"},
		{name: "bad version", doc: `{"version":"latest","challenges":[` + challenge + `]}`, is: ErrInvalidVersion},
		{name: "future major", doc: `{"version":"2.1.0","challenges":[` + challenge + `]}`, is: ErrUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			} else {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_AcceptsVersionWithoutPrefix(t *testing.T) {
	doc := `{"version":"1.2.0","challenges":[{"id":"a","title":"A","category":"intro","difficulty":"beginner","robot_type":"drone",
		"objectives":[{"id":"o","description":"d","criteria":{"type":"grabbed_object"}}]}]}`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	ch, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, robot.TypeDrone, ch.RobotType)
}
