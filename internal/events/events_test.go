package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	var b Bus
	var got []string
	b.Subscribe(func(Event) { got = append(got, "first") })
	b.Subscribe(func(Event) { got = append(got, "second") })

	b.Publish(ChallengeCompleted{ChallengeID: "intro-1"})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	c := &Collector{}
	unsub := b.Subscribe(c.Handle)
	require.Equal(t, 1, b.Len())

	b.Publish(ObjectiveCompleted{ObjectiveID: "obj1", ChallengeID: "intro-1"})
	unsub()
	unsub()
	b.Publish(ObjectiveCompleted{ObjectiveID: "obj2", ChallengeID: "intro-1"})

	assert.Equal(t, 0, b.Len())
	require.Len(t, c.Events(), 1)
	assert.Equal(t, "obj1", c.Events()[0].(ObjectiveCompleted).ObjectiveID)
}

func TestBus_HandlerMaySubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	b.Subscribe(func(Event) {
		b.Subscribe(func(Event) {})
	})
	assert.NotPanics(t, func() { b.Publish(ChallengeCompleted{}) })
	assert.Equal(t, 2, b.Len())
}

func TestCollector_Count(t *testing.T) {
	c := &Collector{}
	c.Handle(ObjectiveCompleted{})
	c.Handle(ObjectiveCompleted{})
	c.Handle(ChallengeCompleted{})
	assert.Equal(t, 2, c.Count(TypeObjectiveCompleted))
	assert.Equal(t, 1, c.Count(TypeChallengeCompleted))
}
