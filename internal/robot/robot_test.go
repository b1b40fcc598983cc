package robot

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DroneStartsHovering(t *testing.T) {
	s := New(TypeDrone)
	assert.Equal(t, 0.5, s.Position.Y)
	assert.Equal(t, 0.5, s.Joints[JointAltitude])
	assert.Equal(t, 100.0, s.Battery)

	ground := New(TypeTank)
	assert.Zero(t, ground.Position.Y)
}

func TestClone_IsDeep(t *testing.T) {
	s := New(TypeArm)
	c := s.Clone()
	c.Joints[JointElbow] = 1
	c.Errors = append(c.Errors, "boom")

	assert.Zero(t, s.Joints[JointElbow])
	assert.Empty(t, s.Errors)
}

func TestParseType(t *testing.T) {
	for _, rt := range AllTypes() {
		got, ok := ParseType(string(rt))
		require.True(t, ok)
		assert.Equal(t, rt, got)
	}
	_, ok := ParseType("submarine")
	assert.False(t, ok)
}

func TestDelta_ForwardFollowsHeading(t *testing.T) {
	k := KinematicsFor(TypeMobile)

	d, ok := k.Delta(Forward, 0, 1)
	require.True(t, ok)
	assert.InDelta(t, 0, d.X, 1e-9)
	assert.InDelta(t, 0.1, d.Z, 1e-9)

	d, ok = k.Delta(Forward, math.Pi/2, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.1, d.X, 1e-9)
	assert.InDelta(t, 0, d.Z, 1e-9)

	d, ok = k.Delta(Backward, 0, 0.5)
	require.True(t, ok)
	assert.InDelta(t, -0.05, d.Z, 1e-9)
}

func TestDelta_StrafeOnlyForExplorer(t *testing.T) {
	_, ok := KinematicsFor(TypeMobile).Delta(Left, 0, 1)
	assert.False(t, ok)

	d, ok := KinematicsFor(TypeExplorer).Delta(Left, 0, 1)
	require.True(t, ok)
	assert.InDelta(t, -0.12, d.X, 1e-9)
	assert.InDelta(t, 0, d.Z, 1e-9)
}

func TestDelta_ArmDoesNotDrive(t *testing.T) {
	_, ok := KinematicsFor(TypeArm).Delta(Forward, 0, 1)
	assert.False(t, ok)
}

func TestYawDelta(t *testing.T) {
	k := KinematicsFor(TypeExplorer)
	left, ok := k.YawDelta(Left, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.08, left, 1e-9)

	right, ok := k.YawDelta(Right, 0.5)
	require.True(t, ok)
	assert.InDelta(t, -0.04, right, 1e-9)

	_, ok = k.YawDelta(Up, 1)
	assert.False(t, ok)
}

func TestDurations(t *testing.T) {
	k := KinematicsFor(TypeMobile)
	tick := 16 * time.Millisecond

	// 0.05 per tick at half speed: 1 unit takes 20 ticks.
	assert.Equal(t, 20*tick, k.MoveDuration(1, 0.5, tick))
	assert.Zero(t, k.MoveDuration(0, 0.5, tick))

	// 0.025 rad per tick at half speed: a quarter turn takes 63 ticks.
	assert.Equal(t, 63*tick, k.RotateDuration(math.Pi/2, 0.5, tick))
}

func TestLimitClamp(t *testing.T) {
	l, ok := LimitFor(JointShoulder)
	require.True(t, ok)
	assert.Equal(t, math.Pi/4, l.Clamp(2))
	assert.Equal(t, -math.Pi/2, l.Clamp(-5))
	assert.Equal(t, 0.1, l.Clamp(0.1))

	_, ok = LimitFor("knee")
	assert.False(t, ok)
}

func TestPlanarDistance(t *testing.T) {
	v := Vec3{X: 3, Y: 10, Z: 4}
	assert.InDelta(t, 5, v.PlanarLength(), 1e-9)
	assert.InDelta(t, 0, v.PlanarDistance(3, 4), 1e-9)
}
