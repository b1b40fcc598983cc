package script

import (
	"context"
	"time"

	"github.com/Shopify/go-lua"

	"github.com/abhisek/robosim/internal/robot"
)

// binding adapts Robot to Lua calling conventions for one run.
type binding struct {
	ctx   context.Context
	robot Robot
}

func (b *binding) functions() []lua.RegistryFunction {
	sensor := b.getSensor
	return []lua.RegistryFunction{
		{Name: "move", Function: b.move},
		{Name: "rotate", Function: b.rotate},
		{Name: "stop", Function: b.stop},
		{Name: "wait", Function: b.wait},
		{Name: "get_sensor", Function: sensor},
		{Name: "getSensor", Function: sensor},
		{Name: "grab", Function: b.grab},
		{Name: "release", Function: b.release},
		{Name: "hover", Function: b.hover},
		{Name: "land", Function: b.land},
		{Name: "move_joint", Function: b.moveJoint},
		{Name: "position", Function: b.position},
		{Name: "heading", Function: b.heading},
	}
}

// checkCtx raises a Lua error once the run's context is done.
func (b *binding) checkCtx(l *lua.State) {
	if err := b.ctx.Err(); err != nil {
		lua.Errorf(l, "run cancelled: %s", err.Error())
	}
}

// move accepts robot.move{direction=, speed=, duration=} or
// robot.move(direction [, speed [, duration]]). Duration is in milliseconds.
func (b *binding) move(l *lua.State) int {
	b.checkCtx(l)

	var dir string
	speed, ms := DefaultSpeed, float64(DefaultDuration.Milliseconds())
	if l.IsTable(1) {
		dir = fieldString(l, 1, "direction", string(robot.Forward))
		speed = fieldNumber(l, 1, "speed", speed)
		ms = fieldNumber(l, 1, "duration", ms)
	} else {
		dir = lua.CheckString(l, 1)
		speed = lua.OptNumber(l, 2, speed)
		ms = lua.OptNumber(l, 3, ms)
	}

	d := checkDirection(l, dir)
	if ms < 0 {
		lua.Errorf(l, "duration must not be negative")
	}
	if err := b.robot.SimulateMovement(b.ctx, d, speed, time.Duration(ms*float64(time.Millisecond))); err != nil {
		lua.Errorf(l, "move: %s", err.Error())
	}
	return 0
}

// rotate accepts robot.rotate{direction=, angle=, speed=} or
// robot.rotate(direction [, angle [, speed]]). Angle is in degrees.
func (b *binding) rotate(l *lua.State) int {
	b.checkCtx(l)

	var dir string
	angle, speed := DefaultAngle, DefaultSpeed
	if l.IsTable(1) {
		dir = fieldString(l, 1, "direction", string(robot.Right))
		angle = fieldNumber(l, 1, "angle", angle)
		speed = fieldNumber(l, 1, "speed", speed)
	} else {
		dir = lua.CheckString(l, 1)
		angle = lua.OptNumber(l, 2, angle)
		speed = lua.OptNumber(l, 3, speed)
	}

	d := checkDirection(l, dir)
	if d != robot.Left && d != robot.Right {
		lua.Errorf(l, "rotate direction must be left or right, got '%s'", dir)
	}
	if err := b.robot.SimulateRotation(b.ctx, d, angle, speed); err != nil {
		lua.Errorf(l, "rotate: %s", err.Error())
	}
	return 0
}

func (b *binding) stop(l *lua.State) int {
	b.robot.Stop()
	return 0
}

// wait sleeps for the given milliseconds, honoring cancellation.
func (b *binding) wait(l *lua.State) int {
	ms := lua.CheckNumber(l, 1)
	if ms > 0 {
		t := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
		defer t.Stop()
		select {
		case <-t.C:
		case <-b.ctx.Done():
		}
	}
	b.checkCtx(l)
	return 0
}

func (b *binding) getSensor(l *lua.State) int {
	b.checkCtx(l)
	kind := lua.OptString(l, 1, "ultrasonic")
	l.PushNumber(b.robot.ReadSensor(kind))
	return 1
}

func (b *binding) grab(l *lua.State) int {
	b.checkCtx(l)
	b.robot.Grab()
	return 0
}

func (b *binding) release(l *lua.State) int {
	b.checkCtx(l)
	b.robot.Release()
	return 0
}

func (b *binding) hover(l *lua.State) int {
	b.checkCtx(l)
	b.robot.Hover()
	return 0
}

func (b *binding) land(l *lua.State) int {
	b.checkCtx(l)
	b.robot.Land()
	return 0
}

// moveJoint is robot.move_joint(joint, direction).
func (b *binding) moveJoint(l *lua.State) int {
	b.checkCtx(l)
	j := robot.Joint(lua.CheckString(l, 1))
	d := checkDirection(l, lua.CheckString(l, 2))
	b.robot.MoveJoint(j, d)
	return 0
}

// position returns x, y, z.
func (b *binding) position(l *lua.State) int {
	p := b.robot.Robot().Position
	l.PushNumber(p.X)
	l.PushNumber(p.Y)
	l.PushNumber(p.Z)
	return 3
}

// heading returns the yaw in degrees.
func (b *binding) heading(l *lua.State) int {
	l.PushNumber(robot.Degrees(b.robot.Robot().Rotation.Y))
	return 1
}

func checkDirection(l *lua.State, s string) robot.Direction {
	d, ok := robot.ParseDirection(s)
	if !ok {
		lua.Errorf(l, "unknown direction '%s'", s)
	}
	return d
}

func fieldString(l *lua.State, idx int, key, def string) string {
	l.Field(idx, key)
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeString {
		return def
	}
	s, _ := l.ToString(-1)
	return s
}

func fieldNumber(l *lua.State, idx int, key string, def float64) float64 {
	l.Field(idx, key)
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeNumber {
		return def
	}
	n, _ := l.ToNumber(-1)
	return n
}
