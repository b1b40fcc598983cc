package sim

import (
	"context"
	"math"
	"time"

	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/robot"
)

// batteryDrainPerTick is the battery percentage consumed by one motion tick.
const batteryDrainPerTick = 0.01

// defaultRotateSpeed is used by SimulateRotation when no speed is given.
const defaultRotateSpeed = 0.5

// motion is one running ticker. stop is closed by whoever cancels it; done is
// closed by the ticker goroutine on exit.
type motion struct {
	stop chan struct{}
	done chan struct{}
	// ticks is the remaining tick budget; negative means unlimited.
	ticks int
	apply func() bool
}

// Move starts continuous movement in direction d at speed (clamped to [0, 1]).
// Drone up/down adjusts altitude immediately instead of starting a ticker.
func (s *Simulator) Move(d robot.Direction, speed float64) {
	s.mu.Lock()
	_, evs := s.startMoveLocked(d, speed, -1)
	s.mu.Unlock()
	s.publish(evs)
}

// Rotate starts continuous rotation left or right at speed.
func (s *Simulator) Rotate(d robot.Direction, speed float64) {
	s.mu.Lock()
	s.startRotateLocked(d, speed, -1)
	s.mu.Unlock()
}

// Stop cancels movement and rotation immediately.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.cancelMovementLocked()
	s.cancelRotationLocked()
	s.mu.Unlock()
}

// SimulateMovement moves in direction d for duration and blocks until the
// movement finishes or ctx is done. Vertical drone movement applies one
// altitude step per elapsed tick without waiting.
func (s *Simulator) SimulateMovement(ctx context.Context, d robot.Direction, speed float64, duration time.Duration) error {
	ticks := s.ticksFor(duration)

	s.mu.Lock()
	if d.Vertical() {
		var evs []events.Event
		for range max(ticks, 1) {
			_, step := s.startMoveLocked(d, speed, 0)
			evs = append(evs, step...)
		}
		s.mu.Unlock()
		s.publish(evs)
		return nil
	}
	m, evs := s.startMoveLocked(d, speed, ticks)
	s.mu.Unlock()
	s.publish(evs)

	return s.await(ctx, m, func() { s.cancelMovementLocked() }, func() *motion { return s.movement })
}

// SimulateRotation turns through degrees in direction d at speed, blocking
// until the turn completes or ctx is done. A non-positive speed uses 0.5.
func (s *Simulator) SimulateRotation(ctx context.Context, d robot.Direction, degrees, speed float64) error {
	if speed <= 0 {
		speed = defaultRotateSpeed
	}
	speed = clampSpeed(speed)

	s.mu.Lock()
	kin := robot.KinematicsFor(s.state.Type)
	dur := kin.RotateDuration(robot.Radians(math.Abs(degrees)), speed, s.tick)
	m := s.startRotateLocked(d, speed, s.ticksFor(dur))
	s.mu.Unlock()

	return s.await(ctx, m, func() { s.cancelRotationLocked() }, func() *motion { return s.rotation })
}

// await blocks until m finishes or ctx ends. On cancellation the motion is
// stopped if it is still the current one.
func (s *Simulator) await(ctx context.Context, m *motion, cancel func(), current func() *motion) error {
	if m == nil {
		return nil
	}
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		if current() == m {
			cancel()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

func (s *Simulator) ticksFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(s.tick)))
}

// startMoveLocked returns the started motion, or nil when the command was
// applied synchronously or rejected.
func (s *Simulator) startMoveLocked(d robot.Direction, speed float64, ticks int) (*motion, []events.Event) {
	if s.closed {
		return nil, nil
	}
	if _, ok := robot.ParseDirection(string(d)); !ok {
		s.logger.Printf("move: unknown direction %q ignored", d)
		return nil, nil
	}
	if s.state.Battery <= 0 {
		s.recordErrorLocked("move: battery depleted")
		return nil, nil
	}

	if d.Vertical() {
		if s.state.Type != robot.TypeDrone {
			s.logger.Printf("move: %s cannot move %s", s.state.Type, d)
			return nil, nil
		}
		s.stepAltitudeLocked(d)
		return nil, s.evaluateLocked()
	}

	speed = clampSpeed(speed)
	kin := robot.KinematicsFor(s.state.Type)
	if _, ok := kin.Delta(d, s.state.Rotation.Y, speed); !ok {
		s.logger.Printf("move: %s cannot move %s", s.state.Type, d)
		return nil, nil
	}
	if ticks == 0 {
		return nil, nil
	}

	s.markMovedLocked(d)
	s.cancelMovementLocked()
	m := &motion{
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		ticks: ticks,
	}
	m.apply = func() bool { return s.moveTickLocked(kin, d, speed) }
	s.movement = m
	s.state.Moving = true
	s.launch(m, func() *motion { return s.movement }, func() { s.movement = nil })
	return m, nil
}

func (s *Simulator) startRotateLocked(d robot.Direction, speed float64, ticks int) *motion {
	if s.closed {
		return nil
	}
	if d != robot.Left && d != robot.Right {
		s.logger.Printf("rotate: unsupported direction %q ignored", d)
		return nil
	}
	if s.state.Battery <= 0 {
		s.recordErrorLocked("rotate: battery depleted")
		return nil
	}
	if ticks == 0 {
		return nil
	}

	speed = clampSpeed(speed)
	kin := robot.KinematicsFor(s.state.Type)
	if d == robot.Left {
		s.tracking.RotatedLeft = true
	} else {
		s.tracking.RotatedRight = true
	}

	s.cancelRotationLocked()
	m := &motion{
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		ticks: ticks,
	}
	m.apply = func() bool { return s.rotateTickLocked(kin, d, speed) }
	s.rotation = m
	s.state.Moving = true
	s.launch(m, func() *motion { return s.rotation }, func() { s.rotation = nil })
	return m
}

// launch runs m's ticker. Each tick re-checks under the lock that m is still
// the current motion, so no tick lands after cancellation.
func (s *Simulator) launch(m *motion, current func() *motion, clear func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(m.done)

		t := time.NewTicker(s.tick)
		defer t.Stop()

		for {
			select {
			case <-m.stop:
				return
			case <-t.C:
			}

			s.mu.Lock()
			if current() != m {
				s.mu.Unlock()
				return
			}
			ok := m.apply()
			if m.ticks > 0 {
				m.ticks--
			}
			finished := !ok || m.ticks == 0
			if finished {
				clear()
				s.syncMovingLocked()
			}
			evs := s.evaluateLocked()
			s.mu.Unlock()

			s.publish(evs)
			if finished {
				return
			}
		}
	}()
}

func (s *Simulator) moveTickLocked(kin robot.Kinematics, d robot.Direction, speed float64) bool {
	delta, ok := kin.Delta(d, s.state.Rotation.Y, speed)
	if !ok {
		return false
	}
	s.state.Position = s.state.Position.Add(delta)
	s.tracking.TotalDistance += delta.PlanarLength()

	// Forward and backward progress are measured on the world Z axis, not
	// along the heading, so turning first and then driving forward does not
	// count toward distance_forward.
	switch d {
	case robot.Forward:
		s.tracking.MaxForwardDistance = math.Max(s.tracking.MaxForwardDistance, s.state.Position.Z)
	case robot.Backward:
		s.tracking.MaxBackwardDistance = math.Max(s.tracking.MaxBackwardDistance, math.Abs(s.state.Position.Z))
	}
	return s.drainLocked()
}

func (s *Simulator) rotateTickLocked(kin robot.Kinematics, d robot.Direction, speed float64) bool {
	dy, ok := kin.YawDelta(d, speed)
	if !ok {
		return false
	}
	s.state.Rotation.Y = robot.WrapYaw(s.state.Rotation.Y + dy)
	s.tracking.TotalRotationAngle += math.Abs(dy)
	return s.drainLocked()
}

// drainLocked consumes battery for one tick and reports whether the robot
// may keep moving.
func (s *Simulator) drainLocked() bool {
	s.state.Battery = math.Max(0, s.state.Battery-batteryDrainPerTick)
	if s.state.Battery <= 0 {
		s.recordErrorLocked("battery depleted, motion stopped")
		return false
	}
	return true
}

func (s *Simulator) stepAltitudeLocked(d robot.Direction) {
	step := robot.AltitudeStep
	if d == robot.Down {
		step = -step
	}
	lim, _ := robot.LimitFor(robot.JointAltitude)
	alt := lim.Clamp(s.state.Joints[robot.JointAltitude] + step)
	s.state.Joints[robot.JointAltitude] = alt
	s.state.Position.Y = alt
	s.tracking.Hovered = true
}

func (s *Simulator) markMovedLocked(d robot.Direction) {
	switch d {
	case robot.Forward:
		s.tracking.MovedForward = true
	case robot.Backward:
		s.tracking.MovedBackward = true
	case robot.Left:
		s.tracking.MovedLeft = true
	case robot.Right:
		s.tracking.MovedRight = true
	}
}

// cancelMovementLocked stops the movement ticker without waiting for it;
// the goroutine observes the closed stop channel or the cleared slot.
func (s *Simulator) cancelMovementLocked() {
	if s.movement != nil {
		close(s.movement.stop)
		s.movement = nil
	}
	s.syncMovingLocked()
}

func (s *Simulator) cancelRotationLocked() {
	if s.rotation != nil {
		close(s.rotation.stop)
		s.rotation = nil
	}
	s.syncMovingLocked()
}

func (s *Simulator) syncMovingLocked() {
	s.state.Moving = s.movement != nil || s.rotation != nil
}

// MoveJoint nudges an arm joint by one step. Forward, right and up increase
// the angle; backward, left and down decrease it. The result is clamped to
// the joint's limits.
func (s *Simulator) MoveJoint(j robot.Joint, d robot.Direction) {
	s.mu.Lock()
	if s.state.Type != robot.TypeArm {
		s.logger.Printf("move joint: %s has no joints", s.state.Type)
		s.mu.Unlock()
		return
	}
	lim, ok := robot.LimitFor(j)
	if !ok || j == robot.JointAltitude {
		s.logger.Printf("move joint: unknown joint %q ignored", j)
		s.mu.Unlock()
		return
	}

	var step float64
	switch d {
	case robot.Forward, robot.Right, robot.Up:
		step = robot.JointStep
	case robot.Backward, robot.Left, robot.Down:
		step = -robot.JointStep
	default:
		s.logger.Printf("move joint: unknown direction %q ignored", d)
		s.mu.Unlock()
		return
	}
	s.state.Joints[j] = lim.Clamp(s.state.Joints[j] + step)
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// Hover lifts a drone to cruising altitude.
func (s *Simulator) Hover() {
	s.mu.Lock()
	if s.state.Type != robot.TypeDrone {
		s.logger.Printf("hover: %s cannot fly", s.state.Type)
		s.mu.Unlock()
		return
	}
	s.state.Position.Y = 1.5
	s.state.Joints[robot.JointAltitude] = 1.5
	s.tracking.Hovered = true
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// Land puts a drone on the ground and stops it.
func (s *Simulator) Land() {
	s.mu.Lock()
	if s.state.Type != robot.TypeDrone {
		s.logger.Printf("land: %s cannot fly", s.state.Type)
		s.mu.Unlock()
		return
	}
	s.cancelMovementLocked()
	s.cancelRotationLocked()
	s.state.Position.Y = 0
	s.state.Joints[robot.JointAltitude] = 0.1
	s.tracking.Landed = true
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// Grab closes the gripper.
func (s *Simulator) Grab() {
	s.mu.Lock()
	s.state.Grabbing = true
	s.tracking.Grabbed = true
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// Release opens the gripper. Objectives already completed stay completed.
func (s *Simulator) Release() {
	s.mu.Lock()
	s.state.Grabbing = false
	s.tracking.Released = true
	evs := s.evaluateLocked()
	s.mu.Unlock()
	s.publish(evs)
}

// Moving reports whether any motion ticker is active.
func (s *Simulator) Moving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Moving
}

func clampSpeed(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
