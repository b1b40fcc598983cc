package robot

import (
	"math"
	"time"
)

// Direction is a movement or rotation command direction.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
	Left     Direction = "left"
	Right    Direction = "right"
	Up       Direction = "up"
	Down     Direction = "down"
)

// ParseDirection returns the Direction named by s.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case Forward, Backward, Left, Right, Up, Down:
		return d, true
	}
	return "", false
}

// Vertical reports whether d changes altitude rather than ground position.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// Kinematics holds the per-tick motion steps for a robot type.
type Kinematics struct {
	// MoveStep is the distance travelled per tick at speed 1.0.
	MoveStep float64
	// RotateStep is the yaw change in radians per tick at speed 1.0.
	RotateStep float64
	// Strafe allows sideways movement perpendicular to the heading.
	Strafe bool
	// Mobile is false for robots bolted to the floor.
	Mobile bool
}

// KinematicsFor returns the motion profile of robot type t.
func KinematicsFor(t Type) Kinematics {
	switch t {
	case TypeExplorer:
		return Kinematics{MoveStep: 0.12, RotateStep: 0.08, Strafe: true, Mobile: true}
	case TypeArm:
		return Kinematics{MoveStep: 0, RotateStep: 0.05, Mobile: false}
	default:
		return Kinematics{MoveStep: 0.1, RotateStep: 0.05, Mobile: true}
	}
}

// Delta returns the world-frame displacement of one tick moving in direction d
// with heading yaw. ok is false when the robot cannot move that way.
func (k Kinematics) Delta(d Direction, yaw, speed float64) (delta Vec3, ok bool) {
	if !k.Mobile {
		return Vec3{}, false
	}
	step := k.MoveStep * speed
	sin, cos := math.Sin(yaw), math.Cos(yaw)

	switch d {
	case Forward:
		return Vec3{X: sin * step, Z: cos * step}, true
	case Backward:
		return Vec3{X: -sin * step, Z: -cos * step}, true
	case Left:
		if !k.Strafe {
			return Vec3{}, false
		}
		return Vec3{X: -cos * step, Z: sin * step}, true
	case Right:
		if !k.Strafe {
			return Vec3{}, false
		}
		return Vec3{X: cos * step, Z: -sin * step}, true
	}
	return Vec3{}, false
}

// YawDelta returns the signed yaw change of one rotation tick. Left is
// counter-clockwise (positive).
func (k Kinematics) YawDelta(d Direction, speed float64) (float64, bool) {
	step := k.RotateStep * speed
	switch d {
	case Left:
		return step, true
	case Right:
		return -step, true
	}
	return 0, false
}

// MoveDuration returns how long a robot must move at speed to cover distance
// when ticking every tick.
func (k Kinematics) MoveDuration(distance, speed float64, tick time.Duration) time.Duration {
	perTick := k.MoveStep * speed
	if perTick <= 0 || distance <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(distance/perTick)) * tick
}

// RotateDuration returns how long a robot must rotate at speed to turn
// through radians when ticking every tick.
func (k Kinematics) RotateDuration(radians, speed float64, tick time.Duration) time.Duration {
	perTick := k.RotateStep * speed
	if perTick <= 0 || radians <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(radians/perTick)) * tick
}

// WrapYaw keeps yaw within (-2π, 2π), matching a floating-point modulo.
func WrapYaw(yaw float64) float64 {
	return math.Mod(yaw, 2*math.Pi)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func hypot(a, b float64) float64 {
	return math.Sqrt(a*a + b*b)
}
