package robot

import (
	"maps"
	"slices"
)

// Type identifies a robot model.
type Type string

const (
	TypeMobile   Type = "mobile"
	TypeArm      Type = "arm"
	TypeDrone    Type = "drone"
	TypeSpider   Type = "spider"
	TypeTank     Type = "tank"
	TypeExplorer Type = "explorer"
)

// AllTypes returns all robot types in display order.
func AllTypes() []Type {
	return []Type{TypeMobile, TypeArm, TypeDrone, TypeSpider, TypeTank, TypeExplorer}
}

// ParseType returns the Type named by s.
func ParseType(s string) (Type, bool) {
	for _, t := range AllTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DisplayName returns a human-readable name for the robot type.
func (t Type) DisplayName() string {
	switch t {
	case TypeMobile:
		return "Mobile Robot"
	case TypeArm:
		return "Robotic Arm"
	case TypeDrone:
		return "Drone"
	case TypeSpider:
		return "Spider Bot"
	case TypeTank:
		return "Tank"
	case TypeExplorer:
		return "Explorer Bot"
	default:
		return string(t)
	}
}

// droneStartAltitude is the hover height a drone spawns at.
const droneStartAltitude = 0.5

// Vec3 is a point or Euler rotation in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// PlanarLength returns the length of v projected onto the ground (XZ) plane.
func (v Vec3) PlanarLength() float64 {
	return hypot(v.X, v.Z)
}

// PlanarDistance returns the ground-plane distance from v to (x, z).
func (v Vec3) PlanarDistance(x, z float64) float64 {
	return hypot(v.X-x, v.Z-z)
}

// State is the telemetry of a single simulated robot.
type State struct {
	ID       string
	Type     Type
	Position Vec3
	Rotation Vec3
	Joints   map[Joint]float64
	Grabbing bool
	Moving   bool
	Battery  float64
	Errors   []string
}

// New returns the initial state for a freshly selected robot of type t.
func New(t Type) State {
	s := State{
		ID:      string(t) + "-1",
		Type:    t,
		Battery: 100,
		Joints: map[Joint]float64{
			JointBase:     0,
			JointShoulder: 0,
			JointElbow:    0,
			JointWrist:    0,
			JointAltitude: 0,
		},
	}
	if t == TypeDrone {
		s.Position.Y = droneStartAltitude
		s.Joints[JointAltitude] = droneStartAltitude
	}
	return s
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Joints = maps.Clone(s.Joints)
	c.Errors = slices.Clone(s.Errors)
	return c
}
