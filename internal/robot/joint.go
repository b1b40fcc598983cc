package robot

import "math"

// Joint names an articulated degree of freedom.
type Joint string

const (
	JointBase     Joint = "base"
	JointShoulder Joint = "shoulder"
	JointElbow    Joint = "elbow"
	JointWrist    Joint = "wrist"
	JointAltitude Joint = "altitude"
)

// JointStep is the angle change applied by a single joint command.
const JointStep = 0.05

// AltitudeStep is the climb or descent of a single drone up/down command.
const AltitudeStep = 0.05

// Limit is an inclusive range for a joint value.
type Limit struct {
	Min float64
	Max float64
}

// Clamp returns v limited to [l.Min, l.Max].
func (l Limit) Clamp(v float64) float64 {
	return math.Max(l.Min, math.Min(v, l.Max))
}

var jointLimits = map[Joint]Limit{
	JointBase:     {Min: -math.Pi, Max: math.Pi},
	JointShoulder: {Min: -math.Pi / 2, Max: math.Pi / 4},
	JointElbow:    {Min: -math.Pi / 2, Max: math.Pi / 2},
	JointWrist:    {Min: -math.Pi, Max: math.Pi},
	JointAltitude: {Min: 0.1, Max: 4.0},
}

// LimitFor returns the limits of joint j. ok is false for unknown joints.
func LimitFor(j Joint) (Limit, bool) {
	l, ok := jointLimits[j]
	return l, ok
}

// ArmJoints returns the joints of the robotic arm in base-to-tip order.
func ArmJoints() []Joint {
	return []Joint{JointBase, JointShoulder, JointElbow, JointWrist}
}
