// Package script runs learner Lua programs against a robot.
//
// Each run gets a fresh Lua state with only the base, string, table and math
// libraries and a global `robot` table bound to a Robot capability. Errors
// raised by the script, including cancellation, are caught at the boundary
// and reported in Result; they never escape as panics.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shopify/go-lua"
	"github.com/google/uuid"

	"github.com/abhisek/robosim/internal/robot"
)

// Robot is the capability a script is allowed to drive. *sim.Simulator
// implements it.
type Robot interface {
	SimulateMovement(ctx context.Context, d robot.Direction, speed float64, duration time.Duration) error
	SimulateRotation(ctx context.Context, d robot.Direction, degrees, speed float64) error
	Stop()
	ReadSensor(kind string) float64
	Grab()
	Release()
	Hover()
	Land()
	MoveJoint(j robot.Joint, d robot.Direction)
	Robot() robot.State
}

// Defaults applied when a script omits a field.
const (
	DefaultSpeed    = 0.5
	DefaultDuration = time.Second
	DefaultAngle    = 90.0
)

// hookInterval is how many VM instructions run between cancellation checks.
const hookInterval = 1000

// ErrSyntax wraps compile failures so callers can tell them from runtime errors.
var ErrSyntax = errors.New("syntax error")

// Result describes one script run.
type Result struct {
	RunID    string
	Output   string
	Err      error
	Duration time.Duration
}

// OK reports whether the script ran to completion.
func (r Result) OK() bool { return r.Err == nil }

// Runner executes scripts against a Robot. A Runner is safe for sequential
// reuse; each Run builds a new Lua state.
type Runner struct {
	robot Robot
	now   func() time.Time
}

// NewRunner returns a Runner bound to r.
func NewRunner(r Robot) *Runner {
	return &Runner{robot: r, now: time.Now}
}

// Run executes source. The robot is stopped when the script fails.
func (r *Runner) Run(ctx context.Context, source string) Result {
	start := r.now()
	res := Result{RunID: uuid.NewString()}

	var out strings.Builder
	l := r.newState(ctx, &out)

	err := lua.LoadBuffer(l, source, "script", "t")
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSyntax, err)
	} else {
		err = l.ProtectedCall(0, 0, 0)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("script cancelled: %w", ctxErr)
		}
		r.robot.Stop()
	}

	res.Output = out.String()
	res.Err = err
	res.Duration = r.now().Sub(start)
	return res
}

// newState builds a sandboxed Lua state with the robot API installed.
func (r *Runner) newState(ctx context.Context, out *strings.Builder) *lua.State {
	l := lua.NewState()

	for _, lib := range []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "math", Function: lua.MathOpen},
	} {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	// The base library can still reach the filesystem through these.
	for _, name := range []string{"dofile", "loadfile"} {
		l.PushNil()
		l.SetGlobal(name)
	}

	l.Register("print", func(l *lua.State) int {
		n := l.Top()
		for i := 1; i <= n; i++ {
			s, _ := lua.ToStringMeta(l, i)
			l.Pop(1)
			if i > 1 {
				out.WriteByte('\t')
			}
			out.WriteString(s)
		}
		out.WriteByte('\n')
		return 0
	})

	// Pure Lua loops never reach a binding, so cancellation is also
	// checked every hookInterval instructions.
	lua.SetDebugHook(l, func(l *lua.State, _ lua.Debug) {
		if err := ctx.Err(); err != nil {
			lua.Errorf(l, "run cancelled: %s", err.Error())
		}
	}, lua.MaskCount, hookInterval)

	b := &binding{ctx: ctx, robot: r.robot}
	l.NewTable()
	lua.SetFunctions(l, b.functions(), 0)
	l.SetGlobal("robot")

	return l
}
