// Package sim owns the simulated robot, its motion tickers and the challenge
// tracking record, and decides when objectives and challenges are complete.
//
// All state is guarded by a single mutex. Movement and rotation are each
// driven by at most one ticker goroutine; starting a new motion of the same
// kind cancels the previous one first. Completion events are published after
// the lock is released so subscribers may call back into the Simulator.
package sim

import (
	"log"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/events"
	"github.com/abhisek/robosim/internal/robot"
)

// DefaultTickInterval approximates a 60Hz frame rate.
const DefaultTickInterval = 16 * time.Millisecond

// Options configures a Simulator. Zero fields take defaults.
type Options struct {
	Catalog      *challenge.Catalog
	Bus          *events.Bus
	Logger       *log.Logger
	TickInterval time.Duration
	Robot        robot.Type
	// Rand drives synthetic sensor readings.
	Rand *rand.Rand
	// Now stamps events. Defaults to time.Now.
	Now func() time.Time
}

// Simulator is the telemetry store and objective evaluator.
type Simulator struct {
	catalog *challenge.Catalog
	bus     *events.Bus
	logger  *log.Logger
	tick    time.Duration
	rng     *rand.Rand
	now     func() time.Time

	mu       sync.Mutex
	state    robot.State
	tracking Tracking
	active   string
	movement *motion
	rotation *motion
	closed   bool

	wg sync.WaitGroup
}

// New creates a Simulator with a freshly selected robot.
func New(opts Options) *Simulator {
	if opts.Catalog == nil {
		opts.Catalog = challenge.Default()
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr, "robosim: ", log.LstdFlags)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Robot == "" {
		opts.Robot = robot.TypeMobile
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Simulator{
		catalog:  opts.Catalog,
		bus:      opts.Bus,
		logger:   opts.Logger,
		tick:     opts.TickInterval,
		rng:      opts.Rand,
		now:      opts.Now,
		state:    robot.New(opts.Robot),
		tracking: newTracking(),
	}
}

// Catalog returns the challenge catalog the simulator evaluates against.
func (s *Simulator) Catalog() *challenge.Catalog { return s.catalog }

// Bus returns the event bus completions are published on.
func (s *Simulator) Bus() *events.Bus { return s.bus }

// TickInterval returns the motion tick period.
func (s *Simulator) TickInterval() time.Duration { return s.tick }

// Snapshot is a point-in-time copy of simulator state for rendering.
type Snapshot struct {
	Robot           robot.State
	Tracking        Tracking
	ActiveChallenge string
	At              time.Time
}

// Snapshot returns a deep copy of the current state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Robot:           s.state.Clone(),
		Tracking:        s.tracking.Clone(),
		ActiveChallenge: s.active,
		At:              s.now(),
	}
}

// Robot returns a copy of the robot state.
func (s *Simulator) Robot() robot.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Tracking returns a copy of the tracking record.
func (s *Simulator) Tracking() Tracking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking.Clone()
}

// ActiveChallenge returns the ID of the challenge being attempted, or "".
func (s *Simulator) ActiveChallenge() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SelectRobot replaces the robot with a fresh one of type t. Motion is
// cancelled and per-attempt metrics are cleared; completion sets survive.
func (s *Simulator) SelectRobot(t robot.Type) {
	if _, ok := robot.ParseType(string(t)); !ok {
		s.logger.Printf("select robot: unknown type %q ignored", t)
		return
	}

	s.mu.Lock()
	s.cancelMovementLocked()
	s.cancelRotationLocked()
	s.state = robot.New(t)
	s.tracking.resetAttempt()
	s.mu.Unlock()
}

// ResetProgress clears all tracking, including completion sets, and returns
// the robot to its starting pose.
func (s *Simulator) ResetProgress() {
	s.mu.Lock()
	s.cancelMovementLocked()
	s.cancelRotationLocked()
	s.state = robot.New(s.state.Type)
	s.tracking = newTracking()
	s.mu.Unlock()
}

// Close cancels every running motion and waits for ticker goroutines to exit.
// Further motion commands are ignored.
func (s *Simulator) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelMovementLocked()
	s.cancelRotationLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Simulator) publish(evs []events.Event) {
	for _, e := range evs {
		s.bus.Publish(e)
	}
}

func (s *Simulator) recordErrorLocked(msg string) {
	s.logger.Print(msg)
	s.state.Errors = append(s.state.Errors, msg)
}
