package command

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/robosim/internal/robot"
)

var (
	reRelease = regexp.MustCompile(`\b(release|drop|let go|put down)\b`)
	reLand    = regexp.MustCompile(`\b(land|touch down)\b`)
	reHover   = regexp.MustCompile(`\b(hover|take off|takeoff|lift off)\b`)
	reGrab    = regexp.MustCompile(`\b(grab|pick|take|grip)\b`)
	reStop    = regexp.MustCompile(`\b(stop|halt|freeze)\b`)
	reTurn    = regexp.MustCompile(`\b(turn|rotate|spin)\b`)
	reMove    = regexp.MustCompile(`\b(move|go|drive|walk|roll|fly|head|ascend|descend|climb)\b`)
	reSensor  = regexp.MustCompile(`\b(sensor|distance|read|scan|measure)\b`)

	reForward  = regexp.MustCompile(`\b(forward|forwards|ahead|straight)\b`)
	reBackward = regexp.MustCompile(`\b(backward|backwards|back|reverse)\b`)
	reLeft     = regexp.MustCompile(`\bleft\b`)
	reRight    = regexp.MustCompile(`\bright\b`)
	reUp       = regexp.MustCompile(`\b(up|ascend|climb|higher)\b`)
	reDown     = regexp.MustCompile(`\b(down|descend|lower)\b`)
	reAround   = regexp.MustCompile(`\baround\b`)

	reMillis   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(milliseconds?|ms)\b`)
	reSeconds  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(seconds?|secs?|s)\b`)
	reDistance = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(meters?|metres?|m|units?|steps?)\b`)
	reDegrees  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(degrees?|deg|°)`)
	rePercent  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	reSlow     = regexp.MustCompile(`\b(slow|slowly|gently|carefully)\b`)
	reFast     = regexp.MustCompile(`\b(fast|quickly|quick|full speed)\b`)

	reCamera = regexp.MustCompile(`\bcamera\b`)
	reLidar  = regexp.MustCompile(`\blidar\b`)

	reSplit = regexp.MustCompile(`\s*(?:,?\s*\band then\b|,?\s*\bthen\b|;)\s*`)
)

// Parse maps a single instruction to a Command. The rules are keyword based
// and checked in a fixed order, so "let go" releases and "pick up" grabs
// rather than moving.
func Parse(text string) (Command, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return Command{}, false
	}

	switch {
	case reRelease.MatchString(t):
		return Command{Action: ActionRelease}, true
	case reLand.MatchString(t):
		return Command{Action: ActionLand}, true
	case reHover.MatchString(t):
		return Command{Action: ActionHover}, true
	case reGrab.MatchString(t):
		return Command{Action: ActionGrab}, true
	case reStop.MatchString(t):
		return Command{Action: ActionStop}, true
	case reTurn.MatchString(t):
		return parseTurn(t), true
	case reMove.MatchString(t):
		return parseMove(t), true
	case reSensor.MatchString(t):
		return Command{Action: ActionSensor, Sensor: parseSensor(t)}, true
	}
	return Command{}, false
}

// ParseAll splits text on "then" and ";" and parses each step. It fails if
// any step is not understood.
func ParseAll(text string) ([]Command, bool) {
	var cmds []Command
	for _, step := range reSplit.Split(strings.ToLower(text), -1) {
		if strings.TrimSpace(step) == "" {
			continue
		}
		c, ok := Parse(step)
		if !ok {
			return nil, false
		}
		cmds = append(cmds, c)
	}
	return cmds, len(cmds) > 0
}

func parseMove(t string) Command {
	c := Command{
		Action:    ActionMove,
		Direction: robot.Forward,
		Speed:     parseSpeed(t),
		Duration:  DefaultDuration,
	}

	switch {
	case reBackward.MatchString(t):
		c.Direction = robot.Backward
	case reLeft.MatchString(t):
		c.Direction = robot.Left
	case reRight.MatchString(t):
		c.Direction = robot.Right
	case reUp.MatchString(t):
		c.Direction = robot.Up
	case reDown.MatchString(t):
		c.Direction = robot.Down
	case reForward.MatchString(t):
		c.Direction = robot.Forward
	}

	switch {
	case reMillis.MatchString(t):
		c.Duration = time.Duration(number(reMillis, t) * float64(time.Millisecond))
	case reDistance.MatchString(t):
		c.Distance = number(reDistance, t)
		c.Duration = 0
	case reSeconds.MatchString(t):
		c.Duration = time.Duration(number(reSeconds, t) * float64(time.Second))
	}
	return c
}

func parseTurn(t string) Command {
	c := Command{
		Action:    ActionRotate,
		Direction: robot.Right,
		Angle:     DefaultAngle,
		Speed:     parseSpeed(t),
	}
	if reLeft.MatchString(t) {
		c.Direction = robot.Left
	}
	switch {
	case reDegrees.MatchString(t):
		c.Angle = number(reDegrees, t)
	case reAround.MatchString(t):
		c.Angle = 180
	}
	return c
}

func parseSpeed(t string) float64 {
	switch {
	case rePercent.MatchString(t):
		return min(number(rePercent, t)/100, 1)
	case reSlow.MatchString(t):
		return 0.25
	case reFast.MatchString(t):
		return 1
	}
	return DefaultSpeed
}

func parseSensor(t string) string {
	switch {
	case reCamera.MatchString(t):
		return "camera"
	case reLidar.MatchString(t):
		return "lidar"
	}
	return DefaultSensor
}

// number returns the first capture group of re in t as a float.
func number(re *regexp.Regexp, t string) float64 {
	m := re.FindStringSubmatch(t)
	if len(m) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
