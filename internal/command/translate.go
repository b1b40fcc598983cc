package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/abhisek/robosim/internal/llm"
	"github.com/abhisek/robosim/internal/robot"
)

// TranslatorConfig holds generation settings for command translation.
type TranslatorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultTranslatorConfig returns sensible defaults.
func DefaultTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		MaxTokens:   400,
		Temperature: 0,
	}
}

// Translator asks an LLM to map free text to commands when the keyword
// parser gives up.
type Translator struct {
	provider llm.Provider
	cfg      TranslatorConfig
}

// NewTranslator returns a Translator. A nil provider yields a Translator that
// always reports ErrUnknownCommand.
func NewTranslator(provider llm.Provider, cfg TranslatorConfig) *Translator {
	return &Translator{provider: provider, cfg: cfg}
}

// Enabled reports whether an LLM is configured.
func (t *Translator) Enabled() bool { return t != nil && t.provider != nil }

// CommandSchema constrains the translation response. Every property is
// required so providers with strict structured output accept it.
var CommandSchema = &llm.Schema{
	Name:        "robot-command",
	Description: "A sequence of robot commands extracted from a learner's instruction",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"commands": map[string]any{
				"type":        "array",
				"description": "Commands in execution order. Empty if the instruction is not a robot command.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"action": map[string]any{
							"type": "string",
							"enum": []any{"move", "rotate", "stop", "sensor", "grab", "release", "hover", "land"},
						},
						"direction": map[string]any{
							"type": "string",
							"enum": []any{"forward", "backward", "left", "right", "up", "down", "none"},
						},
						"value": map[string]any{
							"type":        "number",
							"description": "Distance, duration or angle depending on unit. 0 when not given.",
						},
						"unit": map[string]any{
							"type": "string",
							"enum": []any{"meters", "seconds", "degrees", "none"},
						},
						"speed": map[string]any{
							"type":        "number",
							"description": "Speed from 0.1 to 1.0. Use 0.5 when not given.",
						},
						"sensor": map[string]any{
							"type": "string",
							"enum": []any{"ultrasonic", "camera", "lidar", "none"},
						},
					},
					"required":             []any{"action", "direction", "value", "unit", "speed", "sensor"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"commands"},
		"additionalProperties": false,
	},
}

type translation struct {
	Commands []translatedCommand `json:"commands"`
}

type translatedCommand struct {
	Action    string  `json:"action"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Speed     float64 `json:"speed"`
	Sensor    string  `json:"sensor"`
}

// Translate converts text into commands for a robot of type rt.
func (t *Translator) Translate(ctx context.Context, text string, rt robot.Type) ([]Command, error) {
	if !t.Enabled() {
		return nil, ErrUnknownCommand
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCommandTranslate)

	system, err := buildTranslatePrompt(rt)
	if err != nil {
		return nil, fmt.Errorf("build translate prompt: %w", err)
	}

	resp, err := t.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: text},
		},
		Schema:      CommandSchema,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM translation failed: %w", err)
	}

	var out translation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse translation response: %w", err)
	}

	cmds := make([]Command, 0, len(out.Commands))
	for _, tc := range out.Commands {
		c, ok := tc.command()
		if !ok {
			return nil, fmt.Errorf("%w: translated action %q", ErrUnknownCommand, tc.Action)
		}
		cmds = append(cmds, c)
	}
	if len(cmds) == 0 {
		return nil, ErrUnknownCommand
	}
	return cmds, nil
}

// command maps one translated item onto a Command, filling defaults the
// same way the keyword parser does.
func (tc translatedCommand) command() (Command, bool) {
	speed := tc.Speed
	if speed <= 0 || speed > 1 {
		speed = DefaultSpeed
	}
	dir, _ := robot.ParseDirection(tc.Direction)

	switch Action(tc.Action) {
	case ActionMove:
		if dir == "" {
			dir = robot.Forward
		}
		c := Command{Action: ActionMove, Direction: dir, Speed: speed, Duration: DefaultDuration}
		switch {
		case tc.Unit == "meters" && tc.Value > 0:
			c.Distance, c.Duration = tc.Value, 0
		case tc.Unit == "seconds" && tc.Value > 0:
			c.Duration = time.Duration(tc.Value * float64(time.Second))
		}
		return c, true

	case ActionRotate:
		if dir != robot.Left {
			dir = robot.Right
		}
		angle := DefaultAngle
		if tc.Unit == "degrees" && tc.Value > 0 {
			angle = tc.Value
		}
		return Command{Action: ActionRotate, Direction: dir, Angle: angle, Speed: speed}, true

	case ActionSensor:
		sensor := tc.Sensor
		if sensor == "" || sensor == "none" {
			sensor = DefaultSensor
		}
		return Command{Action: ActionSensor, Sensor: sensor}, true

	case ActionStop, ActionGrab, ActionRelease, ActionHover, ActionLand:
		return Command{Action: Action(tc.Action)}, true
	}
	return Command{}, false
}

const translateSystemPrompt = `You control a simulated {{.Robot}} robot in a learning game for children.
Translate the learner's instruction into robot commands.

Rules:
- Use "move" with unit "meters" when a distance is given and "seconds" when a time is given.
- Use "rotate" with direction left or right and unit "degrees". A plain "turn" is 90 degrees.
- Use "sensor" for any request to measure, scan or read a distance.
{{- if .Flies}}
- This robot flies: "hover" takes off, "land" touches down, up and down change altitude.
{{- else}}
- This robot cannot fly: never emit "hover" or "land".
{{- end}}
- Set unused fields to "none" or 0.
- If the text is not an instruction for the robot, return an empty commands list.`

var translateTmpl = template.Must(template.New("translate").Parse(translateSystemPrompt))

func buildTranslatePrompt(rt robot.Type) (string, error) {
	var buf bytes.Buffer
	err := translateTmpl.Execute(&buf, struct {
		Robot string
		Flies bool
	}{
		Robot: rt.DisplayName(),
		Flies: rt == robot.TypeDrone,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
