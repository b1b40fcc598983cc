package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveSchema() *Schema {
	return &Schema{
		Name:        "test-move",
		Description: "A robot movement",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action":    map[string]any{"type": "string", "enum": []any{"move", "rotate", "stop"}},
				"direction": map[string]any{"type": "string"},
				"speed":     map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []any{"action"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"action":"move","direction":"forward","speed":0.5}`, false},
		{"optional fields omitted", `{"action":"stop"}`, false},
		{"missing required", `{"direction":"left"}`, true},
		{"wrong type", `{"action":"move","speed":"fast"}`, true},
		{"out of range", `{"action":"move","speed":3}`, true},
		{"invalid enum", `{"action":"fly"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(moveSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var invErr *ErrInvalidResponse
			require.Error(t, err)
			assert.True(t, errors.As(err, &invErr), "got %T", err)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`anything`)))
}

func TestValidateResponse_GoStringSlices(t *testing.T) {
	s := &Schema{
		Name: "test-go-slices",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"joint"},
			"properties": map[string]any{
				"joint": map[string]any{"type": "string", "enum": []string{"base", "wrist"}},
			},
		},
	}
	assert.NoError(t, validateResponse(s, json.RawMessage(`{"joint":"wrist"}`)))
	assert.Error(t, validateResponse(s, json.RawMessage(`{"joint":"knee"}`)))
}
