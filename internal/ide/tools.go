package ide

import (
	"encoding/json"
	"fmt"
)

// ToolDescriptor is one entry of the IDE's tool listing. InputSchema is kept
// raw so it reaches the client unmodified.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ParseTools decodes a tool listing payload.
func ParseTools(payload []byte) ([]ToolDescriptor, error) {
	var tools []ToolDescriptor
	if err := json.Unmarshal(payload, &tools); err != nil {
		return nil, fmt.Errorf("decoding tool list: %w", err)
	}

	out := tools[:0]
	for _, t := range tools {
		if t.Name == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
