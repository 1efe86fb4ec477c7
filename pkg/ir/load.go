package ir

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadUnit reads a unit previously dumped as JSON by an external compiler
// bridge. The dump shape matches the json tags on the model types.
func LoadUnit(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading IR dump %s: %w", path, err)
	}
	var unit Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decoding IR dump %s: %w", path, err)
	}
	return &unit, nil
}
