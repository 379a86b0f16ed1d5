package project

import (
	"encoding/json"
	"fmt"
	"os"
)

// Write serializes a project to disk as indented JSON, so diffs between
// runs stay readable.
func Write(p *Project, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing project %s: %w", path, err)
	}
	return nil
}

// Read loads a project file back, mostly for tests and inspection.
func Read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project %s: %w", path, err)
	}
	return &p, nil
}
