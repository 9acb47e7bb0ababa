package mesh

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadTetMesh reads and validates a tet mesh JSON file.
func LoadTetMesh(path string) (*TetMesh, error) {
	var m TetMesh
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &m, nil
}

// LoadVisMesh reads and validates a display mesh JSON file.
func LoadVisMesh(path string) (*VisMesh, error) {
	var m VisMesh
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &m, nil
}

// Save writes a mesh descriptor as indented JSON.
func Save(path string, m any) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
