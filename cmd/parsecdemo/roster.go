package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rosterEntry names one system to register and the priority to register it
// at.
type rosterEntry struct {
	Name     string `yaml:"name"`
	Priority int32  `yaml:"priority"`
}

type rosterFile struct {
	Systems []rosterEntry `yaml:"systems"`
}

// loadRoster reads the system roster from path.
func loadRoster(path string) ([]rosterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return f.Systems, nil
}
