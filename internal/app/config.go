package app

import (
	"errors"
	"fmt"
)

// Config holds everything the CLI resolved for one invocation.
type Config struct {
	Command string   // "init" or "run"
	Argv    []string // raw arguments, echoed into the startup debug log

	LogFormat string
	Debug     bool

	// init
	Target string
	Slides []string

	// run
	ProjectFile string
	SavePath    string
	SessionFile string
	MonitorURL  string
	Device      string
	Seed        int64
	SeedSet     bool
	StatusPort  int
}

// NewConfig validates a parsed configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("LogFormat must be 'text' or 'json'")
	}
	switch cfg.Command {
	case "init":
		if cfg.Target == "" {
			return nil, errors.New("Target is a required configuration field and cannot be empty")
		}
	case "run":
		if cfg.ProjectFile == "" {
			return nil, errors.New("ProjectFile is a required configuration field and cannot be empty")
		}
		if cfg.SavePath == "" {
			return nil, errors.New("SavePath is a required configuration field and cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return &cfg, nil
}
