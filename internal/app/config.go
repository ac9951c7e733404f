package app

import (
	"errors"

	"github.com/specialistvlad/javelin/internal/jdk"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath string // the root source: a path, URL, or "-" for stdin

	Fresh       bool
	Native      bool
	MainClass   string
	JavaVersion string
	ExtraDeps   []string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}
	if cfg.JavaVersion != "" && !jdk.CheckRequestedVersion(cfg.JavaVersion) {
		return nil, errors.New("invalid java version, should be a number optionally followed by a plus sign")
	}

	return &cfg, nil
}
