package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PatchPath string // hcl file or directory; empty selects the built-in set
	Root      string // directory patch targets are resolved against

	Only      []string
	DryRun    bool
	Strict    bool
	Backup    bool
	KeepGoing bool
	List      bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.DryRun && cfg.Backup {
		return nil, errors.New("backup has no effect in a dry run; pass only one of them")
	}
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
