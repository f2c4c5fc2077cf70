package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for nonsensical values. Defaults have already
// been applied by the loader, so zero values here are caller mistakes.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Addr == "" {
		errs = append(errs, "server.addr must not be empty")
	}
	if cfg.Storage.MaxEvents <= 0 {
		errs = append(errs, fmt.Sprintf("storage.max_events must be positive, got %d", cfg.Storage.MaxEvents))
	}
	if cfg.Storage.MaxBuckets <= 0 {
		errs = append(errs, fmt.Sprintf("storage.max_buckets must be positive, got %d", cfg.Storage.MaxBuckets))
	}
	if cfg.Simulation.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.interval_seconds must be positive, got %d", cfg.Simulation.IntervalSeconds))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
